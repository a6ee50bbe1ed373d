package multiplayer

import (
	"testing"
	"time"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
)

// stubGame ends with a team 0 win after a fixed number of ticks.
type stubGame struct {
	ticksToWin int
	steps      int
}

func (s *stubGame) Reset(core.RuntimeConfig) { s.steps = 0 }

func (s *stubGame) StepMulti(core.MultiInputFrame) core.StepResult {
	s.steps++
	return core.StepResult{}
}

func (s *stubGame) Snapshot() game.Snapshot { return game.Snapshot{} }
func (s *stubGame) IsGameOver() bool        { return s.steps >= s.ticksToWin }

func (s *stubGame) Winner() int {
	if s.IsGameOver() {
		return 0
	}
	return -1
}

func (s *stubGame) Score1() int { return 1 }
func (s *stubGame) Score2() int { return 0 }
func (s *stubGame) Round() int  { return 1 }

type recordingSaver struct {
	results chan MatchResultData
}

func (r *recordingSaver) SaveMatchResult(data MatchResultData) error {
	r.results <- data
	return nil
}

func newTestCoordinator(t *testing.T, ticksToWin int) (*Coordinator, *SessionRegistry, *recordingSaver) {
	t.Helper()

	sessions := NewSessionRegistry()
	factory := func(mapName string, cfg core.RuntimeConfig) (OnlineGame, error) {
		g := &stubGame{ticksToWin: ticksToWin}
		g.Reset(cfg)
		return g, nil
	}

	cfg := CoordinatorConfig{
		LobbyTimeout:  time.Minute,
		TickRate:      100,
		CleanupPeriod: time.Minute,
	}

	c := NewCoordinator(cfg, factory, sessions)
	saver := &recordingSaver{results: make(chan MatchResultData, 4)}
	c.SetResultSaver(saver)
	c.Start()
	t.Cleanup(c.Stop)

	return c, sessions, saver
}

func newTestSession(t *testing.T, sessions *SessionRegistry, id string) *ChannelSession {
	t.Helper()
	s := NewChannelSession(SessionID(id), 128)
	sessions.Register(s)
	t.Cleanup(s.Close)
	return s
}

// waitForEvent reads the session's events until one matches the filter.
func waitForEvent[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if typed, ok := evt.(T); ok {
				return typed
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func TestLobbyCreateJoinAndMatchCompletion(t *testing.T) {
	c, sessions, saver := newTestCoordinator(t, 3)
	host := newTestSession(t, sessions, "host")
	joiner := newTestSession(t, sessions, "joiner")

	c.Send(CreateLobbyMsg{SessionID: host.ID(), MapName: "volcano"})

	created := waitForEvent[LobbyCreatedEvent](t, host)
	if created.MapName != "volcano" {
		t.Errorf("lobby map = %q, expected volcano", created.MapName)
	}
	if len(created.Code) != 6 {
		t.Errorf("join code %q should be 6 characters", created.Code)
	}

	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	hostStart := waitForEvent[MatchStartedEvent](t, host)
	joinerStart := waitForEvent[MatchStartedEvent](t, joiner)

	if hostStart.Side != Player1 || joinerStart.Side != Player2 {
		t.Errorf("sides = %v/%v, expected host Player1 joiner Player2", hostStart.Side, joinerStart.Side)
	}
	if hostStart.MapName != "volcano" {
		t.Errorf("match map = %q, expected volcano", hostStart.MapName)
	}
	if hostStart.MatchID != joinerStart.MatchID {
		t.Error("sessions report different matches")
	}

	// Both sessions see authoritative state while the match runs
	snap := waitForEvent[SnapshotEvent](t, joiner)
	if snap.MatchID != hostStart.MatchID {
		t.Errorf("snapshot for match %v, expected %v", snap.MatchID, hostStart.MatchID)
	}

	ended := waitForEvent[MatchEndedEvent](t, host)
	if ended.Reason != MatchEndReasonCompleted {
		t.Errorf("reason = %v, expected completed", ended.Reason)
	}
	if ended.Winner != 0 {
		t.Errorf("winner = %d, expected team 0", ended.Winner)
	}
	waitForEvent[MatchEndedEvent](t, joiner)

	select {
	case data := <-saver.results:
		if data.WinnerSession != string(host.ID()) {
			t.Errorf("saved winner = %q, expected %q", data.WinnerSession, host.ID())
		}
		if data.MapName != "volcano" {
			t.Errorf("saved map = %q, expected volcano", data.MapName)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("match result never saved")
	}

	if c.MatchCount() != 0 {
		t.Errorf("match count = %d after completion, expected 0", c.MatchCount())
	}
}

func TestJoinUnknownLobby(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t, 1000)
	joiner := newTestSession(t, sessions, "joiner")

	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: "NOSUCH"})

	errEvt := waitForEvent[LobbyErrorEvent](t, joiner)
	if errEvt.Message != "Lobby not found" {
		t.Errorf("message = %q", errEvt.Message)
	}
}

func TestCannotJoinOwnLobby(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t, 1000)
	host := newTestSession(t, sessions, "host")

	c.Send(CreateLobbyMsg{SessionID: host.ID(), MapName: "classic"})
	created := waitForEvent[LobbyCreatedEvent](t, host)

	c.Send(JoinLobbyMsg{SessionID: host.ID(), Code: created.Code})

	errEvt := waitForEvent[LobbyErrorEvent](t, host)
	if errEvt.Message == "" {
		t.Error("expected a lobby error")
	}
}

func TestCancelLobbyNotifiesNobodyAndRemovesIt(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t, 1000)
	host := newTestSession(t, sessions, "host")

	c.Send(CreateLobbyMsg{SessionID: host.ID(), MapName: "classic"})
	created := waitForEvent[LobbyCreatedEvent](t, host)

	c.Send(CancelLobbyMsg{SessionID: host.ID(), Code: created.Code})

	deadline := time.After(3 * time.Second)
	for c.LobbyCount() != 0 {
		select {
		case <-deadline:
			t.Fatal("lobby still open after cancel")
		case <-time.After(10 * time.Millisecond):
		}
	}

	// A second host can reuse the session for a fresh lobby
	c.Send(CreateLobbyMsg{SessionID: host.ID(), MapName: "cave"})
	again := waitForEvent[LobbyCreatedEvent](t, host)
	if again.MapName != "cave" {
		t.Errorf("second lobby map = %q, expected cave", again.MapName)
	}
}

func TestDisconnectForfeitsMatch(t *testing.T) {
	c, sessions, _ := newTestCoordinator(t, 1000)
	host := newTestSession(t, sessions, "host")
	joiner := newTestSession(t, sessions, "joiner")

	c.Send(CreateLobbyMsg{SessionID: host.ID(), MapName: "classic"})
	created := waitForEvent[LobbyCreatedEvent](t, host)
	c.Send(JoinLobbyMsg{SessionID: joiner.ID(), Code: created.Code})

	start := waitForEvent[MatchStartedEvent](t, host)

	c.Send(LeaveMatchMsg{SessionID: joiner.ID(), MatchID: start.MatchID})

	ended := waitForEvent[MatchEndedEvent](t, host)
	if ended.Reason != MatchEndReasonDisconnect {
		t.Errorf("reason = %v, expected disconnect", ended.Reason)
	}
	if ended.Winner != 0 {
		t.Errorf("winner = %d, expected the staying player's team", ended.Winner)
	}
}

func TestLobbyExpires(t *testing.T) {
	sessions := NewSessionRegistry()
	factory := func(string, core.RuntimeConfig) (OnlineGame, error) {
		return &stubGame{ticksToWin: 1000}, nil
	}
	cfg := CoordinatorConfig{
		LobbyTimeout:  20 * time.Millisecond,
		TickRate:      100,
		CleanupPeriod: 10 * time.Millisecond,
	}
	c := NewCoordinator(cfg, factory, sessions)
	c.Start()
	t.Cleanup(c.Stop)

	host := newTestSession(t, sessions, "host")
	c.Send(CreateLobbyMsg{SessionID: host.ID(), MapName: "classic"})
	waitForEvent[LobbyCreatedEvent](t, host)

	errEvt := waitForEvent[LobbyErrorEvent](t, host)
	if errEvt.Message != "Lobby expired" {
		t.Errorf("message = %q, expected expiry notice", errEvt.Message)
	}
	if c.LobbyCount() != 0 {
		t.Errorf("lobby count = %d after expiry, expected 0", c.LobbyCount())
	}
}
