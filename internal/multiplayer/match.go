package multiplayer

import (
	"sync"
	"time"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
)

// OnlineGame is what the match loop needs from a game instance. The
// bomber match type satisfies it; the interface keeps this package
// testable with a stub.
type OnlineGame interface {
	Reset(cfg core.RuntimeConfig)

	// StepMulti advances one tick with per-player input.
	StepMulti(input core.MultiInputFrame) core.StepResult

	// Snapshot returns the full state for transmission to clients.
	Snapshot() game.Snapshot

	IsGameOver() bool

	// Winner returns the winning team, or -1 while the match runs.
	Winner() int

	// Score1 and Score2 are the round wins of teams 0 and 1.
	Score1() int
	Score2() int

	// Round is the 1-based number of the round in progress.
	Round() int
}

// MatchResult is the outcome of a finished match.
type MatchResult struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  int
	Score1  int
	Score2  int
	Rounds  int
	Ticks   uint64
}

// OnlineMatch runs one authoritative match for two sessions. The server
// simulates; clients only send input and render snapshots.
type OnlineMatch struct {
	id      MatchID
	code    string
	mapName string
	game    OnlineGame

	player1Session SessionHandle
	player2Session SessionHandle

	inputMu    sync.Mutex
	lastInput1 core.InputFrame
	lastInput2 core.InputFrame
	inputChan  chan playerInput

	tick     uint64
	tickRate int
	done     chan struct{}
	doneOnce sync.Once

	disconnectChan chan SessionID
}

type playerInput struct {
	player PlayerID
	input  core.InputFrame
}

// NewOnlineMatch creates a match over an already-reset game.
func NewOnlineMatch(
	id MatchID,
	code string,
	mapName string,
	g OnlineGame,
	p1Session, p2Session SessionHandle,
	tickRate int,
) *OnlineMatch {
	return &OnlineMatch{
		id:             id,
		code:           code,
		mapName:        mapName,
		game:           g,
		player1Session: p1Session,
		player2Session: p2Session,
		lastInput1:     core.NewInputFrame(),
		lastInput2:     core.NewInputFrame(),
		inputChan:      make(chan playerInput, 64),
		tickRate:       tickRate,
		done:           make(chan struct{}),
		disconnectChan: make(chan SessionID, 2),
	}
}

// ID returns the match identifier.
func (m *OnlineMatch) ID() MatchID {
	return m.id
}

// Code returns the join code this match was created from.
func (m *OnlineMatch) Code() string {
	return m.code
}

// MapName returns the map the match is played on.
func (m *OnlineMatch) MapName() string {
	return m.mapName
}

// SendInput forwards player input to the match loop. Never blocks; a
// full buffer drops the frame.
func (m *OnlineMatch) SendInput(player PlayerID, input core.InputFrame) {
	select {
	case m.inputChan <- playerInput{player: player, input: input}:
	default:
	}
}

// PlayerDisconnected signals that a player's session has gone away.
func (m *OnlineMatch) PlayerDisconnected(sessionID SessionID) {
	select {
	case m.disconnectChan <- sessionID:
	default:
	}
}

// Run drives the fixed-rate simulation until the match ends, then calls
// onComplete with the result.
func (m *OnlineMatch) Run(onComplete func(MatchResult)) {
	defer func() {
		m.doneOnce.Do(func() {
			close(m.done)
		})
	}()

	tickDuration := time.Second / time.Duration(m.tickRate)
	ticker := time.NewTicker(tickDuration)
	defer ticker.Stop()

	go m.monitorSessions()

	for {
		select {
		case <-ticker.C:
			result, over := m.runTick()
			if over {
				if onComplete != nil {
					onComplete(result)
				}
				return
			}

		case sessionID := <-m.disconnectChan:
			result := m.handleDisconnect(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
			return

		case <-m.done:
			return
		}
	}
}

func (m *OnlineMatch) runTick() (MatchResult, bool) {
	m.drainInputs()

	m.inputMu.Lock()
	multiInput := core.NewMultiInputFrame()
	multiInput.SetPlayer(Player1, m.lastInput1.Clone())
	multiInput.SetPlayer(Player2, m.lastInput2.Clone())
	m.lastInput1.Clear()
	m.lastInput2.Clear()
	m.inputMu.Unlock()

	m.game.StepMulti(multiInput)
	m.tick++

	snapshotEvent := SnapshotEvent{
		MatchID:  m.id,
		Tick:     m.tick,
		Snapshot: m.game.Snapshot(),
	}
	m.player1Session.Send(snapshotEvent)
	m.player2Session.Send(snapshotEvent)

	if m.game.IsGameOver() {
		return MatchResult{
			MatchID: m.id,
			Reason:  MatchEndReasonCompleted,
			Winner:  m.game.Winner(),
			Score1:  m.game.Score1(),
			Score2:  m.game.Score2(),
			Rounds:  m.game.Round(),
			Ticks:   m.tick,
		}, true
	}

	return MatchResult{}, false
}

func (m *OnlineMatch) drainInputs() {
	m.inputMu.Lock()
	defer m.inputMu.Unlock()

	for {
		select {
		case pi := <-m.inputChan:
			// Merge frames that arrive between ticks so a short press
			// is not lost.
			dst := &m.lastInput1
			if pi.player != Player1 {
				dst = &m.lastInput2
			}
			for action, pressed := range pi.input.Actions {
				if pressed {
					dst.Set(action)
				}
			}
		default:
			return
		}
	}
}

func (m *OnlineMatch) handleDisconnect(sessionID SessionID) MatchResult {
	winner := 1
	if sessionID == m.player2Session.ID() {
		winner = 0
	}

	return MatchResult{
		MatchID: m.id,
		Reason:  MatchEndReasonDisconnect,
		Winner:  winner,
		Score1:  m.game.Score1(),
		Score2:  m.game.Score2(),
		Rounds:  m.game.Round(),
		Ticks:   m.tick,
	}
}

func (m *OnlineMatch) monitorSessions() {
	select {
	case <-m.player1Session.Done():
		select {
		case m.disconnectChan <- m.player1Session.ID():
		default:
		}
	case <-m.player2Session.Done():
		select {
		case m.disconnectChan <- m.player2Session.ID():
		default:
		}
	case <-m.done:
	}
}

// Stop ends the match loop without a result.
func (m *OnlineMatch) Stop() {
	m.doneOnce.Do(func() {
		close(m.done)
	})
}
