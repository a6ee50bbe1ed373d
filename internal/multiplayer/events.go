package multiplayer

import (
	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
)

// SessionEvent is anything the coordinator pushes to a session.
type SessionEvent interface {
	sessionEvent()
}

// LobbyCreatedEvent confirms a hosted lobby and carries its join code.
type LobbyCreatedEvent struct {
	Code    string
	MapName string
}

func (LobbyCreatedEvent) sessionEvent() {}

// LobbyErrorEvent reports a failed lobby operation.
type LobbyErrorEvent struct {
	Message string
}

func (LobbyErrorEvent) sessionEvent() {}

// LobbyJoinedEvent is sent to both host and joiner when a lobby fills.
type LobbyJoinedEvent struct {
	Code       string
	Side       PlayerID
	OpponentID SessionID
}

func (LobbyJoinedEvent) sessionEvent() {}

// LobbyPlayerLeftEvent is sent to the host when the joiner backs out
// before the match starts.
type LobbyPlayerLeftEvent struct {
	Code string
}

func (LobbyPlayerLeftEvent) sessionEvent() {}

// MatchStartedEvent announces the match and which side the session plays.
type MatchStartedEvent struct {
	MatchID MatchID
	Side    PlayerID
	Code    string
	MapName string
}

func (MatchStartedEvent) sessionEvent() {}

// MatchEndedEvent announces the outcome. Winner is the winning team
// number, or -1 when nobody won.
type MatchEndedEvent struct {
	MatchID MatchID
	Reason  MatchEndReason
	Winner  int
	Score1  int
	Score2  int
}

func (MatchEndedEvent) sessionEvent() {}

// MatchEndReason describes why a match ended.
type MatchEndReason int

const (
	MatchEndReasonCompleted MatchEndReason = iota
	MatchEndReasonDisconnect
	MatchEndReasonCancelled
	MatchEndReasonHostLeft
	MatchEndReasonJoinerLeft
)

func (r MatchEndReason) String() string {
	switch r {
	case MatchEndReasonCompleted:
		return "Match completed"
	case MatchEndReasonDisconnect:
		return "Opponent disconnected"
	case MatchEndReasonCancelled:
		return "Match cancelled"
	case MatchEndReasonHostLeft:
		return "Host left"
	case MatchEndReasonJoinerLeft:
		return "Opponent left"
	default:
		return "Unknown"
	}
}

// SnapshotEvent carries the authoritative match state to both sessions
// once per tick. Clients render it as-is; there is no prediction.
type SnapshotEvent struct {
	MatchID  MatchID
	Tick     uint64
	Snapshot game.Snapshot
}

func (SnapshotEvent) sessionEvent() {}

// CoordinatorMessage is anything a session sends to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// CreateLobbyMsg asks for a new lobby on the given map.
type CreateLobbyMsg struct {
	SessionID SessionID
	MapName   string
}

func (CreateLobbyMsg) coordinatorMessage() {}

// JoinLobbyMsg asks to join a lobby by its code.
type JoinLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (JoinLobbyMsg) coordinatorMessage() {}

// CancelLobbyMsg closes a hosted lobby.
type CancelLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (CancelLobbyMsg) coordinatorMessage() {}

// LeaveLobbyMsg leaves a joined lobby.
type LeaveLobbyMsg struct {
	SessionID SessionID
	Code      string
}

func (LeaveLobbyMsg) coordinatorMessage() {}

// LeaveMatchMsg forfeits an active match.
type LeaveMatchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (LeaveMatchMsg) coordinatorMessage() {}

// PlayerInputMsg forwards a tick's worth of key state to a match.
type PlayerInputMsg struct {
	MatchID  MatchID
	Player   PlayerID
	TickHint uint64
	Input    core.InputFrame
}

func (PlayerInputMsg) coordinatorMessage() {}

// ReadyForRematchMsg signals readiness for a rematch.
type ReadyForRematchMsg struct {
	SessionID SessionID
	MatchID   MatchID
}

func (ReadyForRematchMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when an SSH connection closes.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
