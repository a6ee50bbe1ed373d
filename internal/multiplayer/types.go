// Package multiplayer pairs SSH sessions into two-human bomber matches.
// The coordinator owns lobbies and running matches; sessions talk to it
// through channels so none of this depends on Wish or Bubble Tea.
package multiplayer

import "github.com/tuigames/tui-bomber/internal/core"

// PlayerID is an alias to core.PlayerID. Player1 is always the lobby
// host, Player2 the joiner.
type PlayerID = core.PlayerID

const (
	Player1 = core.Player1
	Player2 = core.Player2
)

// SessionID identifies one SSH connection for the lifetime of that
// connection.
type SessionID string

// MatchID identifies a running match.
type MatchID string

// MatchMode describes who controls the second player.
type MatchMode int

const (
	// MatchModeLocal is a single terminal against AI opponents.
	MatchModeLocal MatchMode = iota

	// MatchModeOnlinePvP is two SSH sessions on one server-side match.
	MatchModeOnlinePvP
)

func (m MatchMode) String() string {
	switch m {
	case MatchModeLocal:
		return "vs AI"
	case MatchModeOnlinePvP:
		return "Online PvP"
	default:
		return "Unknown"
	}
}

// MatchHandle gives a match's identity without exposing its lifecycle.
type MatchHandle interface {
	ID() MatchID
	Mode() MatchMode
}

// Match is the concrete MatchHandle the platform hands out.
type Match struct {
	id   MatchID
	mode MatchMode

	// SessionIDs lists the sessions in this match. Local mode has one,
	// online PvP has two.
	SessionIDs []SessionID
}

// NewMatch creates a match handle.
func NewMatch(id MatchID, mode MatchMode, sessions ...SessionID) *Match {
	return &Match{
		id:         id,
		mode:       mode,
		SessionIDs: sessions,
	}
}

func (m *Match) ID() MatchID { return m.id }

func (m *Match) Mode() MatchMode { return m.mode }

// Sessions returns the session IDs participating in this match.
func (m *Match) Sessions() []SessionID {
	return m.SessionIDs
}
