package multiplayer

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tuigames/tui-bomber/internal/core"
)

// Lobby is a hosted match waiting for a second player.
type Lobby struct {
	Code      string
	MapName   string
	Host      SessionHandle
	Joiner    SessionHandle
	CreatedAt time.Time
}

// CoordinatorConfig holds coordinator tuning.
type CoordinatorConfig struct {
	LobbyTimeout  time.Duration // how long an un-joined lobby lives
	TickRate      int           // server simulation rate in Hz
	CleanupPeriod time.Duration // how often expired lobbies are swept
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		LobbyTimeout:  2 * time.Minute,
		TickRate:      60,
		CleanupPeriod: 30 * time.Second,
	}
}

// MatchFactory builds the game instance for a new match on the given
// map. The factory resets the game before returning it.
type MatchFactory func(mapName string, cfg core.RuntimeConfig) (OnlineGame, error)

// MatchResultSaver persists finished matches. Kept as an interface so
// the coordinator does not depend on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData is the persistence form of a finished match.
type MatchResultData struct {
	MatchID        string
	MapName        string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	Rounds         int
	WinnerSession  string
	EndReason      string
	DurationSecs   int
}

// Coordinator owns all lobbies and running matches on the server.
type Coordinator struct {
	config       CoordinatorConfig
	matchFactory MatchFactory
	sessions     *SessionRegistry
	resultSaver  MatchResultSaver // optional

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	matches map[MatchID]*OnlineMatch

	sessionLobby map[SessionID]string
	sessionMatch map[SessionID]MatchID

	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a coordinator. Call Start before sending to it.
func NewCoordinator(cfg CoordinatorConfig, factory MatchFactory, sessions *SessionRegistry) *Coordinator {
	return &Coordinator{
		config:       cfg,
		matchFactory: factory,
		sessions:     sessions,
		lobbies:      make(map[string]*Lobby),
		matches:      make(map[MatchID]*OnlineMatch),
		sessionLobby: make(map[SessionID]string),
		sessionMatch: make(map[SessionID]MatchID),
		msgChan:      make(chan CoordinatorMessage, 256),
		done:         make(chan struct{}),
	}
}

// SetResultSaver wires in optional match persistence.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Start begins background message processing and lobby cleanup.
func (c *Coordinator) Start() {
	go c.processMessages()
	go c.cleanupLoop()
}

// Stop shuts the coordinator down.
func (c *Coordinator) Stop() {
	close(c.done)
}

// Send queues a message for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case CreateLobbyMsg:
		c.handleCreateLobby(m)
	case JoinLobbyMsg:
		c.handleJoinLobby(m)
	case CancelLobbyMsg:
		c.handleCancelLobby(m)
	case LeaveLobbyMsg:
		c.handleLeaveLobby(m)
	case LeaveMatchMsg:
		c.handleLeaveMatch(m)
	case PlayerInputMsg:
		c.handlePlayerInput(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	case ReadyForRematchMsg:
		// TODO: rematch keeping the same lobby code
	}
}

func (c *Coordinator) handleCreateLobby(msg CreateLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		c.mu.Unlock()
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := c.generateUniqueCode()

	lobby := &Lobby{
		Code:      code,
		MapName:   msg.MapName,
		Host:      session,
		CreatedAt: time.Now(),
	}

	c.lobbies[code] = lobby
	c.sessionLobby[msg.SessionID] = code
	c.mu.Unlock()

	session.Send(LobbyCreatedEvent{Code: code, MapName: msg.MapName})
}

func (c *Coordinator) handleJoinLobby(msg JoinLobbyMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		session.Send(LobbyErrorEvent{Message: "Already in a lobby"})
		return
	}

	code := strings.ToUpper(msg.Code)
	lobby, exists := c.lobbies[code]
	if !exists {
		session.Send(LobbyErrorEvent{Message: "Lobby not found"})
		return
	}

	if lobby.Joiner != nil {
		session.Send(LobbyErrorEvent{Message: "Lobby is full"})
		return
	}

	if lobby.Host.ID() == msg.SessionID {
		session.Send(LobbyErrorEvent{Message: "Cannot join your own lobby"})
		return
	}

	lobby.Joiner = session
	c.sessionLobby[msg.SessionID] = code

	lobby.Host.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player1,
		OpponentID: msg.SessionID,
	})
	session.Send(LobbyJoinedEvent{
		Code:       code,
		Side:       Player2,
		OpponentID: lobby.Host.ID(),
	})

	c.startMatch(lobby)
}

// startMatch promotes a full lobby into a running match. Caller holds
// the lock.
func (c *Coordinator) startMatch(lobby *Lobby) {
	matchID := MatchID(fmt.Sprintf("match-%s-%d", lobby.Code, time.Now().UnixNano()))

	cfg := core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: c.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	g, err := c.matchFactory(lobby.MapName, cfg)
	if err != nil {
		lobby.Host.Send(LobbyErrorEvent{Message: "Failed to start match"})
		lobby.Joiner.Send(LobbyErrorEvent{Message: "Failed to start match"})
		return
	}

	match := NewOnlineMatch(matchID, lobby.Code, lobby.MapName, g, lobby.Host, lobby.Joiner, c.config.TickRate)

	c.matches[matchID] = match
	hostID := lobby.Host.ID()
	joinerID := lobby.Joiner.ID()

	delete(c.sessionLobby, hostID)
	delete(c.sessionLobby, joinerID)
	c.sessionMatch[hostID] = matchID
	c.sessionMatch[joinerID] = matchID

	delete(c.lobbies, lobby.Code)

	lobby.Host.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player1,
		Code:    lobby.Code,
		MapName: lobby.MapName,
	})
	lobby.Joiner.Send(MatchStartedEvent{
		MatchID: matchID,
		Side:    Player2,
		Code:    lobby.Code,
		MapName: lobby.MapName,
	})

	go match.Run(func(result MatchResult) {
		c.handleMatchEnded(matchID, result)
	})
}

func (c *Coordinator) handleMatchEnded(matchID MatchID, result MatchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	match, exists := c.matches[matchID]
	if !exists {
		return
	}

	if c.resultSaver != nil {
		winnerSession := ""
		switch result.Winner {
		case 0:
			winnerSession = string(match.player1Session.ID())
		case 1:
			winnerSession = string(match.player2Session.ID())
		}

		tickRate := max(1, c.config.TickRate)
		resultData := MatchResultData{
			MatchID:        string(matchID),
			MapName:        match.MapName(),
			Player1Session: string(match.player1Session.ID()),
			Player2Session: string(match.player2Session.ID()),
			Score1:         result.Score1,
			Score2:         result.Score2,
			Rounds:         result.Rounds,
			WinnerSession:  winnerSession,
			EndReason:      result.Reason.String(),
			DurationSecs:   int(result.Ticks / uint64(tickRate)), //nolint:gosec // tickRate is clamped positive
		}
		// Best effort, never blocks the coordinator.
		go func() {
			_ = c.resultSaver.SaveMatchResult(resultData) //nolint:errcheck // fire-and-forget
		}()
	}

	for _, sessionID := range []SessionID{match.player1Session.ID(), match.player2Session.ID()} {
		delete(c.sessionMatch, sessionID)
	}

	delete(c.matches, matchID)

	endEvent := MatchEndedEvent{
		MatchID: matchID,
		Reason:  result.Reason,
		Winner:  result.Winner,
		Score1:  result.Score1,
		Score2:  result.Score2,
	}
	match.player1Session.Send(endEvent)
	match.player2Session.Send(endEvent)
}

func (c *Coordinator) handleCancelLobby(msg CancelLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	if lobby.Host.ID() != msg.SessionID {
		return
	}

	if lobby.Joiner != nil {
		lobby.Joiner.Send(MatchEndedEvent{
			Reason: MatchEndReasonHostLeft,
			Winner: -1,
		})
		delete(c.sessionLobby, lobby.Joiner.ID())
	}

	delete(c.lobbies, msg.Code)
	delete(c.sessionLobby, msg.SessionID)
}

func (c *Coordinator) handleLeaveLobby(msg LeaveLobbyMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lobby, exists := c.lobbies[msg.Code]
	if !exists {
		return
	}

	if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
		lobby.Joiner = nil
		delete(c.sessionLobby, msg.SessionID)
		lobby.Host.Send(LobbyPlayerLeftEvent{Code: msg.Code})
		return
	}

	if lobby.Host.ID() == msg.SessionID {
		if lobby.Joiner != nil {
			lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft, Winner: -1})
			delete(c.sessionLobby, lobby.Joiner.ID())
		}
		delete(c.lobbies, msg.Code)
		delete(c.sessionLobby, msg.SessionID)
	}
}

func (c *Coordinator) handleLeaveMatch(msg LeaveMatchMsg) {
	c.mu.Lock()
	match, exists := c.matches[msg.MatchID]
	c.mu.Unlock()

	if !exists {
		return
	}

	match.PlayerDisconnected(msg.SessionID)
}

func (c *Coordinator) handlePlayerInput(msg PlayerInputMsg) {
	c.mu.RLock()
	match, exists := c.matches[msg.MatchID]
	c.mu.RUnlock()

	if !exists {
		return
	}

	match.SendInput(msg.Player, msg.Input)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inLobby := c.sessionLobby[msg.SessionID]; inLobby {
		if lobby, exists := c.lobbies[code]; exists {
			if lobby.Host.ID() == msg.SessionID {
				if lobby.Joiner != nil {
					lobby.Joiner.Send(MatchEndedEvent{Reason: MatchEndReasonHostLeft, Winner: -1})
					delete(c.sessionLobby, lobby.Joiner.ID())
				}
				delete(c.lobbies, code)
			} else if lobby.Joiner != nil && lobby.Joiner.ID() == msg.SessionID {
				lobby.Joiner = nil
				lobby.Host.Send(LobbyPlayerLeftEvent{Code: code})
			}
		}
		delete(c.sessionLobby, msg.SessionID)
	}

	if matchID, inMatch := c.sessionMatch[msg.SessionID]; inMatch {
		if match, exists := c.matches[matchID]; exists {
			match.PlayerDisconnected(msg.SessionID)
		}
	}
}

func (c *Coordinator) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpiredLobbies()
		case <-c.done:
			return
		}
	}
}

func (c *Coordinator) cleanupExpiredLobbies() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for code, lobby := range c.lobbies {
		if lobby.Joiner == nil && now.Sub(lobby.CreatedAt) > c.config.LobbyTimeout {
			lobby.Host.Send(LobbyErrorEvent{Message: "Lobby expired"})
			delete(c.sessionLobby, lobby.Host.ID())
			delete(c.lobbies, code)
		}
	}
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.lobbies[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase code.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	// base32 keeps the alphabet unambiguous over a terminal (A-Z, 2-7)
	code := base32.StdEncoding.EncodeToString(b)[:6]
	return strings.ToUpper(code)
}

// GetLobby returns a lobby by code.
func (c *Coordinator) GetLobby(code string) (*Lobby, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.lobbies[strings.ToUpper(code)]
	return l, ok
}

// GetMatch returns a match by ID.
func (c *Coordinator) GetMatch(id MatchID) (*OnlineMatch, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.matches[id]
	return m, ok
}

// LobbyCount returns the number of open lobbies.
func (c *Coordinator) LobbyCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lobbies)
}

// MatchCount returns the number of running matches.
func (c *Coordinator) MatchCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.matches)
}
