package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/multiplayer"
	"github.com/tuigames/tui-bomber/internal/registry"
	"github.com/tuigames/tui-bomber/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.bomber/host_key.
	HostKeyPath string

	// DBPath is the path to the match database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.bomber/scores.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the bomber platform.
type SSHServer struct {
	config      SSHServerConfig
	server      *ssh.Server
	store       *storage.Store
	sessions    *multiplayer.SessionRegistry
	coordinator *multiplayer.Coordinator
	logger      *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bomber-ssh",
	})

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open match database", "error", err)
		// Continue without storage
	}

	sessions := multiplayer.NewSessionRegistry()

	// The coordinator hosts the authoritative copy of every online
	// match. Each match plays a two-human versus game on the lobby map.
	factory := func(mapName string, rc core.RuntimeConfig) (multiplayer.OnlineGame, error) {
		g := game.NewVersus()
		g.UseMap(mapName)
		g.Reset(rc)
		return g, nil
	}

	coordinator := multiplayer.NewCoordinator(multiplayer.DefaultCoordinatorConfig(), factory, sessions)
	if store != nil {
		coordinator.SetResultSaver(store)
	}
	coordinator.Start()

	srv := &SSHServer{
		config:      cfg,
		store:       store,
		sessions:    sessions,
		coordinator: coordinator,
		logger:      logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".bomber", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		coordinator.Stop()
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Create runtime config from PTY size
	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: 60,
		Seed:     time.Now().UnixNano(),
	}

	// Create session model that handles menu + match flow
	model := NewSessionModel(s.store, cfg, sshSession.User(), s.coordinator, s.sessions)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.coordinator.Stop()
	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionState tracks which screen an SSH session is on.
type sessionState int

const (
	sessionStateMenu sessionState = iota
	sessionStateSetup
	sessionStateLobby
	sessionStateScoreboard
	sessionStateGame
)

// SessionModel manages the full session flow: menu -> match -> menu.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store       *storage.Store
	config      core.RuntimeConfig
	username    string
	sessionID   multiplayer.SessionID
	coordinator *multiplayer.Coordinator
	sessions    *multiplayer.SessionRegistry
	channel     *multiplayer.ChannelSession
	state       sessionState
	menu        MenuModel
	setup       *MatchMenuModel
	lobby       *OnlineLobbyModel
	scoreboard  *ScoreboardModel
	gameModel   *GameModel
	matchID     multiplayer.MatchID
	quitting    bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(
	store *storage.Store,
	cfg core.RuntimeConfig,
	username string,
	coordinator *multiplayer.Coordinator,
	sessions *multiplayer.SessionRegistry,
) SessionModel {
	sessionID := multiplayer.SessionID(fmt.Sprintf("%s-%d", username, time.Now().UnixNano()))

	return SessionModel{
		store:       store,
		config:      cfg,
		username:    username,
		sessionID:   sessionID,
		coordinator: coordinator,
		sessions:    sessions,
		state:       sessionStateMenu,
		menu:        NewMenuModel(store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.state {
	case sessionStateSetup:
		return m.updateSetup(msg)
	case sessionStateLobby:
		return m.updateLobby(msg)
	case sessionStateScoreboard:
		return m.updateScoreboard(msg)
	case sessionStateGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

// backToMenu discards any sub-model and returns to a fresh menu.
func (m *SessionModel) backToMenu() tea.Cmd {
	m.setup = nil
	m.lobby = nil
	m.scoreboard = nil
	m.gameModel = nil
	m.state = sessionStateMenu
	m.menu = NewMenuModel(m.store, m.config)
	return m.menu.Init()
}

// quit tears down the session's multiplayer presence.
func (m *SessionModel) quit() tea.Cmd {
	m.leaveMatch()
	if m.channel != nil {
		m.coordinator.Send(multiplayer.SessionDisconnectedMsg{SessionID: m.sessionID})
		m.sessions.Unregister(m.sessionID)
		m.channel.Close()
		m.channel = nil
	}
	m.quitting = true
	return tea.Quit
}

// leaveMatch forfeits the session's online match, if any.
func (m *SessionModel) leaveMatch() {
	if m.matchID == "" {
		return
	}
	m.coordinator.Send(multiplayer.LeaveMatchMsg{
		SessionID: m.sessionID,
		MatchID:   m.matchID,
	})
	m.matchID = ""
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		return m, m.quit()
	}

	if m.menu.WantsScoreboard() {
		sb := NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.scoreboard = &sb
		m.state = sessionStateScoreboard
		return m, m.scoreboard.Init()
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	m.config = m.menu.Config() // Get possibly updated config from resize

	switch selected.Entry {
	case MenuEntrySetup:
		setup := NewMatchMenuModel(m.config.ScreenW, m.config.ScreenH)
		m.setup = &setup
		m.state = sessionStateSetup
		return m, m.setup.Init()

	case MenuEntryOnline:
		return m, m.openLobby()

	case MenuEntryVersus:
		return m, m.startGame(game.NewVersus(), selected.Mode)

	default: // MenuEntryPlay
		g, err := registry.Create("bomber")
		if err != nil {
			// Shouldn't happen since the mode is registered at init
			return m, nil
		}
		return m, m.startGame(g, selected.Mode)
	}
}

// openLobby registers the session with the coordinator and enters the
// online pairing flow.
func (m *SessionModel) openLobby() tea.Cmd {
	if m.channel == nil {
		m.channel = multiplayer.NewChannelSession(m.sessionID, 64)
		m.sessions.Register(m.channel)
	}

	lobby := NewOnlineLobbyModel(
		m.sessionID,
		m.coordinator,
		m.channel.Events(),
		m.config.ScreenW,
		m.config.ScreenH,
	)
	m.lobby = &lobby
	m.state = sessionStateLobby
	return m.lobby.Init()
}

// startGame switches the session into an active match.
func (m *SessionModel) startGame(g registry.Game, mode multiplayer.MatchMode) tea.Cmd {
	m.config.Seed = time.Now().UnixNano()

	match := multiplayer.NewMatch(
		multiplayer.MatchID(fmt.Sprintf("match-%d", time.Now().UnixNano())),
		mode,
		m.sessionID,
	)

	gameModel := NewGameModel(g, m.store, m.config, match)
	m.gameModel = &gameModel
	m.state = sessionStateGame
	return m.gameModel.Init()
}

// updateSetup handles updates for the match setup screen.
func (m SessionModel) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.setup.Update(msg)
	if setupModel, ok := newModel.(MatchMenuModel); ok {
		m.setup = &setupModel
	}

	if m.setup.IsQuitting() {
		return m, m.quit()
	}

	if m.setup.WantsBack() {
		return m, m.backToMenu()
	}

	if sel := m.setup.Selected(); sel != nil {
		game.SetMapName(sel.MapName)
		game.SetPlayerCount(sel.Players)
		game.SetRoundsToWin(sel.RoundsToWin)
		return m, m.backToMenu()
	}

	return m, cmd
}

// updateLobby handles updates for the online pairing flow.
func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.lobby.Update(msg)
	if lobbyModel, ok := newModel.(OnlineLobbyModel); ok {
		m.lobby = &lobbyModel
	}

	if m.lobby.IsQuitting() {
		return m, m.quit()
	}

	if m.lobby.BackToMenu() {
		return m, m.backToMenu()
	}

	if m.lobby.State() == OnlineStateInMatch {
		// Pairing done. Each session plays the agreed map locally; the
		// coordinator keeps the authoritative result.
		m.matchID = m.lobby.MatchID()
		g := game.NewVersus()
		g.UseMap(m.lobby.MapName())
		m.lobby = nil
		return m, m.startGame(g, multiplayer.MatchModeOnlinePvP)
	}

	return m, cmd
}

// updateScoreboard handles updates for the scoreboard screen.
func (m SessionModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.scoreboard.Update(msg)
	if sbModel, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = &sbModel
	}

	if m.scoreboard.IsQuitting() {
		return m, m.quit()
	}

	if m.scoreboard.IsGoingBack() {
		return m, m.backToMenu()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.BackToMenu() {
		m.leaveMatch()
		return m, m.backToMenu()
	}

	if m.gameModel.IsQuitting() {
		return m, m.quit()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.state {
	case sessionStateSetup:
		if m.setup != nil {
			return m.setup.View()
		}
	case sessionStateLobby:
		if m.lobby != nil {
			return m.lobby.View()
		}
	case sessionStateScoreboard:
		if m.scoreboard != nil {
			return m.scoreboard.View()
		}
	case sessionStateGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	}

	return m.menu.View()
}

// GameModel runs one match inside an SSH session. Both local players
// share the session's keyboard.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	match      *multiplayer.Match
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	startedAt  time.Time
	flash      string
	flashTicks int
	quitting   bool
	backToMenu bool
	restart    bool
	saved      bool
}

// NewGameModel creates a new game model.
func NewGameModel(g registry.Game, store *storage.Store, cfg core.RuntimeConfig, match *multiplayer.Match) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return GameModel{
		game:       g,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		match:      match,
		inputFrame: core.NewMultiInputFrame(),
		keyMapper:  NewKeyMapper(),
		startedAt:  time.Now(),
	}
}

// Init initializes the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" && m.gameState.GameOver {
		m.restart = true
		return m, nil
	}

	// Check for quit
	if m.keyMapper.MapGameKey(m.game, msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Check for back to menu (B or Esc when game over or paused)
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.restart && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.startedAt = time.Now()
		m.saved = false
		m.restart = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	var result core.StepResult
	if bomber, ok := m.game.(*game.Game); ok {
		result = bomber.StepMulti(m.inputFrame)
	} else {
		result = m.game.Step(m.inputFrame.Player1())
	}
	m.gameState = result.State
	m.drainEvents()

	if m.gameState.GameOver && !m.saved {
		m.saveResult()
		m.saved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// drainEvents consumes the sound queue and refreshes the status flash.
func (m *GameModel) drainEvents() {
	bomber, ok := m.game.(*game.Game)
	if !ok {
		return
	}

	for _, s := range bomber.DrainSounds() {
		if label := s.Label(); label != "" {
			m.flash = label
			m.flashTicks = flashDuration
		}
	}
	bomber.DrainAnimations()

	if m.flashTicks > 0 {
		m.flashTicks--
	}
}

// saveResult records the finished match. Best effort.
func (m *GameModel) saveResult() {
	if m.store == nil {
		return
	}

	bomber, ok := m.game.(*game.Game)
	if !ok {
		return
	}

	entry := storage.MatchEntry{
		MapName:    bomber.MapName(),
		Players:    game.GetPlayerCount(),
		Rounds:     bomber.Round(),
		WinnerTeam: bomber.Winner(),
		Won:        bomber.Winner() == 0,
		Duration:   int(time.Since(m.startedAt).Seconds()),
	}
	if arena := bomber.Arena(); arena != nil {
		if p := arena.PlayerByNumber(0); p != nil {
			entry.Kills = p.Kills()
		}
	}

	//nolint:errcheck // best-effort save
	m.store.SaveMatch(entry)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	if m.flashTicks > 0 && m.flash != "" {
		m.screen.DrawTextColored(1, m.screen.Height()-1, m.flash, core.ColorBrightYellow)
	}

	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}
