package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/registry"
	"github.com/tuigames/tui-bomber/internal/storage"
)

// flashDuration is how many ticks a sound flash stays on the status line.
const flashDuration = 45

// Model is the Bubble Tea model for a local match.
type Model struct {
	game       registry.Game
	keys       *KeyMapper
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.MultiInputFrame
	gameState  core.GameState
	startedAt  time.Time
	flash      string // last audible event, shown on the status line
	flashTicks int
	quitting   bool
	restart    bool
	saved      bool // result saved for the current game over
}

// NewModel creates the model for the given game.
func NewModel(g registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       g,
		keys:       NewKeyMapper(),
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewMultiInputFrame(),
		startedAt:  time.Now(),
	}
}

// Init starts the match and the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	case "r":
		if m.gameState.GameOver {
			m.restart = true
		}
		return m, nil
	}

	if m.keys.MapGameKey(m.game, msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
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

// drainEvents consumes the sound and animation queues for this tick
// and refreshes the status-line flash.
func (m *Model) drainEvents() {
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

// saveResult records the finished match. Best effort; play continues
// whether or not the write lands.
func (m *Model) saveResult() {
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

// saveScreenshot dumps the current screen to a text file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".bomber", "screenshots")
	//nolint:errcheck // best-effort
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // best-effort
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	if m.flashTicks > 0 && m.flash != "" {
		m.screen.DrawTextColored(1, m.screen.Height()-1, m.flash, core.ColorBrightYellow)
	}

	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for a local match.
func Run(g registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(g, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
