package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/maps"
)

// MatchSetup holds the user's choices from the setup menu.
type MatchSetup struct {
	MapName     string
	Players     int
	RoundsToWin int
}

// MatchMenuModel lets users pick the map, player count and round target.
type MatchMenuModel struct {
	cursor      int
	mapCursor   int
	inMapSelect bool
	width       int
	height      int
	keyMapper   *KeyMapper
	setup       MatchSetup
	choosing    bool
	quitting    bool
	back        bool
}

// NewMatchMenuModel creates a setup model seeded with the current settings.
func NewMatchMenuModel(width, height int) MatchMenuModel {
	return MatchMenuModel{
		cursor:    0,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		setup: MatchSetup{
			MapName:     game.GetMapName(),
			Players:     game.GetPlayerCount(),
			RoundsToWin: game.GetRoundsToWin(),
		},
		choosing: true,
	}
}

// Init initializes the model.
func (m MatchMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m MatchMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m MatchMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inMapSelect {
		return m.handleMapSelectKey(action)
	}
	return m.handleSetupKey(action)
}

func (m MatchMenuModel) handleSetupKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < 3 { // map, players, rounds, start
			m.cursor++
		}
	case MenuActionLeft:
		m.adjust(-1)
	case MenuActionRight:
		m.adjust(1)
	case MenuActionSelect:
		switch m.cursor {
		case 0:
			m.inMapSelect = true
			m.mapCursor = mapIndex(m.setup.MapName)
		case 3: // Start
			m.choosing = false
			return m, tea.Quit
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// adjust changes the value under the cursor by delta.
func (m *MatchMenuModel) adjust(delta int) {
	switch m.cursor {
	case 0:
		names := maps.Names()
		idx := (mapIndex(m.setup.MapName) + delta + len(names)) % len(names)
		m.setup.MapName = names[idx]
	case 1:
		m.setup.Players = core.Clamp(m.setup.Players+delta, 2, 4)
	case 2:
		m.setup.RoundsToWin = core.Clamp(m.setup.RoundsToWin+delta, 1, 9)
	}
}

func (m MatchMenuModel) handleMapSelectKey(action MenuAction) (tea.Model, tea.Cmd) {
	names := maps.Names()

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.mapCursor > 0 {
			m.mapCursor--
		}
	case MenuActionDown:
		if m.mapCursor < len(names)-1 {
			m.mapCursor++
		}
	case MenuActionSelect:
		m.setup.MapName = names[m.mapCursor]
		m.inMapSelect = false
	case MenuActionBack:
		m.inMapSelect = false
	}

	return m, nil
}

// View renders the setup screen.
func (m MatchMenuModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inMapSelect {
		return m.viewMapSelect()
	}
	return m.viewSetup()
}

func (m MatchMenuModel) viewSetup() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("MATCH SETUP", m.width))
	b.WriteString("\n\n")

	rows := []string{
		fmt.Sprintf("Map:         < %s >", m.setup.MapName),
		fmt.Sprintf("Players:     < %d >", m.setup.Players),
		fmt.Sprintf("First to:    < %d >", m.setup.RoundsToWin),
		"Start",
	}

	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, row), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Left/Right: Change  |  Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m MatchMenuModel) viewMapSelect() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT MAP", m.width))
	b.WriteString("\n\n")

	for i, name := range maps.Names() {
		cursor := "  "
		if i == m.mapCursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s", cursor, name)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the setup, or nil if still choosing.
func (m MatchMenuModel) Selected() *MatchSetup {
	if m.choosing {
		return nil
	}
	return &m.setup
}

// IsQuitting returns true if user wants to quit.
func (m MatchMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m MatchMenuModel) WantsBack() bool {
	return m.back
}

// mapIndex returns the position of name in maps.Names, or 0.
func mapIndex(name string) int {
	for i, n := range maps.Names() {
		if n == name {
			return i
		}
	}
	return 0
}

// RunMatchSetup runs the setup menu and applies the selection to the
// match settings. Returns the setup, or nil if the user backed out.
func RunMatchSetup(cfg core.RuntimeConfig) (*MatchSetup, core.RuntimeConfig, error) {
	model := NewMatchMenuModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(MatchMenuModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	setup := m.Selected()
	if setup != nil {
		game.SetMapName(setup.MapName)
		game.SetPlayerCount(setup.Players)
		game.SetRoundsToWin(setup.RoundsToWin)
	}

	return setup, cfg, nil
}
