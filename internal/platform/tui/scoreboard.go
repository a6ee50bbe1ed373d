package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tuigames/tui-bomber/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show view sidebar
	sidebarWidth       = 20  // Width of view sidebar
	maxEntries         = 100 // Max rows to load
)

// scoreboardView selects which slice of history the table shows.
type scoreboardView int

const (
	viewRecentMatches scoreboardView = iota
	viewMapStats
	viewOnlineMatches
)

var scoreboardViews = []struct {
	view  scoreboardView
	title string
}{
	{viewRecentMatches, "Recent Matches"},
	{viewMapStats, "Map Stats"},
	{viewOnlineMatches, "Online PvP"},
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextView key.Binding
	PrevView key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextView, k.PrevView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextView, k.PrevView},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev view"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next view"),
		),
		NextView: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		PrevView: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev view"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the match history screen.
type ScoreboardModel struct {
	viewCursor  int
	store       *storage.Store
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	rowCount    int
	totalWins   int
	totalKills  int
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show view sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	keys := DefaultScoreboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		viewCursor:  0,
		store:       store,
		keys:        keys,
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	if store != nil {
		m.totalWins, _ = store.WinCount()
		m.totalKills, _ = store.TotalKills()
	}

	m.table = m.createTable()
	m.loadRows()

	return m
}

// currentView returns the view under the cursor.
func (m *ScoreboardModel) currentView() scoreboardView {
	return scoreboardViews[m.viewCursor].view
}

// createTable creates a new table with columns for the current view.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column

	switch m.currentView() {
	case viewMapStats:
		columns = []table.Column{
			{Title: "Map", Width: 12},
			{Title: "Played", Width: 8},
			{Title: "Won", Width: 6},
			{Title: "Kills", Width: 7},
			{Title: "Last", Width: 14},
		}
	case viewOnlineMatches:
		columns = []table.Column{
			{Title: "Map", Width: 12},
			{Title: "Score", Width: 9},
			{Title: "Rnds", Width: 6},
			{Title: "Reason", Width: 14},
			{Title: "Date", Width: 14},
		}
	default:
		columns = []table.Column{
			{Title: "Map", Width: 12},
			{Title: "Plrs", Width: 6},
			{Title: "Rnds", Width: 6},
			{Title: "Result", Width: 8},
			{Title: "Kills", Width: 7},
			{Title: "Date", Width: 14},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(m.height-8), // Leave room for header, help, and margins
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadRows fills the table for the current view.
func (m *ScoreboardModel) loadRows() {
	if m.store == nil {
		m.rowCount = 0
		m.table.SetRows(nil)
		return
	}

	var rows []table.Row

	switch m.currentView() {
	case viewMapStats:
		stats, err := m.store.GetAllMapStats()
		if err == nil {
			names := make([]string, 0, len(stats))
			for name := range stats {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				st := stats[name]
				rows = append(rows, table.Row{
					st.MapName,
					fmt.Sprintf("%d", st.Played),
					fmt.Sprintf("%d", st.Wins),
					fmt.Sprintf("%d", st.Kills),
					st.LastPlayed.Format("Jan 02 15:04"),
				})
			}
		}
	case viewOnlineMatches:
		matches, err := m.store.RecentOnlineMatches(maxEntries)
		if err == nil {
			for _, om := range matches {
				rows = append(rows, table.Row{
					om.MapName,
					fmt.Sprintf("%d-%d", om.Score1, om.Score2),
					fmt.Sprintf("%d", om.Rounds),
					om.EndReason,
					om.CreatedAt.Format("Jan 02 15:04"),
				})
			}
		}
	default:
		matches, err := m.store.RecentMatches(maxEntries)
		if err == nil {
			for _, e := range matches {
				result := "lost"
				if e.Won {
					result = "won"
				} else if e.WinnerTeam < 0 {
					result = "draw"
				}
				rows = append(rows, table.Row{
					e.MapName,
					fmt.Sprintf("%d", e.Players),
					fmt.Sprintf("%d", e.Rounds),
					result,
					fmt.Sprintf("%d", e.Kills),
					e.CreatedAt.Format("Jan 02 15:04"),
				})
			}
		}
	}

	m.rowCount = len(rows)
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// switchView moves the view cursor by delta and reloads the table.
func (m *ScoreboardModel) switchView(delta int) {
	n := len(scoreboardViews)
	m.viewCursor = (m.viewCursor + delta + n) % n
	m.table = m.createTable()
	m.loadRows()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextView), key.Matches(msg, m.keys.Right):
			m.switchView(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevView), key.Matches(msg, m.keys.Left):
			m.switchView(-1)
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.loadRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("SCOREBOARD - %s", scoreboardViews[m.viewCursor].title)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n")

	totals := fmt.Sprintf("matches won: %d   total kills: %d", m.totalWins, m.totalKills)
	b.WriteString(centerText(totals, m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: view tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with a sidebar for view selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Views\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, v := range scoreboardViews {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.viewCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + v.title))
		sidebar.WriteString("\n")
	}

	sidebarRendered := sidebarStyle.Render(sidebar.String())

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	tableRendered := tableStyle.Render(m.renderTableContent())

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebarRendered, "  ", tableRendered)
}

// renderNarrowLayout renders the scoreboard with view tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(scoreboardViews))
	for i, v := range scoreboardViews {
		if i == m.viewCursor {
			tabs[i] = activeTabStyle.Render(v.title)
		} else {
			tabs[i] = tabStyle.Render(" " + v.title + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if len(tabLine) > m.width-4 {
		tabLine = fmt.Sprintf("< %s >", scoreboardViews[m.viewCursor].title)
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if m.rowCount == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No matches recorded yet.\nPlay a match to fill the board!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
