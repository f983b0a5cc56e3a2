package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 80  // Minimum width to show level list sidebar
	sidebarWidth       = 20  // Width of level list sidebar
	maxRuns            = 100 // Max runs to load
)

// boardEntry is one selectable leaderboard. An empty LevelID covers every
// level.
type boardEntry struct {
	LevelID string
	Title   string
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Back      key.Binding
	Quit      key.Binding
	NextBoard key.Binding
	PrevBoard key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextBoard, k.PrevBoard, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextBoard, k.PrevBoard},
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
			key.WithHelp("left/h", "prev level"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next level"),
		),
		NextBoard: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next level"),
		),
		PrevBoard: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev level"),
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

// ScoreboardModel is the Bubble Tea model for the leaderboard screen.
type ScoreboardModel struct {
	boards      []boardEntry
	cursor      int
	store       *storage.Store
	runs        []storage.RunRecord
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	theme       Theme
	now         func() time.Time
	width       int
	height      int
	quitting    bool
	goingBack   bool // True if user pressed back (not quit)
	showSidebar bool // Whether to show level list sidebar
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(env Env, width, height int) ScoreboardModel {
	boards := []boardEntry{{Title: "All levels"}}
	if env.Heli.Catalog != nil {
		for _, ch := range env.Heli.Catalog.Chapters() {
			for _, lvl := range ch.Levels {
				boards = append(boards, boardEntry{
					LevelID: lvl.ID,
					Title:   boardTitle(ch, lvl),
				})
			}
		}
	}

	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		boards:      boards,
		store:       env.Store,
		keys:        DefaultScoreboardKeyMap(),
		help:        h,
		theme:       env.Theme,
		now:         time.Now,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}

	m.table = m.createTable()
	m.loadRuns()

	return m
}

func boardTitle(ch levels.Chapter, lvl levels.LevelDefinition) string {
	return fmt.Sprintf("%s: %s", ch.ID, lvl.Name)
}

func (m ScoreboardModel) board() boardEntry {
	return m.boards[m.cursor]
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Level", Width: 9},
		{Title: "Score", Width: 7},
		{Title: "Stars", Width: 6},
		{Title: "Result", Width: 9},
		{Title: "When", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

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

// loadRuns loads the runs of the selected board.
func (m *ScoreboardModel) loadRuns() {
	m.runs = nil
	if m.store != nil {
		runs, err := m.store.TopRuns(m.board().LevelID, maxRuns)
		if err == nil {
			m.runs = runs
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current runs.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		result := "crashed"
		if r.Outcome == storage.OutcomeComplete {
			result = "cleared"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.LevelID,
			fmt.Sprintf("%d", r.Score),
			strings.Repeat("★", r.Stars),
			result,
			humanize.RelTime(r.CreatedAt, m.now(), "ago", "from now"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
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

		case key.Matches(msg, m.keys.NextBoard), key.Matches(msg, m.keys.Right):
			m.cursor = (m.cursor + 1) % len(m.boards)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.PrevBoard), key.Matches(msg, m.keys.Left):
			m.cursor = (m.cursor + len(m.boards) - 1) % len(m.boards)
			m.loadRuns()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("HIGH SCORES - %s", m.board().Title)
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.theme.Title.Render(title)))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with a sidebar for level selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := m.theme.Panel.Width(sidebarWidth)

	var sidebar strings.Builder
	sidebar.WriteString("Levels\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, bd := range m.boards {
		cursor := "  "
		style := m.theme.ItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.ItemActive
		}

		name := bd.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		m.theme.Panel.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the current board name above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tab := m.theme.TabActive.Render(fmt.Sprintf("< %s >", m.board().Title))
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tab))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.theme.Panel.Render(m.renderTableContent())))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		return m.theme.Description.Padding(2, 4).Render("No runs recorded yet.\nFly a level to set a high score!")
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
