package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-heli/internal/audio"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/storage"
)

// MenuModel is the Bubble Tea model for the level select menu.
type MenuModel struct {
	env           Env
	chapters      []levels.Chapter
	chapterCursor int
	levelCursor   int
	unlocked      int // Unlocked levels of the current chapter
	stats         map[string]*storage.LevelStats
	bar           progressbar.Model
	help          help.Model
	keyMapper     *KeyMapper
	width         int
	height        int
	status        string
	confirmReset  bool

	quitting       bool
	selected       *levels.Launch // Set when user selects a level
	openScoreboard bool           // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(env Env, cfg core.RuntimeConfig) MenuModel {
	bar := progressbar.New(
		progressbar.WithGradient(env.Theme.BarFrom, env.Theme.BarTo),
		progressbar.WithoutPercentage(),
	)

	m := MenuModel{
		env:       env,
		chapters:  env.Heli.Catalog.Chapters(),
		bar:       bar,
		help:      help.New(),
		keyMapper: NewKeyMapper(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
	}
	m.resizeBar()
	m.refresh()
	return m
}

// refresh reloads progress and run statistics of the current chapter.
func (m *MenuModel) refresh() {
	m.unlocked = 0
	if ch, ok := m.chapter(); ok && m.env.Progress != nil {
		m.unlocked = m.env.Progress.ChapterProgress(ch.ID).UnlockedLevels
	}

	m.stats = nil
	if m.env.Store != nil {
		stats, err := m.env.Store.GetAllLevelStats()
		if err != nil {
			m.env.logger().Warn("failed to load level stats", "err", err)
		} else {
			m.stats = stats
		}
	}
}

func (m *MenuModel) resizeBar() {
	m.bar.Width = max(min(m.width-20, 40), 10)
	m.help.Width = m.width
}

func (m MenuModel) chapter() (levels.Chapter, bool) {
	if m.chapterCursor < 0 || m.chapterCursor >= len(m.chapters) {
		return levels.Chapter{}, false
	}
	return m.chapters[m.chapterCursor], true
}

// locked reports whether the level at index is not yet reachable.
func (m MenuModel) locked(index int) bool {
	return index > m.unlocked
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeBar()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	if action != MenuActionReset {
		m.confirmReset = false
	}
	if action != MenuActionNone {
		m.status = ""
	}

	ch, _ := m.chapter()

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}

	case MenuActionDown:
		if m.levelCursor < len(ch.Levels)-1 {
			m.levelCursor++
		}

	case MenuActionLeft, MenuActionRight:
		if len(m.chapters) == 0 {
			break
		}
		step := 1
		if action == MenuActionLeft {
			step = len(m.chapters) - 1
		}
		m.chapterCursor = (m.chapterCursor + step) % len(m.chapters)
		m.levelCursor = 0
		m.refresh()

	case MenuActionSelect:
		if !ch.Playable() {
			m.status = "Coming soon"
			break
		}
		if m.locked(m.levelCursor) {
			m.status = fmt.Sprintf("Locked: clear %s first", ch.Levels[m.levelCursor-1].Name)
			break
		}
		m.env.Sound.Play(audio.CueButton)
		m.selected = &levels.Launch{ChapterID: ch.ID, LevelIndex: m.levelCursor}
		return m, tea.Quit

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit

	case MenuActionReset:
		if m.env.Progress == nil || !ch.Playable() {
			break
		}
		if !m.confirmReset {
			m.confirmReset = true
			m.status = fmt.Sprintf("Press X again to reset %s progress", ch.Title)
			break
		}
		m.env.Progress.ResetChapter(ch.ID)
		m.confirmReset = false
		m.levelCursor = 0
		m.refresh()
		m.status = fmt.Sprintf("%s progress reset", ch.Title)
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}
	theme := m.env.Theme

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.center(theme.Title.Render("  H E L I  ")))
	b.WriteString("\n")
	b.WriteString(m.center(theme.Subtitle.Render("Hold thrust, thread the gaps")))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.chapters))
	for i, ch := range m.chapters {
		if i == m.chapterCursor {
			tabs[i] = theme.TabActive.Render(ch.Title)
		} else {
			tabs[i] = theme.TabInactive.Render(ch.Title)
		}
	}
	b.WriteString(m.center(strings.Join(tabs, " ")))
	b.WriteString("\n\n")

	ch, ok := m.chapter()
	if ok {
		if ch.Description != "" {
			b.WriteString(m.center(theme.Description.Render(ch.Description)))
			b.WriteString("\n\n")
		}
		b.WriteString(m.center(m.renderLevels(ch)))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.center(theme.Warning.Render(m.status)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.center(theme.Help.Render(m.help.View(m.keyMapper.Menu))))
	b.WriteString("\n")

	return b.String()
}

// renderLevels renders the chapter progress bar and level list panel.
func (m MenuModel) renderLevels(ch levels.Chapter) string {
	theme := m.env.Theme

	if !ch.Playable() {
		return theme.Panel.Render(theme.Description.Render("Coming soon"))
	}

	var b strings.Builder
	cleared := min(m.unlocked, len(ch.Levels))
	b.WriteString(m.bar.ViewAs(float64(cleared) / float64(len(ch.Levels))))
	b.WriteString(fmt.Sprintf("  %d/%d cleared\n\n", cleared, len(ch.Levels)))

	for i, lvl := range ch.Levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}

		var line string
		if m.locked(i) {
			line = theme.ItemLocked.Render(fmt.Sprintf("%s%-10s %s", cursor, lvl.Name, "locked"))
		} else {
			style := theme.ItemNormal
			if i == m.levelCursor {
				style = theme.ItemActive
			}
			line = style.Render(fmt.Sprintf("%s%-10s", cursor, lvl.Name)) +
				" " + theme.Stars.Render(m.starString(lvl.ID)) +
				theme.Description.Render(fmt.Sprintf("  %-6s %5.0fm%s", lvl.Weather, lvl.Goal/10, m.bestString(lvl.ID)))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return theme.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m MenuModel) starString(levelID string) string {
	stars := 0
	if s, ok := m.stats[levelID]; ok {
		stars = s.BestStars
	}
	return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
}

func (m MenuModel) bestString(levelID string) string {
	s, ok := m.stats[levelID]
	if !ok || s.Runs == 0 {
		return ""
	}
	return fmt.Sprintf("  best %d", s.HighScore)
}

func (m MenuModel) center(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}

// Selected returns the selected launch parameters, or nil if none selected.
func (m MenuModel) Selected() *levels.Launch {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}
