package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heli/internal/audio"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/games/heli"
	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/progress"
	"github.com/vovakirdan/tui-heli/internal/storage"
)

// Env bundles what the screens of one player share.
type Env struct {
	Heli     heli.Deps
	Progress *progress.Store
	Store    *storage.Store // Run history, may be nil
	Sound    *audio.Player  // May be nil
	Theme    Theme
	Logger   *log.Logger
}

func (e Env) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.New(io.Discard)
}

// gameOptions returns the options for a GameModel of this environment.
func (e Env) gameOptions() GameOptions {
	opts := GameOptions{
		HoldWindow: e.Heli.Config.Input.HoldWindow(),
		Logger:     e.logger(),
	}
	if e.Sound != nil {
		opts.Sound = e.Sound
	}
	return opts
}

// NewGame builds a helicopter game for launch. A zero seed is replaced
// with the current time.
func (e Env) NewGame(launch levels.Launch, cfg core.RuntimeConfig) (*heli.Game, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return heli.NewGame(e.Heli, launch, cfg)
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenGame
	screenScores
)

// AppModel manages the full session flow: menu -> game -> menu, with the
// scoreboard reachable from the menu. It is the top-level model of both
// the local menu and SSH sessions.
type AppModel struct {
	env        Env
	config     core.RuntimeConfig
	screen     appScreen
	menu       MenuModel
	scoreboard ScoreboardModel
	gameModel  *GameModel
	quitting   bool
}

// NewAppModel creates the session model, starting at the level select menu.
func NewAppModel(env Env, cfg core.RuntimeConfig) AppModel {
	return AppModel{
		env:    env,
		config: cfg,
		menu:   NewMenuModel(env, cfg),
	}
}

// Init initializes the session.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScoreboard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.env, m.config.ScreenW, m.config.ScreenH)
		m.screen = screenScores
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		game, err := m.env.NewGame(*selected, m.config)
		if err != nil {
			m.env.logger().Error("could not start level", "chapter", selected.ChapterID, "level", selected.LevelIndex, "err", err)
			m.menu = NewMenuModel(m.env, m.config)
			return m, nil
		}

		gameModel := NewGameModel(game, m.config, m.env.gameOptions())
		m.gameModel = &gameModel
		m.screen = screenGame
		return m, m.gameModel.Init()
	}

	// The menu signals selection with tea.Quit; only pass through other commands.
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.gameModel.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.gameModel = &gameModel
	}

	if m.gameModel.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.gameModel.BackToMenu() {
		m.gameModel = nil
		return m.toMenu()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is shown.
func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scoreboard.IsGoingBack() {
		return m.toMenu()
	}

	return m, cmd
}

// toMenu rebuilds the menu so fresh progress and stats are shown.
func (m AppModel) toMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.env, m.config)
	m.screen = screenMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.gameModel != nil {
			return m.gameModel.View()
		}
	case screenScores:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// IsQuitting returns true if the user quit the session.
func (m AppModel) IsQuitting() bool {
	return m.quitting
}

// RunApp runs the menu, game and scoreboard flow until the user quits.
func RunApp(env Env, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewAppModel(env, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
