package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heli/internal/core"
)

// Game is a game driven by the fixed-tick loop.
type Game interface {
	ID() string
	Title() string
	Reset(cfg core.RuntimeConfig)
	Step(in core.InputFrame) core.StepResult
	Render(dst *core.Screen)
	State() core.GameState
}

// Sounder plays the cues of game events.
type Sounder interface {
	PlayEvents(events []core.Event)
}

// GameOptions configure a GameModel.
type GameOptions struct {
	// HoldWindow is how long a thrust key press counts as held.
	HoldWindow time.Duration

	// Sound may be nil.
	Sound Sounder

	// ExitOnBack quits the program on back instead of reporting it to a
	// parent model.
	ExitOnBack bool

	Logger *log.Logger
}

// GameModel is the Bubble Tea model that runs a game.
type GameModel struct {
	game       Game
	screen     *core.Screen
	config     core.RuntimeConfig
	opts       GameOptions
	keyMapper  *KeyMapper
	latch      thrustLatch
	inputFrame core.InputFrame
	gameState  core.GameState
	logger     *log.Logger
	now        func() time.Time
	quitting   bool
	backToMenu bool
}

// NewGameModel creates a new Bubble Tea model for the given game.
func NewGameModel(game Game, cfg core.RuntimeConfig, opts GameOptions) GameModel {
	if opts.HoldWindow <= 0 {
		opts.HoldWindow = 180 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:     cfg,
		opts:       opts,
		keyMapper:  NewKeyMapper(),
		latch:      newThrustLatch(opts.HoldWindow),
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
		logger:     logger,
		now:        time.Now,
	}
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

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
	if key.Matches(msg, m.keyMapper.Game.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
	case core.ActionThrust:
		m.latch.Press(m.now())
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			m.latch.Release()
			if m.opts.ExitOnBack {
				return m, tea.Quit
			}
		}
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleMouse maps the left button to thrust.
func (m GameModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.latch.MouseDown()
		}
	case tea.MouseActionRelease:
		m.latch.MouseUp()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}

	if m.latch.Held(m.now()) {
		m.inputFrame.Set(core.ActionThrust)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if m.opts.Sound != nil {
		m.opts.Sound.PlayEvents(result.Events)
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to ~/.heli/screenshots.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	dir := filepath.Join(home, ".heli", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}
	m.game.Render(m.screen)
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

// Config returns the current runtime config (may have been updated by resize).
func (m GameModel) Config() core.RuntimeConfig {
	return m.config
}

// Run starts a Bubble Tea program that plays a single game.
func Run(game Game, cfg core.RuntimeConfig, opts GameOptions) error {
	opts.ExitOnBack = true
	model := NewGameModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Button press and release for thrust
	)

	_, err := p.Run()
	return err
}
