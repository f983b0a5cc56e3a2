package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-heli/internal/core"
)

// fakeGame records the input of every step.
type fakeGame struct {
	inputs []core.InputFrame
	state  core.GameState
	events []core.Event
}

func (g *fakeGame) ID() string { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) {}
func (g *fakeGame) Render(dst *core.Screen) { dst.Clear() }
func (g *fakeGame) State() core.GameState { return g.state }
func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	return core.StepResult{State: g.state, Events: g.events}
}

func (g *fakeGame) lastHas(a core.Action) bool {
	if len(g.inputs) == 0 {
		return false
	}
	return g.inputs[len(g.inputs)-1].Has(a)
}

type fakeSounder struct {
	played []core.Event
}

func (s *fakeSounder) PlayEvents(events []core.Event) {
	s.played = append(s.played, events...)
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestGameModel(g *fakeGame, opts GameOptions) (GameModel, *clock) {
	c := &clock{t: time.Unix(1000, 0)}
	m := NewGameModel(g, core.DefaultConfig(), opts)
	m.now = c.now
	return m, c
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	if !ok {
		t.Fatalf("Update returned %T, want GameModel", next)
	}
	return gm, cmd
}

func TestGameModelKeyHoldWindow(t *testing.T) {
	g := &fakeGame{}
	m, c := newTestGameModel(g, GameOptions{HoldWindow: 180 * time.Millisecond})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})

	c.t = c.t.Add(100 * time.Millisecond)
	m, _ = update(t, m, TickMsg(c.t))
	if !g.lastHas(core.ActionThrust) {
		t.Error("thrust should be held inside the window")
	}

	c.t = c.t.Add(200 * time.Millisecond)
	_, _ = update(t, m, TickMsg(c.t))
	if g.lastHas(core.ActionThrust) {
		t.Error("thrust should be released after the window")
	}
}

func TestGameModelMouseThrust(t *testing.T) {
	g := &fakeGame{}
	m, c := newTestGameModel(g, GameOptions{})

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	for range 3 {
		c.t = c.t.Add(time.Second)
		m, _ = update(t, m, TickMsg(c.t))
		if !g.lastHas(core.ActionThrust) {
			t.Fatal("mouse thrust should stay held while the button is down")
		}
	}

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	_, _ = update(t, m, TickMsg(c.t))
	if g.lastHas(core.ActionThrust) {
		t.Error("mouse release should end thrust")
	}
}

func TestGameModelActionsLastOneTick(t *testing.T) {
	g := &fakeGame{}
	m, c := newTestGameModel(g, GameOptions{})

	m, _ = update(t, m, runeKey('p'))
	m, _ = update(t, m, TickMsg(c.t))
	if !g.lastHas(core.ActionPause) {
		t.Fatal("pause should reach the game on the next tick")
	}

	_, _ = update(t, m, TickMsg(c.t))
	if g.lastHas(core.ActionPause) {
		t.Error("pause should be cleared after one tick")
	}
}

func TestGameModelBack(t *testing.T) {
	g := &fakeGame{}
	m, c := newTestGameModel(g, GameOptions{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("back should be ignored while flying")
	}

	g.state.GameOver = true
	m, _ = update(t, m, TickMsg(c.t))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() {
		t.Fatal("back should be accepted after game over")
	}
	if cmd != nil {
		t.Error("back without ExitOnBack should not quit the program")
	}

	steps := len(g.inputs)
	_, _ = update(t, m, TickMsg(c.t))
	if len(g.inputs) != steps {
		t.Error("ticks after back should not step the game")
	}
}

func TestGameModelQuit(t *testing.T) {
	g := &fakeGame{}
	m, _ := newTestGameModel(g, GameOptions{})

	m, cmd := update(t, m, runeKey('q'))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if m.View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestGameModelSound(t *testing.T) {
	g := &fakeGame{events: []core.Event{{Kind: core.EventPass}}}
	s := &fakeSounder{}
	m, c := newTestGameModel(g, GameOptions{Sound: s})

	_, _ = update(t, m, TickMsg(c.t))
	if len(s.played) != 1 || s.played[0].Kind != core.EventPass {
		t.Errorf("played = %v, want one pass event", s.played)
	}
}

func TestGameModelResize(t *testing.T) {
	g := &fakeGame{}
	m, _ := newTestGameModel(g, GameOptions{})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if cfg := m.Config(); cfg.ScreenW != 120 || cfg.ScreenH != 40 {
		t.Errorf("Config() = %dx%d, want 120x40", cfg.ScreenW, cfg.ScreenH)
	}
}
