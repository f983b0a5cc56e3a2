// Package heli implements the helicopter course game: procedural obstacle
// generation, the run state machine and the session controller that ties
// them to timers, stores and the terminal renderer.
package heli

import (
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// Game adapts a Session to the platform's fixed-tick game loop. It
// rebuilds the session on Reset, restart and when moving to the next level.
type Game struct {
	deps     Deps
	launch   levels.Launch
	config   core.RuntimeConfig
	session  *Session
	paused   bool
	restarts int64
}

// NewGame creates a game for the given launch parameters. It builds a
// first session so configuration errors surface before the UI starts.
func NewGame(deps Deps, launch levels.Launch, cfg core.RuntimeConfig) (*Game, error) {
	g := &Game{deps: deps, config: cfg}
	s, err := NewSession(deps, launch, cfg.Seed)
	if err != nil {
		return nil, err
	}
	g.session = s
	g.launch = s.Launch()
	return g, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "heli"
}

// Title returns the display name for the level being played.
func (g *Game) Title() string {
	return g.session.Level().Name
}

// Session returns the active session.
func (g *Game) Session() *Session {
	return g.session
}

// Reset starts the current level over with the given runtime config.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.config = cfg
	g.rebuild(g.launch, cfg.Seed)
}

func (g *Game) rebuild(launch levels.Launch, seed int64) {
	s, err := NewSession(g.deps, launch, seed)
	if err != nil {
		// The launch already resolved once, so this only fails if the
		// catalog changed underneath us; keep the old session.
		if g.deps.Logger != nil {
			g.deps.Logger.Error("failed to rebuild session", "err", err)
		}
		return
	}
	if g.session != nil {
		g.session.Close()
	}
	g.session = s
	g.launch = s.Launch()
	g.paused = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	s := g.session

	if in.Has(core.ActionRestart) {
		g.restarts++
		g.rebuild(g.launch, g.config.Seed+g.restarts)
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionConfirm) && s.Overlay() == OverlayComplete {
		if next, ok := s.NextLaunch(); ok {
			g.rebuild(next, g.config.Seed+g.restarts)
			return core.StepResult{State: g.State()}
		}
	}

	if in.Has(core.ActionRevive) {
		s.Revive()
	}

	if in.Has(core.ActionPause) && s.Run().Phase().Flying() {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionThrust) {
		s.ThrustDown()
	} else {
		s.ThrustUp()
	}

	events := s.Step(g.config.TickSeconds())
	return core.StepResult{State: g.State(), Events: events}
}

// State returns the coarse game state.
func (g *Game) State() core.GameState {
	phase := g.session.Run().Phase()
	return core.GameState{
		Score:    g.session.Run().Score(),
		GameOver: phase == PhaseDead || phase == PhaseComplete,
		Won:      phase == PhaseComplete,
		Paused:   g.paused,
	}
}
