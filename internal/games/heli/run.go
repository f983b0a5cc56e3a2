package heli

import (
	"math"
	"slices"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// Phase is the run's position in its lifecycle.
type Phase int

const (
	PhaseIdle      Phase = iota // Waiting for the first thrust
	PhaseRunning                // Flying
	PhaseHitRecoil              // Flying, invincible after losing a life
	PhaseComplete               // Goal reached
	PhaseDead                   // Out of lives
)

// String returns a short name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseHitRecoil:
		return "hit"
	case PhaseComplete:
		return "complete"
	case PhaseDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Flying reports whether the simulation advances in this phase.
func (p Phase) Flying() bool {
	return p == PhaseRunning || p == PhaseHitRecoil
}

// Unlocker receives level unlocks when a run completes.
type Unlocker interface {
	UnlockLevel(chapterID string, levelIndex int)
}

// Idle hover animation.
const (
	hoverAmplitude = 18.0
	hoverSpeed     = 2.0
)

// Run is the state machine for one play session: vehicle kinematics, world
// progress, lives, invincibility, score and completion.
type Run struct {
	cfg      config.HeliConfig
	level    levels.LevelDefinition
	launch   levels.Launch
	course   *Course
	unlocker Unlocker

	phase          Phase
	progress       float64
	y, vy          float64
	thrust         bool
	lives          int
	maxLives       int
	invincibleLeft float64
	score          int
	passed         int
	lastPassed     float64 // Anchor of the last pair counted as passed
	hits           int
	revives        int
	stars          int
	idle           float64

	pending []core.Event // Events raised between ticks
}

// NewRun creates a run in the idle phase. unlocker may be nil.
func NewRun(level levels.LevelDefinition, launch levels.Launch, cfg config.HeliConfig, course *Course, unlocker Unlocker) *Run {
	r := &Run{
		cfg:        cfg,
		level:      level,
		launch:     launch,
		course:     course,
		unlocker:   unlocker,
		phase:      PhaseIdle,
		lives:      cfg.Run.Lives,
		maxLives:   cfg.Run.Lives,
		lastPassed: math.Inf(-1),
	}
	r.y = r.center()
	return r
}

func (r *Run) center() float64 {
	return r.cfg.Viewport.Height / 2
}

// ThrustDown marks thrust as held. The first call starts an idle run.
// Repeated calls without ThrustUp have no further effect.
func (r *Run) ThrustDown() {
	if r.thrust {
		return
	}
	switch r.phase {
	case PhaseIdle:
		r.phase = PhaseRunning
		r.pending = append(r.pending, core.Event{Kind: core.EventStart})
	case PhaseRunning, PhaseHitRecoil:
	default:
		return
	}
	r.thrust = true
	r.pending = append(r.pending, core.Event{Kind: core.EventThrust})
}

// ThrustUp releases thrust. Idempotent.
func (r *Run) ThrustUp() {
	r.thrust = false
}

// Thrusting reports whether thrust is held.
func (r *Run) Thrusting() bool {
	return r.thrust
}

// Step advances the run by dt seconds and returns the events raised since
// the previous step, in order. Outside the flying phases it only animates
// the idle hover.
func (r *Run) Step(dt float64) []core.Event {
	events := r.pending
	r.pending = nil

	switch {
	case r.phase == PhaseIdle:
		r.idle += dt
		r.y = r.center() + math.Sin(r.idle*hoverSpeed)*hoverAmplitude
		return events
	case !r.phase.Flying():
		return events
	}

	r.tickInvincibility(dt)
	r.integrate(dt)

	r.progress += r.cfg.Run.ScrollSpeed * dt

	r.course.Advance(r.progress)
	r.course.Retire(r.progress)

	if r.invincibleLeft <= 0 && r.course.Collides(r.VehicleBox()) {
		events = r.hit(events)
	}

	events = r.accrueScore(events)

	if r.phase.Flying() && r.progress >= r.level.Goal {
		events = r.complete(events)
	}

	return events
}

func (r *Run) tickInvincibility(dt float64) {
	if r.invincibleLeft <= 0 {
		return
	}
	r.invincibleLeft -= dt
	if r.invincibleLeft <= 0 {
		r.invincibleLeft = 0
		if r.phase == PhaseHitRecoil {
			r.phase = PhaseRunning
		}
	}
}

// integrate applies thrust or gravity and keeps the vehicle inside the
// vertical bounds. Boundary contact bounces with damping and costs nothing.
func (r *Run) integrate(dt float64) {
	p := r.cfg.Physics

	accel := p.Gravity
	if r.thrust {
		accel = -p.Thrust
	}
	r.vy = core.ClampF(r.vy+accel*dt, -p.MaxUpSpeed, p.MaxDownSpeed)
	r.y += r.vy * dt

	switch {
	case r.y < p.TopBound:
		r.y = p.TopBound
		r.vy = -r.vy * p.BounceDamping
	case r.y > p.BottomBound:
		r.y = p.BottomBound
		r.vy = -r.vy * p.BounceDamping
	}
}

func (r *Run) hit(events []core.Event) []core.Event {
	r.lives--
	r.hits++
	events = append(events, core.Event{Kind: core.EventHit, Value: r.lives})

	if r.lives <= 0 {
		r.lives = 0
		r.phase = PhaseDead
		r.vy = 0
		r.thrust = false
		r.invincibleLeft = 0
		return append(events, core.Event{Kind: core.EventDead, Value: r.score})
	}

	r.phase = PhaseHitRecoil
	r.invincibleLeft = r.cfg.Run.InvincibleSeconds
	return events
}

// accrueScore counts pairs the vehicle has fully cleared and raises the
// score to the distance-plus-bonus value if that is higher.
func (r *Run) accrueScore(events []core.Event) []core.Event {
	left := r.VehicleBox().X
	for _, p := range r.course.Pairs() {
		if p.Anchor <= r.lastPassed || p.Right() >= left {
			continue
		}
		r.lastPassed = p.Anchor
		r.passed++
		events = append(events, core.Event{Kind: core.EventPass, Value: r.passed})
	}

	candidate := int(math.Floor(r.progress*r.cfg.Score.DistanceFactor)) + r.passed*r.cfg.Score.PassBonus
	r.score = max(r.score, candidate)
	return events
}

func (r *Run) complete(events []core.Event) []core.Event {
	r.phase = PhaseComplete
	r.thrust = false
	r.invincibleLeft = 0
	r.stars = r.level.Stars.Scale(r.maxLives).Rate(r.lives)
	if r.unlocker != nil {
		r.unlocker.UnlockLevel(r.launch.ChapterID, r.launch.LevelIndex+1)
	}
	return append(events, core.Event{Kind: core.EventComplete, Value: r.stars})
}

// Revive brings a dead run back with one life and a fresh invincibility
// window. It reports false when the run is not dead.
func (r *Run) Revive() bool {
	if r.phase != PhaseDead {
		return false
	}
	r.lives = 1
	r.phase = PhaseRunning
	r.invincibleLeft = r.cfg.Run.InvincibleSeconds
	r.y = r.center()
	r.vy = 0
	r.revives++
	r.pending = append(r.pending, core.Event{Kind: core.EventRevive, Value: r.revives})
	return true
}

// VehicleBox returns the vehicle hitbox in world space.
func (r *Run) VehicleBox() core.Box {
	v := r.cfg.Vehicle
	return core.CenteredBox(r.progress+v.X, r.y, v.Width, v.Height)
}

// Phase returns the current phase.
func (r *Run) Phase() Phase { return r.phase }

// Lives returns the remaining lives.
func (r *Run) Lives() int { return r.lives }

// Score returns the current score.
func (r *Run) Score() int { return r.score }

// Progress returns the world progress.
func (r *Run) Progress() float64 { return r.progress }

// Revives returns how many times this run was revived.
func (r *Run) Revives() int { return r.revives }

// Snapshot is a read-only view of a run for presentation.
type Snapshot struct {
	Phase      Phase
	Score      int
	Lives      int
	MaxLives   int
	Progress   float64
	Goal       float64
	Percent    float64 // Progress toward the goal, 0..100
	Invincible bool
	Y, VY      float64
	Thrust     bool
	Stars      int
	Passed     int
	Hits       int
	Revives    int
	Pairs      []ObstaclePair
}

// Snapshot returns the observable state of the run.
func (r *Run) Snapshot() Snapshot {
	pct := 0.0
	if r.level.Goal > 0 {
		pct = core.ClampF(r.progress/r.level.Goal*100, 0, 100)
	}
	return Snapshot{
		Phase:      r.phase,
		Score:      r.score,
		Lives:      r.lives,
		MaxLives:   r.maxLives,
		Progress:   r.progress,
		Goal:       r.level.Goal,
		Percent:    pct,
		Invincible: r.invincibleLeft > 0,
		Y:          r.y,
		VY:         r.vy,
		Thrust:     r.thrust,
		Stars:      r.stars,
		Passed:     r.passed,
		Hits:       r.hits,
		Revives:    r.revives,
		Pairs:      slices.Clone(r.course.Pairs()),
	}
}

// Result is the payload handed to the completion screen.
type Result struct {
	Score          int
	Stars          int
	RemainingLives int
	MaxLives       int
	ChapterID      string
	LevelIndex     int
}

// Result returns the session result.
func (r *Run) Result() Result {
	return Result{
		Score:          r.score,
		Stars:          r.stars,
		RemainingLives: r.lives,
		MaxLives:       r.maxLives,
		ChapterID:      r.launch.ChapterID,
		LevelIndex:     r.launch.LevelIndex,
	}
}
