package heli

import (
	"io"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// BestScoreStore keeps the all-time best score.
type BestScoreStore interface {
	Get() int
	Set(score int)
}

// Outcome describes a finished session for run history.
type Outcome struct {
	Result
	LevelID   string
	Completed bool
	Distance  float64
	Hits      int
	Revives   int
}

// Recorder receives finished sessions.
type Recorder interface {
	RecordRun(o Outcome)
}

// Overlay is the end-of-session panel the presentation should show.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayComplete
	OverlayDead
)

// Deps are the collaborators a session is built from. Only Config and
// Catalog are required.
type Deps struct {
	Config   config.HeliConfig
	Catalog  *levels.Catalog
	Progress Unlocker
	Best     BestScoreStore
	Recorder Recorder
	Logger   *log.Logger
}

// Session owns one play-through of a level: the course, the run state
// machine, delayed transitions and weather.
type Session struct {
	deps    Deps
	level   levels.LevelDefinition
	launch  levels.Launch
	course  *Course
	run     *Run
	timers  *core.Timers
	weather *Weather
	logger  *log.Logger

	overlay  Overlay
	pending  core.TimerID // Scheduled overlay, 0 if none
	best     int
	finished bool // Result recorded for the current outcome
	elapsed  float64
}

// NewSession resolves the launch parameters and builds a fresh session.
// Configuration errors (no playable chapters, invalid spacing) are returned.
func NewSession(deps Deps, launch levels.Launch, seed int64) (*Session, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	level, resolved, err := deps.Catalog.Resolve(launch)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	diff := config.NewDifficulty(deps.Config.Difficulty)
	course, err := NewCourse(level, deps.Config, diff, rng, logger)
	if err != nil {
		return nil, err
	}

	s := &Session{
		deps:    deps,
		level:   level,
		launch:  resolved,
		course:  course,
		run:     NewRun(level, resolved, deps.Config, course, deps.Progress),
		timers:  core.NewTimers(),
		weather: NewWeather(level.Weather, deps.Config.Viewport, seed+1),
		logger:  logger.With("level", level.ID),
	}
	if deps.Best != nil {
		s.best = deps.Best.Get()
	}

	s.logger.Debug("session started", "seed", seed, "step", course.Step())
	return s, nil
}

// Level returns the level being played.
func (s *Session) Level() levels.LevelDefinition { return s.level }

// Launch returns the resolved launch parameters.
func (s *Session) Launch() levels.Launch { return s.launch }

// Run returns the run state machine.
func (s *Session) Run() *Run { return s.run }

// Course returns the course generator.
func (s *Session) Course() *Course { return s.course }

// Weather returns the weather particles.
func (s *Session) Weather() *Weather { return s.weather }

// Overlay returns the end-of-session panel to show.
func (s *Session) Overlay() Overlay { return s.overlay }

// Best returns the best score known to this session.
func (s *Session) Best() int { return s.best }

// Elapsed returns simulated seconds since the session started.
func (s *Session) Elapsed() float64 { return s.elapsed }

// ThrustDown forwards to the run.
func (s *Session) ThrustDown() { s.run.ThrustDown() }

// ThrustUp forwards to the run.
func (s *Session) ThrustUp() { s.run.ThrustUp() }

// Step advances the session by dt seconds.
func (s *Session) Step(dt float64) []core.Event {
	s.elapsed += dt

	events := s.run.Step(dt)
	s.weather.Step(dt)

	for _, e := range events {
		switch e.Kind {
		case core.EventHit:
			s.logger.Debug("hit", "lives", e.Value, "progress", s.run.Progress())
		case core.EventDead:
			s.finish(false)
			s.schedule(s.deps.Config.Run.DeadDelay, PhaseDead, OverlayDead)
		case core.EventComplete:
			s.finish(true)
			s.schedule(s.deps.Config.Run.CompleteDelay, PhaseComplete, OverlayComplete)
		}
	}

	s.timers.Advance(dt)
	return events
}

// schedule shows an overlay after delay seconds if the run is still in the
// given phase by then.
func (s *Session) schedule(delay float64, phase Phase, overlay Overlay) {
	if s.pending != 0 {
		s.timers.Cancel(s.pending)
	}
	s.pending = s.timers.After(delay, func() {
		s.pending = 0
		if s.run.Phase() == phase {
			s.overlay = overlay
		}
	})
}

// finish stores the best score and records the run. A revived run that
// later ends records again.
func (s *Session) finish(completed bool) {
	if s.finished {
		return
	}
	s.finished = true

	res := s.run.Result()
	if s.deps.Best != nil && res.Score > s.best {
		s.deps.Best.Set(res.Score)
		s.best = res.Score
	}
	if s.deps.Recorder != nil {
		snap := s.run.Snapshot()
		s.deps.Recorder.RecordRun(Outcome{
			Result:    res,
			LevelID:   s.level.ID,
			Completed: completed,
			Distance:  snap.Progress,
			Hits:      snap.Hits,
			Revives:   snap.Revives,
		})
	}
	s.logger.Info("session ended", "completed", completed, "score", res.Score, "stars", res.Stars, "lives", res.RemainingLives)
}

// CanRevive reports whether a revive is available right now.
func (s *Session) CanRevive() bool {
	return s.run.Phase() == PhaseDead && s.run.Revives() < s.deps.Config.Run.MaxRevives
}

// Revive revives a dead run if the revive allowance is not used up.
func (s *Session) Revive() bool {
	if !s.CanRevive() || !s.run.Revive() {
		return false
	}
	if s.pending != 0 {
		s.timers.Cancel(s.pending)
		s.pending = 0
	}
	s.overlay = OverlayNone
	s.finished = false
	s.logger.Info("revived", "revives", s.run.Revives())
	return true
}

// Close cancels any delayed transitions. The session must not be stepped
// afterwards.
func (s *Session) Close() {
	s.timers.CancelAll()
	s.pending = 0
}

// NextLaunch returns the launch parameters of the following level in the
// chapter, or false if this is the last one.
func (s *Session) NextLaunch() (levels.Launch, bool) {
	next := levels.Launch{ChapterID: s.launch.ChapterID, LevelIndex: s.launch.LevelIndex + 1}
	if _, ok := s.deps.Catalog.Level(next.ChapterID, next.LevelIndex); !ok {
		return levels.Launch{}, false
	}
	return next, true
}
