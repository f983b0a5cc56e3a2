package heli

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
	"github.com/vovakirdan/tui-heli/internal/progress"
)

type fakeRecorder struct {
	outcomes []Outcome
}

func (f *fakeRecorder) RecordRun(o Outcome) {
	f.outcomes = append(f.outcomes, o)
}

type testEnv struct {
	deps     Deps
	progress *progress.Store
	best     *progress.BestScore
	recorder *fakeRecorder
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	cat, err := levels.Default()
	if err != nil {
		t.Fatal(err)
	}
	kv := progress.NewMemoryKV()
	env := testEnv{
		progress: progress.NewStore(kv, nil),
		best:     progress.NewBestScore(kv, nil),
		recorder: &fakeRecorder{},
	}
	env.deps = Deps{
		Config:   config.DefaultHeliConfig(),
		Catalog:  cat,
		Progress: env.progress,
		Best:     env.best,
		Recorder: env.recorder,
	}
	return env
}

func newTestSession(t *testing.T, env testEnv) *Session {
	t.Helper()
	s, err := NewSession(env.deps, levels.Launch{ChapterID: "rural", LevelIndex: 0}, 1)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s
}

// stepUntil steps the session until an event of kind is raised.
func stepUntil(t *testing.T, s *Session, kind core.EventKind) {
	t.Helper()
	for range 60 * 120 {
		if core.HasEvent(s.Step(tick), kind) {
			return
		}
	}
	t.Fatalf("no %s event", kind)
}

func stepFor(s *Session, ticks int) {
	for range ticks {
		s.Step(tick)
	}
}

func TestSessionDeathOverlayDelay(t *testing.T) {
	env := newTestEnv(t)
	s := newTestSession(t, env)

	s.ThrustDown()
	s.ThrustUp()
	stepUntil(t, s, core.EventDead)

	if s.Overlay() != OverlayNone {
		t.Fatal("death overlay should be delayed")
	}
	stepFor(s, 30)
	if s.Overlay() != OverlayNone {
		t.Fatal("death overlay shown before 600ms")
	}
	stepFor(s, 10)
	if s.Overlay() != OverlayDead {
		t.Fatal("death overlay not shown after 600ms")
	}

	score := s.Run().Score()
	if score == 0 || env.best.Get() != score {
		t.Errorf("best = %d, expected %d", env.best.Get(), score)
	}
	if len(env.recorder.outcomes) != 1 || env.recorder.outcomes[0].Completed {
		t.Errorf("unexpected outcomes %+v", env.recorder.outcomes)
	}
	if got := env.recorder.outcomes[0].LevelID; got != "rural-1" {
		t.Errorf("outcome level = %s", got)
	}

	if !s.CanRevive() {
		t.Fatal("first revive should be available")
	}
	if !s.Revive() {
		t.Fatal("Revive() failed")
	}
	if s.Overlay() != OverlayNone || s.Run().Phase() != PhaseRunning || s.Run().Lives() != 1 {
		t.Errorf("after revive overlay %d phase %s lives %d", s.Overlay(), s.Run().Phase(), s.Run().Lives())
	}
	if s.CanRevive() {
		t.Error("revive allowance should be used up")
	}
}

func TestSessionReviveCancelsPendingOverlay(t *testing.T) {
	env := newTestEnv(t)
	s := newTestSession(t, env)

	s.ThrustDown()
	s.ThrustUp()
	stepUntil(t, s, core.EventDead)

	if !s.Revive() {
		t.Fatal("Revive() failed")
	}
	stepFor(s, 40)

	if s.Overlay() != OverlayNone {
		t.Error("stale death overlay fired after revive")
	}
	if s.Run().Phase() != PhaseRunning {
		t.Errorf("phase = %s, expected running", s.Run().Phase())
	}
}

func TestSessionRevivesLimited(t *testing.T) {
	env := newTestEnv(t)
	env.deps.Config.Run.MaxRevives = 0
	s := newTestSession(t, env)

	s.ThrustDown()
	s.ThrustUp()
	stepUntil(t, s, core.EventDead)

	if s.Revive() {
		t.Error("Revive() should be refused when no revives are allowed")
	}
}

func TestSessionCompletion(t *testing.T) {
	env := newTestEnv(t)
	s := newTestSession(t, env)

	s.ThrustDown()
	s.Run().progress = s.Level().Goal
	events := s.Step(tick)
	if !core.HasEvent(events, core.EventComplete) {
		t.Fatalf("expected completion, got %v", events)
	}

	if s.Overlay() != OverlayNone {
		t.Fatal("completion overlay should be delayed")
	}
	stepFor(s, 31)
	if s.Overlay() != OverlayComplete {
		t.Fatal("completion overlay not shown after 500ms")
	}

	if got := env.progress.ChapterProgress("rural").UnlockedLevels; got != 1 {
		t.Errorf("unlocked = %d, expected 1", got)
	}
	if len(env.recorder.outcomes) != 1 || !env.recorder.outcomes[0].Completed || env.recorder.outcomes[0].Stars != 3 {
		t.Errorf("unexpected outcomes %+v", env.recorder.outcomes)
	}

	next, ok := s.NextLaunch()
	if !ok || next != (levels.Launch{ChapterID: "rural", LevelIndex: 1}) {
		t.Errorf("NextLaunch() = %+v, %v", next, ok)
	}
}

func TestSessionCloseCancelsTimers(t *testing.T) {
	env := newTestEnv(t)
	s := newTestSession(t, env)

	s.ThrustDown()
	s.Run().progress = s.Level().Goal
	s.Step(tick)
	s.Close()
	stepFor(s, 60)

	if s.Overlay() != OverlayNone {
		t.Error("closed session should not fire overlays")
	}
}

func TestNewSessionNoPlayableChapters(t *testing.T) {
	env := newTestEnv(t)
	cat, err := levels.NewCatalog([]levels.Chapter{{ID: "city", Title: "City"}})
	if err != nil {
		t.Fatal(err)
	}
	env.deps.Catalog = cat

	_, err = NewSession(env.deps, levels.Launch{ChapterID: "city"}, 1)
	if !errors.Is(err, levels.ErrNoPlayableChapters) {
		t.Errorf("expected ErrNoPlayableChapters, got %v", err)
	}
}

func TestNewSessionFallsBack(t *testing.T) {
	env := newTestEnv(t)
	s, err := NewSession(env.deps, levels.Launch{ChapterID: "city", LevelIndex: 7}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Launch() != (levels.Launch{ChapterID: "rural", LevelIndex: 4}) {
		t.Errorf("launch = %+v", s.Launch())
	}
	if s.Level().ID != "rural-5" {
		t.Errorf("level = %s", s.Level().ID)
	}
}

func TestWeatherParticles(t *testing.T) {
	vp := config.DefaultHeliConfig().Viewport

	sunny := NewWeather(levels.WeatherSunny, vp, 1)
	sunny.Step(1)
	if len(sunny.Particles()) != 0 {
		t.Error("sunny weather should have no particles")
	}

	rain := NewWeather(levels.WeatherRain, vp, 1)
	for range 60 {
		rain.Step(tick)
	}
	n := len(rain.Particles())
	if n == 0 {
		t.Fatal("rain produced no particles")
	}
	// Rain drops live one second and two spawn every 120ms.
	if n > 20 {
		t.Errorf("rain has %d particles, expected at most 20", n)
	}
	for _, p := range rain.Particles() {
		if p.VY <= 0 {
			t.Errorf("rain drop moving up: %+v", p)
		}
	}
}

func newTestGame(t *testing.T, env testEnv) *Game {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	g, err := NewGame(env.deps, levels.Launch{ChapterID: "rural"}, cfg)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	return g
}

func TestGameThrustAndPause(t *testing.T) {
	g := newTestGame(t, newTestEnv(t))

	thrust := core.NewInputFrame()
	thrust.Set(core.ActionThrust)
	res := g.Step(thrust)
	if !core.HasEvent(res.Events, core.EventStart) {
		t.Fatalf("thrust should start the run, got %v", res.Events)
	}
	if g.Session().Run().Phase() != PhaseRunning {
		t.Fatalf("phase = %s", g.Session().Run().Phase())
	}

	empty := core.NewInputFrame()
	g.Step(empty)
	if g.Session().Run().Thrusting() {
		t.Error("thrust should release when the action is absent")
	}

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("expected paused")
	}
	before := g.Session().Run().Progress()
	g.Step(empty)
	if g.Session().Run().Progress() != before {
		t.Error("paused game should not advance")
	}
	g.Step(pause)
	if g.State().Paused {
		t.Error("expected unpaused")
	}
}

func TestGameRestart(t *testing.T) {
	g := newTestGame(t, newTestEnv(t))

	thrust := core.NewInputFrame()
	thrust.Set(core.ActionThrust)
	for range 30 {
		g.Step(thrust)
	}
	old := g.Session()

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	g.Step(restart)

	if g.Session() == old {
		t.Fatal("restart should build a new session")
	}
	if g.Session().Run().Phase() != PhaseIdle || g.Session().Run().Progress() != 0 {
		t.Error("restarted session should be idle at the start")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, newTestEnv(t))
	screen := core.NewScreen(80, 24)

	g.Render(screen)
	if !strings.Contains(screen.Row(0), "Stage 1") {
		t.Errorf("HUD missing level name: %q", screen.Row(0))
	}
	if !strings.Contains(screen.String(), "Hold SPACE to fly") {
		t.Error("idle prompt missing")
	}

	thrust := core.NewInputFrame()
	thrust.Set(core.ActionThrust)
	for range 240 {
		g.Step(thrust)
	}
	g.Render(screen)
	if !strings.Contains(screen.String(), string(ObstacleChar)) {
		t.Error("expected obstacles on screen after four seconds")
	}

	tiny := core.NewScreen(5, 3)
	g.Render(tiny)
}
