package heli

import (
	"math/rand"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// Particle is one weather sprite in viewport coordinates.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Life   float64 // Seconds left
}

// emitter describes how a weather kind spawns particles.
type emitter struct {
	every      float64 // Seconds between bursts
	quantity   int
	xMin, xMax float64
	yMin, yMax float64
	vxMin      float64
	vxMax      float64
	vyMin      float64
	vyMax      float64
	life       float64
}

func emitterFor(kind levels.Weather, vp config.Viewport) (emitter, bool) {
	switch kind {
	case levels.WeatherWindy:
		return emitter{
			every: 0.19, quantity: 1,
			xMin: vp.Width + 40, xMax: vp.Width + 140,
			yMin: 220, yMax: vp.Height - 360,
			vxMin: -180, vxMax: -120,
			vyMin: -40, vyMax: 40,
			life: 5.2,
		}, true
	case levels.WeatherRain:
		return emitter{
			every: 0.12, quantity: 2,
			xMin: -60, xMax: vp.Width + 60,
			vxMin: -60, vxMax: -20,
			vyMin: 520, vyMax: 640,
			life: 1.0,
		}, true
	case levels.WeatherSnow:
		return emitter{
			every: 0.18, quantity: 2,
			xMin: -60, xMax: vp.Width + 60,
			yMin: -20, yMax: -20,
			vxMin: -40, vxMax: -5,
			vyMin: 80, vyMax: 120,
			life: 2.4,
		}, true
	}
	return emitter{}, false
}

// Weather simulates decorative particles. It has its own random source so
// it never disturbs course generation.
type Weather struct {
	kind      levels.Weather
	emit      emitter
	enabled   bool
	rng       *rand.Rand
	particles []Particle
	acc       float64
}

// NewWeather creates the particle system for a weather kind. Sunny skies
// produce nothing.
func NewWeather(kind levels.Weather, vp config.Viewport, seed int64) *Weather {
	e, ok := emitterFor(kind, vp)
	return &Weather{
		kind:    kind,
		emit:    e,
		enabled: ok,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Kind returns the weather kind.
func (w *Weather) Kind() levels.Weather {
	return w.kind
}

// Particles returns the live particles.
func (w *Weather) Particles() []Particle {
	return w.particles
}

// Step moves particles, expires old ones and emits new bursts.
func (w *Weather) Step(dt float64) {
	if !w.enabled {
		return
	}

	live := w.particles[:0]
	for _, p := range w.particles {
		p.Life -= dt
		if p.Life <= 0 {
			continue
		}
		p.X += p.VX * dt
		p.Y += p.VY * dt
		live = append(live, p)
	}
	w.particles = live

	w.acc += dt
	for w.acc >= w.emit.every {
		w.acc -= w.emit.every
		for range w.emit.quantity {
			w.particles = append(w.particles, Particle{
				X:    w.between(w.emit.xMin, w.emit.xMax),
				Y:    w.between(w.emit.yMin, w.emit.yMax),
				VX:   w.between(w.emit.vxMin, w.emit.vxMax),
				VY:   w.between(w.emit.vyMin, w.emit.vyMax),
				Life: w.emit.life,
			})
		}
	}
}

func (w *Weather) between(lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}
