package heli

import (
	"math"

	"github.com/vovakirdan/tui-heli/internal/config"
	"github.com/vovakirdan/tui-heli/internal/core"
	"github.com/vovakirdan/tui-heli/internal/levels"
)

// Gap is the passable opening of an obstacle pair.
type Gap struct {
	Height float64
	Center float64
}

// Top returns the y-coordinate of the gap's upper edge.
func (g Gap) Top() float64 {
	return g.Center - g.Height/2
}

// Bottom returns the y-coordinate of the gap's lower edge.
func (g Gap) Bottom() float64 {
	return g.Center + g.Height/2
}

// waveformSample returns the normalized gap center in [0, 1] for a level
// signature at the given progress ratio. rng feeds the waveforms that carry
// random jumps.
func waveformSample(w levels.Waveform, ratio float64, rng config.Sampler) float64 {
	var n float64

	switch w {
	case levels.WaveGentleSine:
		n = 0.5 + 0.15*math.Sin(2*math.Pi*1.5*ratio)

	case levels.WaveSineJitter:
		n = 0.5 + 0.2*math.Sin(2*math.Pi*2.0*ratio) + (rng.Float64()-0.5)*0.1

	case levels.WaveSineSaw:
		n = 0.5 + 0.25*math.Sin(2*math.Pi*2.5*ratio) + 0.15*(triangle(ratio)-0.5)

	case levels.WaveStepped:
		const steps = 8
		idx := int(math.Floor(ratio * steps))
		step := float64((idx*137)%100)/100*0.6 + 0.2
		n = step + 0.15*math.Sin(2*math.Pi*3.0*ratio)

	case levels.WaveDualSine:
		n = 0.5 +
			0.25*math.Sin(2*math.Pi*3.5*ratio) +
			0.15*math.Sin(2*math.Pi*1.2*ratio) +
			(rng.Float64()-0.5)*0.2

	default:
		n = 0.5
	}

	return core.ClampF(n, 0, 1)
}

// triangle is a unit-period triangle wave rising 0..1 then falling back.
func triangle(x float64) float64 {
	phase := math.Mod(x, 1)
	if phase < 0 {
		phase++
	}
	if phase < 0.5 {
		return phase * 2
	}
	return 2 - phase*2
}

// ComputeGap returns the gap geometry for a pair at the given progress
// ratio (anchor / goal). Height narrows along the level through the
// difficulty bands and never drops below the configured floor; the center
// follows the level's waveform with a small jitter and stays inside the
// usable band.
func (c *Course) ComputeGap(ratio float64) Gap {
	ratio = core.ClampF(ratio, 0, 1)
	lvl := c.level

	bias := c.difficulty.HeightBias(ratio, c.rng)
	height := math.Round(core.Lerp(lvl.GapHeight.Min, lvl.GapHeight.Max, bias))
	height = math.Max(height, c.cfg.GapFloor)

	n := waveformSample(lvl.Waveform, ratio, c.rng)
	center := math.Floor(core.Lerp(lvl.GapCenter.Min, lvl.GapCenter.Max, n))
	center += (c.rng.Float64() - 0.5) * c.cfg.CenterJitter * height

	lo := c.cfg.UsableMin + height/2
	hi := c.cfg.UsableMax - height/2
	if lo > hi {
		// Gap taller than the band; center it.
		lo = (c.cfg.UsableMin + c.cfg.UsableMax) / 2
		hi = lo
	}
	center = math.Floor(core.ClampF(center, lo, hi))

	return Gap{Height: height, Center: center}
}
