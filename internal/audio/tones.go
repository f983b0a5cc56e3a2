// Package audio synthesizes the game's short tone cues as beep streamers.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate all cues are rendered at.
const SampleRate = beep.SampleRate(44100)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

// Cue identifies a sound effect.
type Cue int

const (
	CueHit Cue = iota
	CuePass
	CueThrust
	CueComplete
	CueButton
)

// String returns a short name for the cue.
func (c Cue) String() string {
	switch c {
	case CueHit:
		return "hit"
	case CuePass:
		return "pass"
	case CueThrust:
		return "thrust"
	case CueComplete:
		return "complete"
	case CueButton:
		return "button"
	default:
		return "unknown"
	}
}

// Tone is one enveloped oscillator note.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Wave     Wave
	Gain     float64 // Linear peak amplitude, 0..1
}

// tail is the silence padded after each tone so the decay never clicks.
const tail = 20 * time.Millisecond

// cueTones lists the notes of every cue, played in sequence.
var cueTones = map[Cue][]Tone{
	CueHit:    {{Freq: 180, Duration: 240 * time.Millisecond, Wave: WaveSaw, Gain: 0.25}},
	CuePass:   {{Freq: 920, Duration: 100 * time.Millisecond, Wave: WaveTriangle, Gain: 0.18}},
	CueThrust: {{Freq: 620, Duration: 80 * time.Millisecond, Wave: WaveSquare, Gain: 0.22}},
	CueComplete: {
		{Freq: 920, Duration: 100 * time.Millisecond, Wave: WaveTriangle, Gain: 0.18},
		{Freq: 1380, Duration: 180 * time.Millisecond, Wave: WaveTriangle, Gain: 0.18},
	},
	CueButton: {{Freq: 500, Duration: 120 * time.Millisecond, Wave: WaveTriangle, Gain: 0.18}},
}

// Tones returns the notes of a cue.
func Tones(c Cue) []Tone {
	return cueTones[c]
}

// Length returns the number of samples a cue streams at rate.
func Length(c Cue, rate beep.SampleRate) int {
	n := 0
	for _, t := range cueTones[c] {
		n += rate.N(t.Duration) + rate.N(tail)
	}
	return n
}

// oscillator generates a raw periodic wave.
type oscillator struct {
	freq  float64
	phase float64
	wave  Wave
	rate  beep.SampleRate
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveSaw:
			v = 2 * (o.phase - 0.5)
		case WaveTriangle:
			v = 1 - 4*math.Abs(o.phase-0.5)
		}
		samples[i][0] = v
		samples[i][1] = v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// decay scales a stream exponentially from gain down to -80 dB over n
// samples.
type decay struct {
	streamer beep.Streamer
	gain     float64
	k        float64 // Per-sample multiplier
	pos, n   int
}

func newDecay(s beep.Streamer, gain float64, n int) *decay {
	k := 1.0
	if n > 0 {
		k = math.Pow(0.0001/gain, 1/float64(n))
	}
	return &decay{streamer: s, gain: gain, k: k, n: n}
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.streamer.Stream(samples)
	for i := range n {
		g := 0.0
		if d.pos < d.n {
			g = d.gain * math.Pow(d.k, float64(d.pos))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// ToneStreamer renders a single tone followed by a short silent tail.
func ToneStreamer(t Tone, rate beep.SampleRate) beep.Streamer {
	osc := &oscillator{freq: t.Freq, wave: t.Wave, rate: rate}
	gain := math.Min(math.Max(t.Gain, 0.0001), 1)
	n := rate.N(t.Duration)
	return beep.Take(n+rate.N(tail), newDecay(osc, gain, n))
}

// CueStreamer renders a cue at the given master volume (0..1).
func CueStreamer(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	tones := cueTones[c]
	streamers := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		streamers = append(streamers, ToneStreamer(t, rate))
	}
	return newVolume(beep.Seq(streamers...), volume)
}

// newVolume wraps s in a linear volume control. Zero volume is silent since
// log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(math.Min(vol, 1))}
}
