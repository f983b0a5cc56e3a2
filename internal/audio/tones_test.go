package audio

import (
	"testing"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-heli/internal/core"
)

// drain streams s to the end and returns every left-channel sample.
func drain(t *testing.T, s beep.Streamer) []float64 {
	t.Helper()
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := range n {
			if buf[i][0] != buf[i][1] {
				t.Fatalf("channels differ at %d: %v", len(out)+i, buf[i])
			}
			out = append(out, buf[i][0])
		}
		if !ok {
			break
		}
		if len(out) > int(SampleRate)*5 {
			t.Fatal("streamer never ended")
		}
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
	return out
}

func TestCueStreamersBoundedAndSized(t *testing.T) {
	rate := beep.SampleRate(8000)
	cues := []Cue{CueHit, CuePass, CueThrust, CueComplete, CueButton}

	for _, c := range cues {
		t.Run(c.String(), func(t *testing.T) {
			samples := drain(t, CueStreamer(c, rate, 1))

			if len(samples) != Length(c, rate) {
				t.Errorf("streamed %d samples, expected %d", len(samples), Length(c, rate))
			}

			peak := 0.0
			for _, tone := range Tones(c) {
				peak = max(peak, tone.Gain)
			}
			nonZero := false
			for i, v := range samples {
				if v > peak+1e-9 || v < -peak-1e-9 {
					t.Fatalf("sample %d = %v exceeds peak %v", i, v, peak)
				}
				if v != 0 {
					nonZero = true
				}
			}
			if !nonZero {
				t.Error("cue is silent")
			}
		})
	}
}

func TestToneDecays(t *testing.T) {
	rate := beep.SampleRate(8000)
	tone := Tones(CueHit)[0]
	samples := drain(t, ToneStreamer(tone, rate))

	n := rate.N(tone.Duration)
	head, end := 0.0, 0.0
	for _, v := range samples[:n/10] {
		head = max(head, v, -v)
	}
	for _, v := range samples[n-n/10 : n] {
		end = max(end, v, -v)
	}
	if end >= head/10 {
		t.Errorf("tone did not decay: head %v end %v", head, end)
	}
	for i, v := range samples[n:] {
		if v != 0 {
			t.Fatalf("tail sample %d = %v, expected silence", i, v)
		}
	}
}

func TestZeroVolumeIsSilent(t *testing.T) {
	for i, v := range drain(t, CueStreamer(CuePass, beep.SampleRate(8000), 0)) {
		if v != 0 {
			t.Fatalf("sample %d = %v, expected silence", i, v)
		}
	}
}

func TestCueForEvent(t *testing.T) {
	tests := []struct {
		kind core.EventKind
		cue  Cue
		ok   bool
	}{
		{core.EventThrust, CueThrust, true},
		{core.EventPass, CuePass, true},
		{core.EventHit, CueHit, true},
		{core.EventComplete, CueComplete, true},
		{core.EventDead, 0, false},
		{core.EventStart, 0, false},
	}
	for _, tc := range tests {
		c, ok := CueForEvent(tc.kind)
		if ok != tc.ok || c != tc.cue {
			t.Errorf("CueForEvent(%s) = %s, %v", tc.kind, c, ok)
		}
	}
}

func TestSilentPlayer(t *testing.T) {
	var nilPlayer *Player
	nilPlayer.Play(CueHit)
	nilPlayer.PlayEvents([]core.Event{{Kind: core.EventHit}})
	nilPlayer.Close()

	p := NewPlayer(1, nil)
	p.Play(CueHit)
	p.Close()
}
