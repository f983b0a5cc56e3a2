//go:build !nosound && (cgo || !linux)

package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerSupported reports whether this build can drive the local speaker.
const SpeakerSupported = true

func openSpeaker(rate beep.SampleRate, s beep.Streamer) error {
	if err := speaker.Init(rate, rate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(s)
	return nil
}

func lockSpeaker()   { speaker.Lock() }
func unlockSpeaker() { speaker.Unlock() }
func closeSpeaker()  { speaker.Close() }
