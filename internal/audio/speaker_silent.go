//go:build nosound || (linux && !cgo)

package audio

import "github.com/gopxl/beep"

// SpeakerSupported reports whether this build can drive the local speaker.
// Linux builds without cgo, or built with the nosound tag, have no ALSA
// backend.
const SpeakerSupported = false

func openSpeaker(beep.SampleRate, beep.Streamer) error { return ErrNoSpeaker }

func lockSpeaker()   {}
func unlockSpeaker() {}
func closeSpeaker()  {}
