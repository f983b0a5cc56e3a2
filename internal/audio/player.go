package audio

import (
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"github.com/vovakirdan/tui-heli/internal/core"
)

// ErrNoSpeaker is returned by Init when the binary was built without speaker
// support.
var ErrNoSpeaker = errors.New("audio: built without speaker support (nosound or no cgo)")

// Player plays cues on the local speaker through a shared mixer. A Player
// that failed to initialize, or a nil *Player, is silent.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	logger      *log.Logger
}

// NewPlayer creates a player with the given master volume (0..1).
func NewPlayer(volume float64, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{
		mixer:  &beep.Mixer{},
		volume: volume,
		logger: logger.WithPrefix("audio"),
	}
}

// Init opens the speaker. On failure the player stays silent and the error
// is returned for the caller to report.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := openSpeaker(SampleRate, p.mixer); err != nil {
		return err
	}
	p.initialized = true
	p.logger.Debug("speaker ready", "rate", int(SampleRate))
	return nil
}

// Play queues a cue.
func (p *Player) Play(c Cue) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := CueStreamer(c, SampleRate, p.volume)
	lockSpeaker()
	p.mixer.Add(s)
	unlockSpeaker()
}

// PlayEvents plays the cue for each game event that has one.
func (p *Player) PlayEvents(events []core.Event) {
	for _, e := range events {
		if c, ok := CueForEvent(e.Kind); ok {
			p.Play(c)
		}
	}
}

// Close stops playback.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	lockSpeaker()
	p.mixer.Clear()
	unlockSpeaker()
	closeSpeaker()
	p.initialized = false
}

// CueForEvent maps a game event to its sound effect.
func CueForEvent(kind core.EventKind) (Cue, bool) {
	switch kind {
	case core.EventThrust:
		return CueThrust, true
	case core.EventPass:
		return CuePass, true
	case core.EventHit:
		return CueHit, true
	case core.EventComplete:
		return CueComplete, true
	default:
		return 0, false
	}
}
