//go:build nosound || (linux && !cgo)

package audio

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-heli/internal/core"
)

func TestInitWithoutSpeaker(t *testing.T) {
	p := NewPlayer(1, nil)
	if err := p.Init(); !errors.Is(err, ErrNoSpeaker) {
		t.Fatalf("Init() error = %v, want ErrNoSpeaker", err)
	}
	p.PlayEvents([]core.Event{{Kind: core.EventHit}})
	p.Close()
}
