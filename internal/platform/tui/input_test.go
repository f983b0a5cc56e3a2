package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-heli/internal/core"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name       string
		msg        tea.KeyMsg
		wantAction core.Action
		wantQuit   bool
	}{
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionThrust, false},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionThrust, false},
		{"w", runeKey('w'), core.ActionThrust, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"v", runeKey('v'), core.ActionRevive, false},
		{"r", runeKey('r'), core.ActionRestart, false},
		{"p", runeKey('p'), core.ActionPause, false},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{"b", runeKey('b'), core.ActionBack, false},
		{"q", runeKey('q'), core.ActionQuit, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey('z'), core.ActionNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, isQuit := km.MapKey(tt.msg)
			if action != tt.wantAction || isQuit != tt.wantQuit {
				t.Errorf("MapKey(%q) = (%v, %v), want (%v, %v)",
					tt.msg.String(), action, isQuit, tt.wantAction, tt.wantQuit)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want MenuAction
	}{
		{"up", tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{"j", runeKey('j'), MenuActionDown},
		{"left", tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{"l", runeKey('l'), MenuActionRight},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{"X", runeKey('X'), MenuActionReset},
		{"lowercase x", runeKey('x'), MenuActionNone},
		{"q", runeKey('q'), MenuActionQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.MapKeyToMenuAction(tt.msg); got != tt.want {
				t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestThrustLatch(t *testing.T) {
	t0 := time.Unix(1000, 0)
	l := newThrustLatch(180 * time.Millisecond)

	if l.Held(t0) {
		t.Fatal("fresh latch should not be held")
	}

	l.Press(t0)
	if !l.Held(t0.Add(100 * time.Millisecond)) {
		t.Error("press should hold within the window")
	}
	if l.Held(t0.Add(180 * time.Millisecond)) {
		t.Error("press should expire at the end of the window")
	}

	// Auto-repeat extends the hold.
	l.Press(t0.Add(150 * time.Millisecond))
	if !l.Held(t0.Add(300 * time.Millisecond)) {
		t.Error("repeat should extend the hold")
	}

	l.Release()
	if l.Held(t0.Add(160 * time.Millisecond)) {
		t.Error("release should drop the key hold")
	}

	l.MouseDown()
	if !l.Held(t0.Add(time.Hour)) {
		t.Error("mouse button should hold until released")
	}
	l.MouseUp()
	if l.Held(t0.Add(time.Hour)) {
		t.Error("mouse release should end the hold")
	}
}
