package tui

import "time"

// thrustLatch turns terminal input into a held-thrust signal. Terminals
// report key presses and auto-repeats but no releases, so a key counts as
// held until window has passed since its last press. Mouse buttons report
// both edges and are tracked exactly.
type thrustLatch struct {
	window    time.Duration
	lastPress time.Time
	mouseDown bool
}

func newThrustLatch(window time.Duration) thrustLatch {
	return thrustLatch{window: window}
}

// Press records a key press or auto-repeat.
func (l *thrustLatch) Press(now time.Time) {
	l.lastPress = now
}

// MouseDown records a button press.
func (l *thrustLatch) MouseDown() {
	l.mouseDown = true
}

// MouseUp records a button release.
func (l *thrustLatch) MouseUp() {
	l.mouseDown = false
}

// Release drops any held thrust, e.g. when the game loses focus.
func (l *thrustLatch) Release() {
	l.lastPress = time.Time{}
	l.mouseDown = false
}

// Held reports whether thrust is held at now.
func (l *thrustLatch) Held(now time.Time) bool {
	if l.mouseDown {
		return true
	}
	if l.lastPress.IsZero() {
		return false
	}
	return now.Sub(l.lastPress) < l.window
}
