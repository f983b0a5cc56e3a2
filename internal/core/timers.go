package core

import "sort"

// TimerID identifies a scheduled callback.
type TimerID uint64

type timer struct {
	id  TimerID
	due float64
	fn  func()
}

// Timers runs delayed callbacks on simulated time. It is advanced by the
// tick loop, so callbacks run on the same goroutine as the simulation and
// never interleave with a tick. Not safe for concurrent use.
type Timers struct {
	now    float64
	nextID TimerID
	queue  []timer
}

// NewTimers creates an empty scheduler at time zero.
func NewTimers() *Timers {
	return &Timers{}
}

// Now returns the current simulated time in seconds.
func (t *Timers) Now() float64 {
	return t.now
}

// After schedules fn to run once delay seconds from now.
func (t *Timers) After(delay float64, fn func()) TimerID {
	if delay < 0 {
		delay = 0
	}
	t.nextID++
	t.queue = append(t.queue, timer{id: t.nextID, due: t.now + delay, fn: fn})
	// Stable so equal deadlines fire in scheduling order
	sort.SliceStable(t.queue, func(i, j int) bool {
		return t.queue[i].due < t.queue[j].due
	})
	return t.nextID
}

// Cancel removes a pending callback. Returns false if it already fired or
// was never scheduled.
func (t *Timers) Cancel(id TimerID) bool {
	for i, tm := range t.queue {
		if tm.id == id {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending callback.
func (t *Timers) CancelAll() {
	t.queue = t.queue[:0]
}

// Pending returns the number of callbacks waiting to fire.
func (t *Timers) Pending() int {
	return len(t.queue)
}

// Advance moves time forward by dt seconds and runs every callback that
// became due, in deadline order. Callbacks may schedule or cancel timers.
func (t *Timers) Advance(dt float64) {
	if dt > 0 {
		t.now += dt
	}
	for len(t.queue) > 0 && t.queue[0].due <= t.now {
		next := t.queue[0]
		t.queue = t.queue[1:]
		next.fn()
	}
}
