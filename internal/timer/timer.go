// Package timer tracks elapsed match time from wall-clock readings.
//
// Timer is a plain value: every transition returns a new Timer and reading the
// elapsed time never changes it. Accuracy comes from the clock readings passed
// in, not from how often anyone looks at the timer.
package timer

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a Timer.
type State string

const (
	StateStopped State = "stopped"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// Timer accumulates running time across pauses.
type Timer struct {
	accumulated time.Duration
	anchor      time.Time
	state       State
}

// New returns a stopped timer at zero.
func New() Timer {
	return Timer{state: StateStopped}
}

// State returns the lifecycle state. The zero Timer is stopped.
func (t Timer) State() State {
	if t.state == "" {
		return StateStopped
	}
	return t.state
}

func (t Timer) Running() bool {
	return t.state == StateRunning
}

// Start anchors the timer at now. It is a no-op while already running.
func (t Timer) Start(now time.Time) Timer {
	if t.Running() {
		return t
	}
	t.anchor = now
	t.state = StateRunning
	return t
}

// Pause folds the running stretch into the accumulated total. It is a no-op
// unless the timer is running.
func (t Timer) Pause(now time.Time) Timer {
	if !t.Running() {
		return t
	}
	t.accumulated += since(t.anchor, now)
	t.anchor = time.Time{}
	t.state = StatePaused
	return t
}

// Reset zeroes the timer and stops it.
func (t Timer) Reset() Timer {
	return New()
}

// Elapsed returns the elapsed time as of now without changing the timer.
func (t Timer) Elapsed(now time.Time) time.Duration {
	if t.Running() {
		return t.accumulated + since(t.anchor, now)
	}
	return t.accumulated
}

// ElapsedMs is Elapsed in whole milliseconds, the unit used for score offsets.
func (t Timer) ElapsedMs(now time.Time) int64 {
	return t.Elapsed(now).Milliseconds()
}

// since never goes negative, so a clock stepping backwards cannot make the
// elapsed time shrink.
func since(anchor, now time.Time) time.Duration {
	d := now.Sub(anchor)
	if d < 0 {
		return 0
	}
	return d
}

// FormatElapsed renders d as MM:SS.cc.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	minutes := ms / 60000
	seconds := (ms / 1000) % 60
	centis := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
