package sim

import (
	"math"
	"time"
)

// Timer is a repeating countdown. Tick reports expiry at most once per
// call: when a single Tick spans several periods the timer wraps its
// elapsed time and counts every period, but JustFinished is simply true.
type Timer struct {
	Duration time.Duration
	Elapsed  time.Duration
	Finished int

	justFinished bool
}

// NewTimer returns a repeating timer with the given period in seconds.
func NewTimer(seconds float64) Timer {
	return Timer{Duration: time.Duration(math.Round(seconds * float64(time.Second)))}
}

// Tick advances the timer by dt.
func (t *Timer) Tick(dt time.Duration) {
	t.justFinished = false
	if t.Duration <= 0 {
		t.Finished++
		t.justFinished = true
		return
	}

	t.Elapsed += dt
	if t.Elapsed < t.Duration {
		return
	}

	t.Finished += int(t.Elapsed / t.Duration)
	t.Elapsed %= t.Duration
	t.justFinished = true
}

// JustFinished reports whether the last Tick crossed a period boundary.
func (t *Timer) JustFinished() bool {
	return t.justFinished
}

// Fraction returns the progress through the current period in [0, 1).
func (t *Timer) Fraction() float64 {
	if t.Duration <= 0 {
		return 0
	}
	return float64(t.Elapsed) / float64(t.Duration)
}
