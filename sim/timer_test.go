package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerRepeats(t *testing.T) {
	timer := NewTimer(0.1)
	assert.Equal(t, 100*time.Millisecond, timer.Duration)

	timer.Tick(60 * time.Millisecond)
	assert.False(t, timer.JustFinished())

	timer.Tick(60 * time.Millisecond)
	assert.True(t, timer.JustFinished())
	assert.Equal(t, 20*time.Millisecond, timer.Elapsed)
	assert.Equal(t, 1, timer.Finished)

	timer.Tick(10 * time.Millisecond)
	assert.False(t, timer.JustFinished(), "just-finished lasts one tick")
	assert.InDelta(t, 0.3, timer.Fraction(), tolerance)
}

func TestTimerSingleShotPerTick(t *testing.T) {
	timer := NewTimer(0.1)

	timer.Tick(400 * time.Millisecond)

	assert.True(t, timer.JustFinished())
	assert.Equal(t, 4, timer.Finished, "every period is counted")
	assert.Equal(t, time.Duration(0), timer.Elapsed)
}

func TestTimerZeroDuration(t *testing.T) {
	var timer Timer
	timer.Tick(0)
	assert.True(t, timer.JustFinished())
	timer.Tick(time.Second)
	assert.Equal(t, 2, timer.Finished)
	assert.Equal(t, 0.0, timer.Fraction())
}
