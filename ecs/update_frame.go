package ecs

import (
	"math"
	"time"
)

// UpdateFrame is handed to every system during one tick. Context is the
// scheduler-owned per-tick record shared by all systems of the pipeline.
type UpdateFrame[C any] struct {
	DeltaTime float64
	Tick      uint64
	Context   *C
	Commands  *Commands
	Storage   *Storage
}

// Elapsed returns DeltaTime as a Duration rounded to the nanosecond.
func (f *UpdateFrame[C]) Elapsed() time.Duration {
	return time.Duration(math.Round(f.DeltaTime * float64(time.Second)))
}
