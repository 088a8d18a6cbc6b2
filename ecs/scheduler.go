package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Ticks           uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	s.minDuration = min(s.minDuration, d)
	s.maxDuration = max(s.maxDuration, d)
}

// storageBinder is implemented by Query and Singleton.
type storageBinder interface {
	Init(storage *Storage)
}

// snapshotter is implemented by Query.
type snapshotter interface {
	Execute()
}

type registeredSystem[C any] struct {
	system  System[C]
	queries []snapshotter
	stats   *systemStatsInternal
}

// Scheduler runs systems in registration order, one pass per tick. It owns
// the per-tick context C and passes it by reference through UpdateFrame.
type Scheduler[C any] struct {
	storage *Storage
	tickCtx *C
	systems []*registeredSystem[C]
	frame   *UpdateFrame[C]
	ticks   uint64
}

// NewScheduler creates a scheduler over storage. A nil tickCtx is replaced
// by a zero C.
func NewScheduler[C any](storage *Storage, tickCtx *C) *Scheduler[C] {
	if tickCtx == nil {
		tickCtx = new(C)
	}
	return &Scheduler[C]{
		storage: storage,
		tickCtx: tickCtx,
		frame: &UpdateFrame[C]{
			Context:  tickCtx,
			Commands: newCommands(),
			Storage:  storage,
		},
	}
}

// Context returns the per-tick context shared by all systems.
func (s *Scheduler[C]) Context() *C {
	return s.tickCtx
}

// Storage returns the store the scheduler runs against.
func (s *Scheduler[C]) Storage() *Storage {
	return s.storage
}

// Register appends a system and binds its Query and Singleton fields.
func (s *Scheduler[C]) Register(system System[C]) {
	entry := &registeredSystem[C]{
		system: system,
		stats: &systemStatsInternal{
			name:        systemName(system),
			minDuration: time.Duration(1<<63 - 1),
		},
	}

	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Pointer {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() == reflect.Struct {
		for i := 0; i < systemValue.NumField(); i++ {
			field := systemValue.Field(i)
			if !field.CanSet() || field.Kind() != reflect.Struct {
				continue
			}

			fieldPtr := field.Addr().Interface()
			if binder, ok := fieldPtr.(storageBinder); ok {
				binder.Init(s.storage)
			}
			if query, ok := fieldPtr.(snapshotter); ok {
				entry.queries = append(entry.queries, query)
			}
		}
	}

	s.systems = append(s.systems, entry)
}

func systemName(system any) string {
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// Once runs every system once with the given delta time in seconds, then
// flushes the deferred commands.
func (s *Scheduler[C]) Once(dt float64) {
	s.ticks++
	s.frame.DeltaTime = dt
	s.frame.Tick = s.ticks

	for _, entry := range s.systems {
		start := time.Now()
		for _, query := range entry.queries {
			query.Execute()
		}
		entry.system.Execute(s.frame)
		entry.stats.record(time.Since(start))
	}

	s.frame.Commands.Flush(s.storage)
}

// Run ticks on every interval until ctx is cancelled, feeding each tick the
// wall-clock time since the previous one.
func (s *Scheduler[C]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler[C]) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Ticks:       s.ticks,
		Systems:     make([]SystemStats, len(s.systems)),
	}

	for i, entry := range s.systems {
		internal := entry.stats
		var avgDuration time.Duration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
	}

	return stats
}
