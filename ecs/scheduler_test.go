package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/hitscan/ecs"
)

type namedSystem struct {
	name string
}

func (s *namedSystem) Execute(frame *ecs.UpdateFrame[tickLog]) {
	frame.Context.Order = append(frame.Context.Order, s.name)
}

type tickCounter struct{}

func (tickCounter) Execute(frame *ecs.UpdateFrame[tickLog]) {
	frame.Context.Ticks++
}

func TestSchedulerRunsInRegistrationOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler[tickLog](storage, nil)

	for _, name := range []string{"input", "move", "fire"} {
		scheduler.Register(&namedSystem{name: name})
	}

	scheduler.Once(0.016)
	scheduler.Once(0.016)

	want := []string{"input", "move", "fire", "input", "move", "fire"}
	got := scheduler.Context().Order
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestSchedulerSharesContext(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	tickCtx := &tickLog{}
	scheduler := ecs.NewScheduler(storage, tickCtx)
	scheduler.Register(tickCounter{})

	for range 5 {
		scheduler.Once(0.1)
	}

	if tickCtx.Ticks != 5 {
		t.Errorf("expected 5 ticks recorded in caller context, got %d", tickCtx.Ticks)
	}
	if scheduler.Context() != tickCtx {
		t.Error("Context should return the pointer passed to NewScheduler")
	}
}

type frameRecorder struct {
	ticks  []uint64
	deltas []time.Duration
}

func (r *frameRecorder) Execute(frame *ecs.UpdateFrame[tickLog]) {
	r.ticks = append(r.ticks, frame.Tick)
	r.deltas = append(r.deltas, frame.Elapsed())
}

func TestSchedulerFrameFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler[tickLog](storage, nil)
	recorder := &frameRecorder{}
	scheduler.Register(recorder)

	scheduler.Once(0.1)
	scheduler.Once(0.25)

	if recorder.ticks[0] != 1 || recorder.ticks[1] != 2 {
		t.Errorf("expected ticks [1 2], got %v", recorder.ticks)
	}
	if recorder.deltas[0] != 100*time.Millisecond || recorder.deltas[1] != 250*time.Millisecond {
		t.Errorf("unexpected elapsed durations %v", recorder.deltas)
	}
}

type singletonSystem struct {
	Counter ecs.Singleton[Frame]
}

func (s *singletonSystem) Execute(frame *ecs.UpdateFrame[tickLog]) {
	*s.Counter.Get()++
}

func TestSchedulerBindsSingletonFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Frame(10))

	scheduler := ecs.NewScheduler[tickLog](storage, nil)
	scheduler.Register(&singletonSystem{})

	scheduler.Once(0.016)
	scheduler.Once(0.016)

	var counter *Frame
	if !storage.ReadSingleton(&counter) {
		t.Fatal("singleton missing")
	}
	if *counter != 12 {
		t.Errorf("expected 12, got %d", *counter)
	}
}

func TestSchedulerRun(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler[tickLog](storage, nil)
	scheduler.Register(tickCounter{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx, 10*time.Millisecond)

	if scheduler.Context().Ticks == 0 {
		t.Error("expected Run to tick at least once")
	}
	if got := scheduler.GetStats().Ticks; got != uint64(scheduler.Context().Ticks) {
		t.Errorf("stats ticks %d disagree with context ticks %d", got, scheduler.Context().Ticks)
	}
}
