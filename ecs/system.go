package ecs

// System is one stage of a tick. Systems may declare Query and Singleton
// fields; the Scheduler binds them on Register and refreshes queries right
// before Execute. Any other fields are private state kept across ticks.
type System[C any] interface {
	Execute(frame *UpdateFrame[C])
}
