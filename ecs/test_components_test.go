package ecs_test

import "github.com/plus3/hitscan/ecs"

type Position struct {
	X, Y, Z float64
}

type Velocity struct {
	DX, DY, DZ float64
}

type Ammo struct {
	Rounds   int
	Capacity int
}

type Marker struct{}

type Label string

type Frame int32

type Owner struct {
	Ref *ecs.EntityRef
}

// tickLog is the per-tick context used by scheduler tests.
type tickLog struct {
	Order []string
	Ticks int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Ammo](registry)
	ecs.RegisterComponent[Marker](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Frame](registry)
	ecs.RegisterComponent[Owner](registry)
	return registry
}
