package sim

import (
	"github.com/plus3/hitscan/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform places an entity in the world. Rotation is a unit quaternion;
// the core only ever builds it from yaw and pitch, never roll.
type Transform struct {
	Translation r3.Vec
	Rotation    r3.Rotation
}

// Collidable marks an entity as a valid ray-cast target.
type Collidable struct{}

// Camera marks a viewpoint.
type Camera struct{}

// ColliderShape selects which ray test a Collider uses.
type ColliderShape int

const (
	ColliderBox ColliderShape = iota
	ColliderDisc
)

// Collider is the ray-cast geometry of an entity, centred on its
// translation. A box is axis-aligned; a disc lies in the plane whose
// normal is the rotated local +Z.
type Collider struct {
	Shape       ColliderShape
	HalfExtents r3.Vec
	Radius      float64
}

// Player owns a non-owning reference to its weapon. The ref may dangle.
type Player struct {
	Weapon *ecs.EntityRef
}

// Weapon is the loaded/cooldown state machine. Loaded implies Cooldown == 0.
type Weapon struct {
	Cooldown     int
	Loaded       bool
	ReloadFrames int
	DecalSprite  string
}

// HUDSprite is a screen-space sprite, drawn by the host over the view.
type HUDSprite struct {
	Sheet Sheet
	Index int
}

// Sprite is a world-space sprite-sheet frame.
type Sprite struct {
	Sheet Sheet
	Index int
}

// EffectAnimation drives a camera-facing sprite animation.
type EffectAnimation struct {
	Timer Timer
}

// Decal drives a surface-aligned sprite.
type Decal struct {
	Timer Timer
}

// RegisterComponents registers every component of the core with registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Collidable](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Weapon](registry)
	ecs.RegisterComponent[HUDSprite](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[EffectAnimation](registry)
	ecs.RegisterComponent[Decal](registry)
}

var identity = r3.Rotation(quat.Number{Real: 1})
