package sim

import (
	"testing"

	"github.com/plus3/hitscan/config"
	"github.com/plus3/hitscan/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tolerance = 1e-9

func assertVec(t *testing.T, want, got r3.Vec, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, 1e-6, msgAndArgs...)
}

// newTestWorld builds a world over the default config after applying edit.
func newTestWorld(t *testing.T, edit func(cfg *config.Config)) (*World, *ScriptedInput) {
	t.Helper()
	cfg := config.Default()
	if edit != nil {
		edit(cfg)
	}
	input := NewScriptedInput()
	world, err := NewWorld(cfg, input)
	require.NoError(t, err)
	return world, input
}

// corridor places the player at (0,1,0) looking down -Z with one collidable
// cube whose front face is 3 units away.
func corridor(cfg *config.Config) {
	cfg.Scene.Floors = nil
	cfg.Scene.Boxes = []config.BoxConfig{{Center: [3]float64{0, 1, -4}, Size: 2}}
	cfg.Scene.Player.Position = [3]float64{0, 1, 0}
}

// loaded steps once so the freshly spawned weapon loads.
func loaded(t *testing.T, world *World) *Weapon {
	t.Helper()
	world.Step(world.DT())
	weapon := world.Weapon()
	require.NotNil(t, weapon)
	require.True(t, weapon.Loaded)
	return weapon
}

// rig is a bare pipeline without the spawn systems, so the request queues
// can be inspected after a tick.
type rig struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler[Intent]
	input     *ScriptedInput
}

func newRig() *rig {
	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(EffectQueue{})
	storage.AddSingleton(DecalQueue{})
	storage.AddSingleton(SpawnStats{})
	storage.AddSingleton(WeaponStats{})

	r := &rig{
		storage:   storage,
		scheduler: ecs.NewScheduler[Intent](storage, nil),
		input:     NewScriptedInput(),
	}
	r.scheduler.Register(&InputSystem{Source: r.input})
	r.scheduler.Register(&PlayerMoveSystem{Sensitivity: 0.08, PitchLimit: 1.54, Speed: 5})
	r.scheduler.Register(&WeaponLoadSystem{})
	r.scheduler.Register(&FireSystem{})
	return r
}

func (r *rig) decals() *DecalQueue {
	return ecs.NewSingleton[DecalQueue](r.storage).Get()
}

func (r *rig) weaponStats() *WeaponStats {
	return ecs.NewSingleton[WeaponStats](r.storage).Get()
}

// armedPlayer spawns a player at pos with a weapon in the given state.
func (r *rig) armedPlayer(pos r3.Vec, weapon Weapon) (*ecs.EntityRef, *ecs.EntityRef) {
	weaponRef := r.storage.CreateEntityRef(r.storage.Spawn(weapon, HUDSprite{}))
	playerRef := r.storage.CreateEntityRef(r.storage.Spawn(NewTransform(pos), Player{Weapon: weaponRef}, Camera{}))
	return playerRef, weaponRef
}

func (r *rig) weapon(ref *ecs.EntityRef) *Weapon {
	id, ok := r.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return ecs.ReadComponent[Weapon](r.storage, id)
}

func (r *rig) box(center r3.Vec, size float64, collidable bool) ecs.EntityId {
	half := size / 2
	components := []any{
		NewTransform(center),
		Collider{Shape: ColliderBox, HalfExtents: r3.Vec{X: half, Y: half, Z: half}},
	}
	if collidable {
		components = append(components, Collidable{})
	}
	return r.storage.Spawn(components...)
}

func readHUD(r *rig, id ecs.EntityId) *HUDSprite {
	return ecs.ReadComponent[HUDSprite](r.storage, id)
}
