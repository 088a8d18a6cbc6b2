package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func newArmedRig() (*rig, *Weapon) {
	r := newRig()
	r.box(r3.Vec{Y: 1, Z: -4}, 2, true)
	_, weaponRef := r.armedPlayer(r3.Vec{Y: 1}, Weapon{Loaded: true, ReloadFrames: 15, DecalSprite: "fx_splat"})
	return r, r.weapon(weaponRef)
}

func TestFireHitsCollidable(t *testing.T) {
	r, weapon := newArmedRig()

	r.input.PullTrigger()
	r.scheduler.Once(0.016)

	assert.False(t, weapon.Loaded)
	assert.Equal(t, 15, weapon.Cooldown)

	decals := r.decals()
	require.Equal(t, 1, decals.Len())
	assertVec(t, r3.Vec{Y: 1, Z: -3}, decals.Queued[0].Position)
	assertVec(t, r3.Vec{Z: 1}, decals.Queued[0].Normal)
	assert.Equal(t, "fx_splat", decals.Queued[0].Sprite)
	assert.Equal(t, WeaponStats{ShotsFired: 1, ShotsHit: 1}, *r.weaponStats())
}

func TestFireMissStillStartsCooldown(t *testing.T) {
	r := newRig()
	r.box(r3.Vec{Y: 1, Z: 4}, 2, true)
	r.box(r3.Vec{Y: 1, Z: -4}, 2, false)
	_, weaponRef := r.armedPlayer(r3.Vec{Y: 1}, Weapon{Loaded: true, ReloadFrames: 15})

	r.input.PullTrigger()
	r.scheduler.Once(0.016)

	weapon := r.weapon(weaponRef)
	assert.False(t, weapon.Loaded)
	assert.Equal(t, 15, weapon.Cooldown)
	assert.Zero(t, r.decals().Len(), "untagged colliders never register")
	assert.Equal(t, WeaponStats{ShotsFired: 1}, *r.weaponStats())
}

func TestCooldownCountsDownThenLoads(t *testing.T) {
	r, weapon := newArmedRig()

	r.input.PullTrigger()
	r.scheduler.Once(0.016)
	require.Equal(t, 15, weapon.Cooldown)

	for tick := 1; tick <= 15; tick++ {
		r.scheduler.Once(0.016)
		assert.Equal(t, 15-tick, weapon.Cooldown, "tick %d", tick)
		assert.False(t, weapon.Loaded, "tick %d", tick)
	}

	r.scheduler.Once(0.016)
	assert.True(t, weapon.Loaded)
	assert.Zero(t, weapon.Cooldown)
}

func TestLoaderWaitsOneTickAfterCooldown(t *testing.T) {
	r := newRig()
	_, weaponRef := r.armedPlayer(r3.Vec{}, Weapon{Cooldown: 1})
	weapon := r.weapon(weaponRef)

	r.scheduler.Once(0.016)
	assert.Zero(t, weapon.Cooldown)
	assert.False(t, weapon.Loaded)

	r.scheduler.Once(0.016)
	assert.True(t, weapon.Loaded)
}

func TestFireWhileUnloadedDoesNothing(t *testing.T) {
	r, weapon := newArmedRig()

	r.input.PullTrigger()
	r.scheduler.Once(0.016)
	clear(r.decals().Queued)
	r.decals().Queued = r.decals().Queued[:0]

	r.scheduler.Once(0.016)
	require.Equal(t, 14, weapon.Cooldown)

	r.input.PullTrigger()
	r.scheduler.Once(0.016)

	assert.Equal(t, 13, weapon.Cooldown, "only the loader touches cooldown")
	assert.False(t, weapon.Loaded)
	assert.Zero(t, r.decals().Len())
	assert.Equal(t, 1, r.weaponStats().ShotsFired)
}

func TestHUDFrameFollowsLoadState(t *testing.T) {
	r := newRig()
	_, weaponRef := r.armedPlayer(r3.Vec{}, Weapon{Cooldown: 2})
	id, _ := r.storage.ResolveEntityRef(weaponRef)

	r.scheduler.Once(0.016)
	hud := readHUD(r, id)
	assert.Equal(t, 1, hud.Index)

	r.scheduler.Once(0.016)
	r.scheduler.Once(0.016)
	assert.Equal(t, 0, hud.Index)
}

func TestDanglingWeaponIsSkipped(t *testing.T) {
	r := newRig()
	r.box(r3.Vec{Y: 1, Z: -4}, 2, true)
	_, weaponRef := r.armedPlayer(r3.Vec{Y: 1}, Weapon{Loaded: true, ReloadFrames: 15})

	id, ok := r.storage.ResolveEntityRef(weaponRef)
	require.True(t, ok)
	r.storage.Delete(id)

	r.input.PullTrigger()
	assert.NotPanics(t, func() { r.scheduler.Once(0.016) })
	assert.Zero(t, r.decals().Len())
	assert.Equal(t, WeaponStats{Unbound: 1}, *r.weaponStats())
}
