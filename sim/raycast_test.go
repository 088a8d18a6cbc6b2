package sim

import (
	"math"
	"testing"

	"github.com/plus3/hitscan/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func nearestOnly(ecs.EntityId) bool { return true }

func TestRaycastBox(t *testing.T) {
	r := newRig()
	near := r.box(r3.Vec{Y: 1, Z: -4}, 2, true)
	far := r.box(r3.Vec{Y: 1, Z: -10}, 2, true)
	caster := NewRaycaster(r.storage)

	ray := Ray{Origin: r3.Vec{Y: 1}, Direction: r3.Vec{Z: -2}}

	hits := caster.Cast(ray, CastOptions{})
	require.Len(t, hits, 2)
	assert.Equal(t, near, hits[0].Entity)
	assert.Equal(t, far, hits[1].Entity)
	assert.InDelta(t, 3, hits[0].Distance, tolerance)
	assert.InDelta(t, 9, hits[1].Distance, tolerance)
	assertVec(t, r3.Vec{Y: 1, Z: -3}, hits[0].Position)
	assertVec(t, r3.Vec{Z: 1}, hits[0].Normal)

	hits = caster.Cast(ray, CastOptions{EarlyExit: nearestOnly})
	require.Len(t, hits, 1)
	assert.Equal(t, near, hits[0].Entity)
}

func TestRaycastBoxFaces(t *testing.T) {
	r := newRig()
	r.box(r3.Vec{}, 2, true)
	caster := NewRaycaster(r.storage)

	tests := []struct {
		name   string
		ray    Ray
		point  r3.Vec
		normal r3.Vec
	}{
		{"from above", Ray{Origin: r3.Vec{Y: 5}, Direction: r3.Vec{Y: -1}}, r3.Vec{Y: 1}, r3.Vec{Y: 1}},
		{"from the left", Ray{Origin: r3.Vec{X: -5, Y: 0.5}, Direction: r3.Vec{X: 1}}, r3.Vec{X: -1, Y: 0.5}, r3.Vec{X: -1}},
		{"diagonal", Ray{Origin: r3.Vec{X: 3, Z: 3}, Direction: r3.Vec{X: -1, Z: -1}}, r3.Vec{X: 1, Z: 1}, r3.Vec{X: 1}},
		{"from inside", Ray{Origin: r3.Vec{}, Direction: r3.Vec{Z: -1}}, r3.Vec{Z: -1}, r3.Vec{Z: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := caster.Cast(tt.ray, CastOptions{})
			require.Len(t, hits, 1)
			assertVec(t, tt.point, hits[0].Position)
			assertVec(t, tt.normal, hits[0].Normal)
		})
	}
}

func TestRaycastBoxMisses(t *testing.T) {
	r := newRig()
	r.box(r3.Vec{Z: -4}, 2, true)
	caster := NewRaycaster(r.storage)

	for name, ray := range map[string]Ray{
		"behind":         {Origin: r3.Vec{}, Direction: r3.Vec{Z: 1}},
		"beside":         {Origin: r3.Vec{X: 3}, Direction: r3.Vec{Z: -1}},
		"parallel above": {Origin: r3.Vec{Y: 2}, Direction: r3.Vec{Z: -1}},
		"zero direction": {Origin: r3.Vec{}, Direction: r3.Vec{}},
	} {
		assert.Empty(t, caster.Cast(ray, CastOptions{}), name)
	}
}

func TestRaycastDisc(t *testing.T) {
	r := newRig()
	floor := r.storage.Spawn(
		Transform{Rotation: r3.NewRotation(-math.Pi/2, worldX)},
		Collider{Shape: ColliderDisc, Radius: 8},
		Collidable{},
	)
	caster := NewRaycaster(r.storage)

	hits := caster.Cast(Ray{Origin: r3.Vec{Y: 1.5, Z: 4}, Direction: r3.Vec{Y: -1, Z: -1}}, CastOptions{})
	require.Len(t, hits, 1)
	assert.Equal(t, floor, hits[0].Entity)
	assertVec(t, r3.Vec{Z: 2.5}, hits[0].Position)
	assertVec(t, r3.Vec{Y: 1}, hits[0].Normal)
	assert.InDelta(t, 1.5*math.Sqrt2, hits[0].Distance, 1e-9)

	t.Run("from below the normal flips", func(t *testing.T) {
		hits := caster.Cast(Ray{Origin: r3.Vec{Y: -1}, Direction: r3.Vec{Y: 1}}, CastOptions{})
		require.Len(t, hits, 1)
		assertVec(t, r3.Vec{Y: -1}, hits[0].Normal)
	})

	t.Run("outside the radius", func(t *testing.T) {
		assert.Empty(t, caster.Cast(Ray{Origin: r3.Vec{X: 9, Y: 1}, Direction: r3.Vec{Y: -1}}, CastOptions{}))
	})

	t.Run("parallel", func(t *testing.T) {
		assert.Empty(t, caster.Cast(Ray{Origin: r3.Vec{Y: 1}, Direction: r3.Vec{X: 1}}, CastOptions{}))
	})
}

func TestRaycastFilter(t *testing.T) {
	r := newRig()
	r.box(r3.Vec{Z: -2}, 1, false)
	tagged := r.box(r3.Vec{Z: -6}, 1, true)
	caster := NewRaycaster(r.storage)

	hits := caster.Cast(Ray{Direction: r3.Vec{Z: -1}}, CastOptions{
		Filter: func(id ecs.EntityId) bool {
			return r.storage.HasComponent(id, collidableType)
		},
		EarlyExit: nearestOnly,
	})
	require.Len(t, hits, 1)
	assert.Equal(t, tagged, hits[0].Entity)
}
