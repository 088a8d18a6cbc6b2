package sim

import (
	"cmp"
	"math"
	"slices"

	"github.com/plus3/hitscan/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

const rayEpsilon = 1e-9

// Ray is a half-line; Direction need not be normalised.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// At returns the point at parameter t.
func (r Ray) At(t float64) r3.Vec {
	return r3.Add(r.Origin, r3.Scale(t, r.Direction))
}

// Hit is one ray intersection. Distance is measured along the normalised
// direction. Normal points back towards the ray origin.
type Hit struct {
	Entity   ecs.EntityId
	Distance float64
	Position r3.Vec
	Normal   r3.Vec
}

// CastOptions narrows a cast. Filter rejects candidates before any
// intersection test. EarlyExit is consulted after each hit, nearest first,
// and stops the cast once it returns true.
type CastOptions struct {
	Filter    func(ecs.EntityId) bool
	EarlyExit func(ecs.EntityId) bool
}

// Raycaster intersects rays with every entity carrying a Transform and a
// Collider. Declared as a system field it is bound by the scheduler.
type Raycaster struct {
	targets *ecs.View[struct {
		ecs.EntityId
		*Transform
		*Collider
	}]
	hits []Hit
}

func NewRaycaster(storage *ecs.Storage) *Raycaster {
	r := &Raycaster{}
	r.Init(storage)
	return r
}

func (r *Raycaster) Init(storage *ecs.Storage) {
	r.targets = ecs.NewView[struct {
		ecs.EntityId
		*Transform
		*Collider
	}](storage)
}

// Cast returns the intersections of ray ordered nearest first. The slice is
// reused by the next Cast.
func (r *Raycaster) Cast(ray Ray, opts CastOptions) []Hit {
	r.hits = r.hits[:0]

	length := r3.Norm(ray.Direction)
	if length < rayEpsilon {
		return r.hits
	}
	ray.Direction = r3.Scale(1/length, ray.Direction)

	for target := range r.targets.Values() {
		if opts.Filter != nil && !opts.Filter(target.EntityId) {
			continue
		}

		var (
			t      float64
			normal r3.Vec
			ok     bool
		)
		switch target.Collider.Shape {
		case ColliderBox:
			t, normal, ok = intersectBox(ray, target.Transform.Translation, target.Collider.HalfExtents)
		case ColliderDisc:
			t, normal, ok = intersectDisc(ray, *target.Transform, target.Collider.Radius)
		}
		if !ok {
			continue
		}

		r.hits = append(r.hits, Hit{
			Entity:   target.EntityId,
			Distance: t,
			Position: ray.At(t),
			Normal:   normal,
		})
	}

	slices.SortStableFunc(r.hits, func(a, b Hit) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if opts.EarlyExit != nil {
		for i, hit := range r.hits {
			if opts.EarlyExit(hit.Entity) {
				r.hits = r.hits[:i+1]
				break
			}
		}
	}
	return r.hits
}

// intersectBox is the slab test against an axis-aligned box. A ray that
// starts inside reports the face it leaves through.
func intersectBox(ray Ray, center, half r3.Vec) (float64, r3.Vec, bool) {
	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	dir := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{center.X - half.X, center.Y - half.Y, center.Z - half.Z}
	hi := [3]float64{center.X + half.X, center.Y + half.Y, center.Z + half.Z}

	tNear, tFar := math.Inf(-1), math.Inf(1)
	nearAxis, farAxis := -1, -1

	for axis := range 3 {
		if math.Abs(dir[axis]) < rayEpsilon {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, r3.Vec{}, false
			}
			continue
		}

		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear, nearAxis = t1, axis
		}
		if t2 < tFar {
			tFar, farAxis = t2, axis
		}
		if tNear > tFar {
			return 0, r3.Vec{}, false
		}
	}

	if tFar < 0 {
		return 0, r3.Vec{}, false
	}

	t, axis := tNear, nearAxis
	if tNear < 0 {
		t, axis = tFar, farAxis
	}
	if axis < 0 {
		return 0, r3.Vec{}, false
	}

	var n [3]float64
	n[axis] = -math.Copysign(1, dir[axis])
	return t, r3.Vec{X: n[0], Y: n[1], Z: n[2]}, true
}

// intersectDisc hits the plane through the transform with normal equal to
// the rotated local +Z, within radius of the centre.
func intersectDisc(ray Ray, transform Transform, radius float64) (float64, r3.Vec, bool) {
	normal := transform.Rotation.Rotate(r3.Vec{Z: 1})
	denom := r3.Dot(ray.Direction, normal)
	if math.Abs(denom) < rayEpsilon {
		return 0, r3.Vec{}, false
	}

	t := r3.Dot(r3.Sub(transform.Translation, ray.Origin), normal) / denom
	if t < 0 {
		return 0, r3.Vec{}, false
	}
	if r3.Norm(r3.Sub(ray.At(t), transform.Translation)) > radius {
		return 0, r3.Vec{}, false
	}

	if denom > 0 {
		normal = r3.Scale(-1, normal)
	}
	return t, normal, true
}
