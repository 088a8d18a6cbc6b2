package sim

import "gonum.org/v1/gonum/spatial/r3"

// EffectRequest asks for a camera-facing animated sprite at Position.
type EffectRequest struct {
	Position r3.Vec
	Sprite   string
}

// DecalRequest asks for a sprite lying on a surface.
type DecalRequest struct {
	Position r3.Vec
	Normal   r3.Vec
	Sprite   string
}

// EffectQueue buffers effect requests for the current tick. It is drained
// and cleared by SpawnEffectsSystem every tick; nothing carries over.
type EffectQueue struct {
	Queued []EffectRequest
}

func (q *EffectQueue) Push(req EffectRequest) {
	q.Queued = append(q.Queued, req)
}

func (q *EffectQueue) Len() int {
	return len(q.Queued)
}

func (q *EffectQueue) clear() {
	clear(q.Queued)
	q.Queued = q.Queued[:0]
}

// DecalQueue buffers decal requests for the current tick.
type DecalQueue struct {
	Queued []DecalRequest
}

func (q *DecalQueue) Push(req DecalRequest) {
	q.Queued = append(q.Queued, req)
}

func (q *DecalQueue) Len() int {
	return len(q.Queued)
}

func (q *DecalQueue) clear() {
	clear(q.Queued)
	q.Queued = q.Queued[:0]
}

// SpawnStats counts what happened to queued requests. Nothing here is an
// error; the counters only make the silent drops observable.
type SpawnStats struct {
	EffectsSpawned int
	DecalsSpawned  int
	Dropped        int // queued behind the first request of a tick
	NoCamera       int
	UnknownSprite  int
	VisualsRetired int
}

// WeaponStats counts trigger pulls that reached a loaded weapon.
type WeaponStats struct {
	ShotsFired int
	ShotsHit   int
	Unbound    int // fire with a weapon ref that no longer resolves
}
