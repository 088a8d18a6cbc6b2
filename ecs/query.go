package ecs

import (
	"iter"
)

// Query is a View declared as a system field. The Scheduler snapshots its
// matches immediately before the owning system runs, so a system sees every
// structural change flushed by earlier ticks and none queued in this one.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a standalone Query. Call Execute before iterating.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the Query to storage. The Scheduler calls this during Register.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute takes this tick's snapshot of matching entities.
func (q *Query[T]) Execute() {
	if len(q.storage.archetypes) != q.lastArchetypeCount {
		q.lastArchetypeCount = len(q.storage.archetypes)
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, archetype := range q.storage.Archetypes() {
			if q.view.matchesArchetype(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	collect := func(id EntityId, item T) bool {
		q.cachedEntities = append(q.cachedEntities, id)
		q.cachedComponents = append(q.cachedComponents, item)
		return true
	}
	for _, archetype := range q.cachedArchetypes {
		q.view.iterArchetype(archetype, collect)
	}

	q.cacheValid = true
}

// Iter yields the snapshot. Panics if Execute has never run.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values yields the snapshot without ids. Panics if Execute has never run.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Len returns the snapshot size.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}

// First returns the first entity of the snapshot.
func (q *Query[T]) First() (EntityId, T, bool) {
	if len(q.cachedEntities) == 0 {
		var zero T
		return 0, zero, false
	}
	return q.cachedEntities[0], q.cachedComponents[0], true
}
