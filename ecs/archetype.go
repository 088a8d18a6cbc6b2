package ecs

import (
	"cmp"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return cmp.Compare(a.String(), b.String())
	})
}

// Archetype holds every entity with one exact set of component types, one
// column per type. Slot i of every column belongs to the same entity.
type Archetype struct {
	id       uint32
	seq      uint64 // creation order within its Storage
	types    []reflect.Type
	storages []iComponentStorage
	refs     *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates an archetype for the given sorted component types.
// Panics if a type was never registered.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](64),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

func (a *Archetype) column(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// Spawn appends one entity and returns its slot index.
func (a *Archetype) Spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		idx := a.column(componentType(comp))
		if idx == -1 {
			continue
		}
		slot = a.storages[idx].Append(comp)
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the component at entityIndex, or nil.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.column(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(entityIndex))
}

// Delete frees the slot and zeroes any EntityRef pointing at it.
func (a *Archetype) Delete(entityIndex uint32) {
	entityId := NewEntityId(a.id, entityIndex)

	if weakPtr, ok := a.refs.Get(entityId); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(entityId)
	}

	for _, storage := range a.storages {
		storage.Delete(int(entityIndex))
	}
}

// Contains reports whether entityIndex is occupied.
func (a *Archetype) Contains(entityIndex uint32) bool {
	return len(a.storages) > 0 && a.storages[0].Has(int(entityIndex))
}

// HasComponent checks if this archetype carries the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.column(compType) != -1
}

// ID returns the archetype's identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// Compact packs every column and rewrites live EntityRefs to the new slots.
// Raw EntityIds held across a compaction are invalid afterwards.
func (a *Archetype) Compact() {
	if len(a.storages) == 0 {
		return
	}

	moved := a.storages[0].Compact()
	for _, storage := range a.storages[1:] {
		storage.Compact()
	}

	live := make(map[EntityId]weak.Pointer[EntityRef], a.refs.Len())
	for oldIdx, newIdx := range moved {
		weakPtr, ok := a.refs.Get(NewEntityId(a.id, uint32(oldIdx)))
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = NewEntityId(a.id, uint32(newIdx))
			live[ref.Id] = weakPtr
		}
	}

	a.refs.Clear()
	for id, weakPtr := range live {
		a.refs.Put(id, weakPtr)
	}
}

// Iter yields the ids of all live entities in slot order.
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}
		for index := range a.storages[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
