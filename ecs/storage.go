package ecs

import (
	"cmp"
	"reflect"
	"slices"
	"unsafe"
	"weak"
)

// Storage is the entity store: archetypes keyed by their component-set hash
// plus singleton components that belong to no entity.
type Storage struct {
	archetypes map[uint32]*Archetype
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
	nextSeq    uint64
}

// NewStorage creates an empty store backed by the given registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

// Registry returns the component registry this store was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// CreateEntityRef returns the shared EntityRef for id, creating it on first
// use. Returns nil if id does not name a live entity.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	archetype := s.archetypes[id.ArchetypeId()]
	if archetype == nil || !archetype.Contains(id.Index()) {
		return nil
	}

	if weakPtr, ok := archetype.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		archetype.refs.Del(id)
	}

	ref := &EntityRef{
		Id:        id,
		Archetype: archetype,
	}
	archetype.refs.Put(id, weak.Make(ref))

	return ref
}

// ResolveEntityRef returns the current id of the referenced entity, or
// (0, false) when the ref is nil or its entity was deleted.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches ref from its entity without deleting the entity.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if !ref.Alive() {
		return false
	}

	if archetype := s.archetypes[ref.Id.ArchetypeId()]; archetype != nil {
		archetype.refs.Del(ref.Id)
	}

	ref.Id = 0
	ref.Archetype = nil
	return true
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetypeId := hashTypesToUint32(types)
	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		archetype.seq = s.nextSeq
		s.nextSeq++
		s.archetypes[archetypeId] = archetype
	}
	return archetype
}

// Archetypes returns all archetypes in the order they were created. Ids are
// hashes and carry no order of their own.
func (s *Storage) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, len(s.archetypes))
	for _, archetype := range s.archetypes {
		out = append(out, archetype)
	}
	slices.SortFunc(out, func(a, b *Archetype) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	archetype := s.archetypeFor(extractComponentTypes(components))
	return NewEntityId(archetype.id, archetype.Spawn(components))
}

// Delete removes the entity. Unknown or already deleted ids are ignored.
func (s *Storage) Delete(id EntityId) {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return
	}
	archetype.Delete(id.Index())
}

// Alive reports whether id names a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.Contains(id.Index())
}

// move respawns the entity's components (minus drop, plus add) into the
// matching archetype and carries its EntityRef along.
func (s *Storage) move(id EntityId, drop reflect.Type, add any) EntityId {
	oldArchetype := s.archetypes[id.ArchetypeId()]

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	components := make([]any, 0, len(oldArchetype.types)+1)
	for _, typ := range oldArchetype.types {
		if typ == drop {
			continue
		}
		newTypes = append(newTypes, typ)
		components = append(components, oldArchetype.GetComponent(id.Index(), typ))
	}
	if add != nil {
		newTypes = append(newTypes, componentType(add))
		components = append(components, add)
	}

	weakPtr, hasRef := oldArchetype.refs.Get(id)
	if hasRef {
		oldArchetype.refs.Del(id)
	}

	if len(newTypes) == 0 {
		if ref := weakPtr.Value(); hasRef && ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		oldArchetype.Delete(id.Index())
		return 0
	}

	sortTypes(newTypes)
	newArchetype := s.archetypeFor(newTypes)
	newId := NewEntityId(newArchetype.id, newArchetype.Spawn(components))

	if ref := weakPtr.Value(); hasRef && ref != nil {
		ref.Id = newId
		ref.Archetype = newArchetype
		newArchetype.refs.Put(newId, weakPtr)
	}

	oldArchetype.Delete(id.Index())
	return newId
}

// AddComponent attaches component to the entity and returns its new id. If
// the entity already carries that type the value is replaced in place.
// Returns 0 if the entity does not exist.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	if !s.Alive(id) {
		return 0
	}

	compType := componentType(component)
	if existing := s.GetComponent(id, compType); existing != nil {
		reflect.ValueOf(existing).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return id
	}

	return s.move(id, nil, component)
}

// RemoveComponent detaches compType and returns the entity's new id. An
// entity left without components is deleted and 0 is returned.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	if !s.Alive(id) {
		return 0
	}
	if !s.HasComponent(id, compType) {
		return id
	}
	return s.move(id, compType, nil)
}

// GetComponent returns a pointer to the entity's component, or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id.Index(), compType)
}

// ComponentTypes lists a live entity's component types in archetype order.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Contains(id.Index()) {
		return nil
	}
	return archetype.Types()
}

// HasComponent checks if a live entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Contains(id.Index()) {
		return false
	}
	return archetype.HasComponent(compType)
}

// Compact packs every archetype. EntityRefs survive, raw ids do not.
func (s *Storage) Compact() {
	for _, archetype := range s.archetypes {
		archetype.Compact()
	}
}

func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// extractComponentTypes returns the sorted component types of components.
// Components are values (structs or named primitives); pointers to them are
// accepted and dereferenced.
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		switch t.Kind() {
		case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
			panic("components cannot be pointers, maps, channels, or functions")
		}
		types = append(types, t)
	}
	sortTypes(types)
	return types
}

// eface mirrors the runtime layout of an interface value.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// dataPointer returns the data word of an interface holding a pointer.
func dataPointer(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

// hashTypesToUint32 hashes a sorted slice of types with FNV-1a over the
// runtime type pointers.
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261
	const prime uint32 = 16777619

	for _, t := range types {
		ptr := uintptr(dataPointer(t))
		h ^= uint32(ptr) ^ uint32(uint64(ptr)>>32)
		h *= prime
	}

	return h
}

// ComponentReader is anything that can look up entity components.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T component, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
