package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityIdType = reflect.TypeFor[EntityId]()

// viewField describes one field of a view struct.
type viewField struct {
	typ      reflect.Type
	offset   uintptr
	optional bool
	entityId bool
}

// View matches entities by component set. T is a struct whose fields are
// pointers to component types, optionally plus an EntityId field that
// receives the id of the matched entity. Embedded fields are required;
// named fields may be tagged `ecs:"optional"` and are nil when missing.
//
//	ecs.NewView[struct {
//		ecs.EntityId
//		*Transform
//		Sprite *Sprite `ecs:"optional"`
//	}](storage)
type View[T any] struct {
	storage *Storage
	fields  []viewField
}

// NewView creates a view for the struct type T. Panics on malformed T.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	fields := make([]viewField, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			fields = append(fields, viewField{offset: field.Offset, entityId: true})
			continue
		}

		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types or ecs.EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}

		fields = append(fields, viewField{
			typ:      field.Type.Elem(),
			offset:   field.Offset,
			optional: optional,
		})
	}

	return &View[T]{
		storage: storage,
		fields:  fields,
	}
}

// Fill populates *ptr for the entity. Returns false if the entity is gone
// or lacks a required component.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Contains(id.Index()) {
		return false
	}
	if !v.matchesArchetype(archetype) {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), archetype, int(id.Index()), v.columns(archetype))
}

// Get returns the view struct for the entity, or nil if it does not match.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef is Get through an EntityRef; a dangling ref yields nil.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for _, f := range v.fields {
		if f.entityId || f.optional {
			continue
		}
		if !archetype.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

// columns maps each view field to its column in archetype, -1 if absent.
func (v *View[T]) columns(archetype *Archetype) []int {
	cols := make([]int, len(v.fields))
	for i, f := range v.fields {
		cols[i] = -1
		if !f.entityId {
			cols[i] = archetype.column(f.typ)
		}
	}
	return cols
}

func (v *View[T]) populate(resultPtr unsafe.Pointer, archetype *Archetype, entityIndex int, cols []int) bool {
	for i, f := range v.fields {
		fieldPtr := unsafe.Add(resultPtr, f.offset)

		if f.entityId {
			*(*EntityId)(fieldPtr) = NewEntityId(archetype.id, uint32(entityIndex))
			continue
		}

		var component any
		if cols[i] != -1 {
			component = archetype.storages[cols[i]].Get(entityIndex)
		}
		if component == nil {
			if !f.optional {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		*(*unsafe.Pointer)(fieldPtr) = dataPointer(component)
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(EntityId, T) bool) bool {
	if len(archetype.storages) == 0 {
		return true
	}

	cols := v.columns(archetype)
	var result T
	resultPtr := unsafe.Pointer(&result)

	for entityIndex := range archetype.storages[0].Iter() {
		if !v.populate(resultPtr, archetype, entityIndex, cols) {
			continue
		}
		if !yield(NewEntityId(archetype.id, uint32(entityIndex)), result) {
			return false
		}
	}
	return true
}

// Iter yields every matching entity, archetypes in creation order and
// entities in slot order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.Archetypes() {
			if !v.matchesArchetype(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

// Values is Iter without the ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// First returns the first matching entity in Iter order.
func (v *View[T]) First() (EntityId, T, bool) {
	for id, value := range v.Iter() {
		return id, value, true
	}
	var zero T
	return 0, zero, false
}
