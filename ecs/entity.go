package ecs

// EntityId packs the archetype ID into the upper 32 bits and the slot index
// into the lower 32 bits. Slots are reused after deletion, so a stored
// EntityId may later name a different entity; hold an EntityRef for anything
// that outlives the current tick.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and slot index
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// EntityRef is a non-owning handle to an entity. It follows the entity when
// it moves between archetypes or is compacted, and is zeroed when the entity
// is deleted. Resolve it with Storage.ResolveEntityRef; a dangling ref
// resolves to (0, false).
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Alive reports whether the referenced entity still exists.
func (r *EntityRef) Alive() bool {
	return r != nil && r.Id != 0
}
