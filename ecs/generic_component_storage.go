package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry maps component types to their column factories. Each
// Storage owns one registry, so independent worlds never share columns.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers T so entities can carry it. Registering the
// same type twice is a no-op.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	if _, ok := r.factories[t]; ok {
		return
	}
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const blockSize = 64

// genericComponentStorage stores T values in fixed-size blocks so pointers
// handed out by Get stay valid while the column grows.
type genericComponentStorage[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *genericComponentStorage[T]) locate(index int) (int, int, bool) {
	if index < 0 || index >= cs.nextIndex {
		return 0, 0, false
	}
	return index / blockSize, index % blockSize, true
}

// Append stores item (a T or *T) and returns its slot, reusing freed slots
// first. Returns -1 when item has the wrong type.
func (cs *genericComponentStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/blockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, new([blockSize]T))
			cs.filled = append(cs.filled, new([blockSize]bool))
		}
	}

	b, s := index/blockSize, index%blockSize
	cs.blocks[b][s] = value
	cs.filled[b][s] = true
	cs.count++
	return index
}

// Get returns a *T for the slot, or nil if the slot is empty.
func (cs *genericComponentStorage[T]) Get(index int) any {
	b, s, ok := cs.locate(index)
	if !ok || !cs.filled[b][s] {
		return nil
	}
	return &cs.blocks[b][s]
}

// Delete zeroes the slot and puts it on the free list.
func (cs *genericComponentStorage[T]) Delete(index int) {
	b, s, ok := cs.locate(index)
	if !ok || !cs.filled[b][s] {
		return
	}
	var zero T
	cs.blocks[b][s] = zero
	cs.filled[b][s] = false
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
}

func (cs *genericComponentStorage[T]) Has(index int) bool {
	b, s, ok := cs.locate(index)
	return ok && cs.filled[b][s]
}

// Len returns the number of occupied slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Compact packs occupied slots to the front and returns old->new indices.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	moved := make(map[int]int, cs.count)

	blocks := make([]*[blockSize]T, 0, (cs.count+blockSize-1)/blockSize)
	filled := make([]*[blockSize]bool, 0, cap(blocks))

	write := 0
	for read := range cs.Iter() {
		if write/blockSize >= len(blocks) {
			blocks = append(blocks, new([blockSize]T))
			filled = append(filled, new([blockSize]bool))
		}
		rb, rs := read/blockSize, read%blockSize
		wb, ws := write/blockSize, write%blockSize
		blocks[wb][ws] = cs.blocks[rb][rs]
		filled[wb][ws] = true
		moved[read] = write
		write++
	}

	cs.blocks = blocks
	cs.filled = filled
	cs.freeSlots = nil
	cs.nextIndex = write
	cs.count = write
	return moved
}

// Iter yields occupied slot indices in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			if cs.filled[i/blockSize][i%blockSize] && !yield(i) {
				return
			}
		}
	}
}
