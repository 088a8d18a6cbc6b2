package ecs

import (
	"reflect"
	"unsafe"
)

// singletonEntry owns one heap-allocated singleton value. dataPtr never
// changes for the life of the storage, so accessors may cache it.
type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// AddSingleton stores value as the singleton of its type. An existing
// singleton of that type is overwritten in place.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	v := reflect.Indirect(reflect.ValueOf(value))

	if entry, ok := s.singletons[t]; ok {
		reflect.NewAt(t, entry.dataPtr).Elem().Set(v)
		return
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	s.singletons[t] = &singletonEntry{typ: t, dataPtr: ptr.UnsafePointer()}
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton points *target at the singleton of type T, where target is
// a **T. Returns false and leaves target alone if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Pointer {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	t := rv.Elem().Type().Elem()
	entry := s.singletons[t]
	if entry == nil {
		return false
	}

	rv.Elem().Set(reflect.NewAt(t, entry.dataPtr))
	return true
}

// Singleton provides cached access to a component that belongs to no
// entity: tick-scoped queues, counters and other world-wide state.
type Singleton[T any] struct {
	storage      *Storage
	componentPtr unsafe.Pointer
}

// NewSingleton returns an accessor for T, creating the singleton from
// initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if storage.getSingletonEntry(reflect.TypeFor[T]()) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to storage. The Scheduler calls this for every
// Singleton field of a registered system.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentPtr = nil
	s.updateCache()
}

// Get returns the singleton, or nil if it has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return (*T)(s.componentPtr)
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(reflect.TypeFor[T]()); entry != nil {
		s.componentPtr = entry.dataPtr
	}
}

// Exists reports whether the singleton has been added to storage.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
