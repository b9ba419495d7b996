package ecs

import "sync"

// slot holds one entity's component entry. value is nil until the
// component is materialized: attach-without-a-value leaves a slot with
// materialized=false until something writes through it.
type slot[T any] struct {
	value       *T
	materialized bool
}

// typeStorage is the sparse-map-per-type block for one component type T.
// It is deliberately not an archetype/SoA table: a map keyed by Handle is
// the simplest data-oriented structure that gives O(1) attach/get/detach
// without committing to a fixed column layout per archetype.
type typeStorage[T any] struct {
	mu      sync.RWMutex
	entries map[Handle]*slot[T]
	alloc   Allocator[T]
	destroy Destructor
}

func newTypeStorage[T any](alloc Allocator[T]) *typeStorage[T] {
	return &typeStorage[T]{
		entries: make(map[Handle]*slot[T]),
		alloc:   alloc,
		destroy: destructorFor[T](),
	}
}

func (s *typeStorage[T]) attach(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[h]; ok {
		return // silent no-op: already attached
	}
	s.entries[h] = &slot[T]{}
}

func (s *typeStorage[T]) attachWith(h Handle, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[h]; ok {
		return // silent no-op: first writer wins, same as bare attach
	}
	value := s.alloc.Get()
	*value = v
	s.entries[h] = &slot[T]{value: value, materialized: true}
}

// modify overwrites an existing entry's value, materializing it if the
// entry was reserved but not yet written. It is a silent no-op if the
// entity has no entry for T.
func (s *typeStorage[T]) modify(h Handle, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[h]
	if !ok {
		return
	}
	if entry.value == nil {
		entry.value = s.alloc.Get()
	}
	*entry.value = v
	entry.materialized = true
}

// get returns a pointer to h's entry for T, materializing a
// reserved-but-unwritten slot on first read via the allocator's default
// construction (attach reserves a slot; get is what actually constructs
// it, matching original_source/include/command.hpp's get_impl). Returns
// ErrComponentNotFound if h has no entry for T at all, and
// ErrComponentNotDefault if the entry needs materializing and the
// storage's allocator declines to produce a value — the case a custom,
// fixed-capacity Allocator hits when it is out of room.
func (s *typeStorage[T]) get(h Handle) (*T, error) {
	s.mu.RLock()
	entry, ok := s.entries[h]
	if ok && entry.materialized {
		v := entry.value
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()
	if !ok {
		return nil, ErrComponentNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok = s.entries[h]
	if !ok {
		return nil, ErrComponentNotFound
	}
	if entry.materialized {
		return entry.value, nil
	}
	value := s.alloc.Get()
	if value == nil {
		return nil, ErrComponentNotDefault
	}
	entry.value = value
	entry.materialized = true
	return entry.value, nil
}

func (s *typeStorage[T]) has(h Handle) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[h]
	return ok
}

// detachDeferred removes the entry immediately — so it is invisible to
// every query issued from this point on — and returns a thunk that runs
// the type's destructor and releases the value back to the allocator.
// The thunk is nil if h had no entry, or if its entry was reserved but
// never materialized, so there is no value to destroy. Callers queue the
// thunk for gc_tick to run later, matching original_source/world.cpp's
// pending_components_ split between "erase now" and "destroy later".
func (s *typeStorage[T]) detachDeferred(h Handle) func() {
	s.mu.Lock()
	entry, ok := s.entries[h]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.entries, h)
	s.mu.Unlock()

	if entry.value == nil {
		return nil
	}
	return func() {
		s.destroy(*entry.value)
		s.alloc.Put(entry.value)
	}
}

// detachReap removes the entry for h, if any, and immediately destroys
// and deallocates its value. Used only during the whole-entity reap at
// gc_tick, which — per original_source/world.cpp's update_garbage_collect
// — destroys a killed entity's remaining components inline rather than
// queueing them.
func (s *typeStorage[T]) detachReap(h Handle) {
	s.mu.Lock()
	entry, ok := s.entries[h]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.entries, h)
	s.mu.Unlock()

	if entry.value == nil {
		return
	}
	s.destroy(*entry.value)
	s.alloc.Put(entry.value)
}

// storageRegistry is the type-erased table of per-type storage blocks,
// keyed by TypeID. Access is two-tiered: the outer mutex guards the map
// of storage blocks themselves (touched only when a component type is
// seen for the first time), while each typeStorage[T] guards its own
// entries independently so unrelated component types never contend.
type storageRegistry struct {
	mu         sync.RWMutex
	byType     map[TypeID]any
	allocators map[TypeID]any
	reapers    map[TypeID]func(Handle)
}

func newStorageRegistry() *storageRegistry {
	return &storageRegistry{
		byType:     make(map[TypeID]any),
		allocators: make(map[TypeID]any),
		reapers:    make(map[TypeID]func(Handle)),
	}
}

// registerAllocator installs a custom allocator for T before its storage
// block exists. It is a no-op once storage for T has already been
// created — allocators are fixed at first use, not swappable afterward.
func registerAllocator[T any](r *storageRegistry, alloc Allocator[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := TypeOf[T]()
	if _, ok := r.byType[id]; ok {
		return
	}
	r.allocators[id] = alloc
}

func getOrCreateStorage[T any](r *storageRegistry) *typeStorage[T] {
	id := TypeOf[T]()

	r.mu.RLock()
	if existing, ok := r.byType[id]; ok {
		r.mu.RUnlock()
		return existing.(*typeStorage[T])
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byType[id]; ok {
		return existing.(*typeStorage[T])
	}

	var alloc Allocator[T]
	if boxed, ok := r.allocators[id]; ok {
		alloc = boxed.(Allocator[T])
	} else {
		alloc = newPoolAllocator[T]()
	}

	storage := newTypeStorage[T](alloc)
	r.byType[id] = storage
	r.reapers[id] = storage.detachReap
	return storage
}

// lookupStorage returns the storage block for T without creating one; ok
// is false if nothing in this world has created T's storage yet.
func lookupStorage[T any](r *storageRegistry) (*typeStorage[T], bool) {
	id := TypeOf[T]()
	r.mu.RLock()
	defer r.mu.RUnlock()
	existing, ok := r.byType[id]
	if !ok {
		return nil, false
	}
	return existing.(*typeStorage[T]), true
}

// reapAll destroys and removes h's entry from every component type
// storage has ever seen. Called by gc_tick when a killed entity is
// finally reaped.
func (r *storageRegistry) reapAll(h Handle) {
	r.mu.RLock()
	reapers := make([]func(Handle), 0, len(r.reapers))
	for _, d := range r.reapers {
		reapers = append(reapers, d)
	}
	r.mu.RUnlock()

	for _, d := range reapers {
		d(h)
	}
}
