package ecs

import "sync"

// resourceBox holds one singleton resource instance behind its own
// mutex, mirroring typeStorage's per-type locking so unrelated resources
// never contend with each other.
type resourceBox struct {
	mu    sync.RWMutex
	value any
}

// resourceRegistry is the singleton-per-type store, distinct from
// per-entity component storage: one value per TypeID, no Handle
// dimension at all.
type resourceRegistry struct {
	mu    sync.RWMutex
	boxes map[TypeID]*resourceBox
}

func newResourceRegistry() *resourceRegistry {
	return &resourceRegistry{boxes: make(map[TypeID]*resourceBox)}
}

func (r *resourceRegistry) boxFor(id TypeID) *resourceBox {
	r.mu.RLock()
	if b, ok := r.boxes[id]; ok {
		r.mu.RUnlock()
		return b
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.boxes[id]; ok {
		return b
	}
	b := &resourceBox{}
	r.boxes[id] = b
	return b
}

// add installs v as the resource value for R if none exists yet. It is a
// silent no-op if R already has a resource installed.
func addResource[R any](r *resourceRegistry, v R) {
	b := r.boxFor(TypeOf[R]())
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.value != nil {
		return
	}
	b.value = v
}

// set overwrites the resource value for R and reports whether it did.
// Silent no-op if R has no resource installed yet — set never creates,
// only Add/AddDefault do.
func setResource[R any](r *resourceRegistry, v R) bool {
	r.mu.RLock()
	b, ok := r.boxes[TypeOf[R]()]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.value == nil {
		return false
	}
	b.value = v
	return true
}

// find returns the resource value for R and whether it was present.
func findResource[R any](r *resourceRegistry) (R, bool) {
	r.mu.RLock()
	b, ok := r.boxes[TypeOf[R]()]
	r.mu.RUnlock()
	if !ok {
		var zero R
		return zero, false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.value == nil {
		var zero R
		return zero, false
	}
	return b.value.(R), true
}

// remove drops the resource value for R. Silent no-op if absent.
func removeResource[R any](r *resourceRegistry) {
	r.mu.RLock()
	b, ok := r.boxes[TypeOf[R]()]
	r.mu.RUnlock()
	if !ok {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = nil
}

// GCEnabled is the reserved garbage_collect.enabled resource. A host sets
// it true to request that the next gc_tick actually drain the kill/detach
// queues; the world resets it to false immediately after every drain, per
// original_source/src/world.cpp's command_attorney::update_garbage_collect.
type GCEnabled struct {
	Enabled bool
}
