package ecs

// Command is the write-side facade a system receives each call: spawn
// and kill entities, attach/modify/detach components, and add/set/remove
// resources. Every mutation that could invalidate an in-flight Queryer
// (killing an entity, detaching a component) is either hidden from
// queries immediately and reaped later, or queued outright — never
// applied in a way that could yank a slice out from under a concurrently
// running sibling system.
type Command struct {
	world *World
}

// SpawnOption applies one component to a newly spawned entity. Go has no
// variadic type parameters, so Spawn takes a list of options instead of
// a type-parameter pack — With[T](v) attaches a value, WithDefault[T]()
// reserves a slot for later Modify.
type SpawnOption func(*World, Handle)

// With attaches component value v to the entity being spawned.
func With[T any](v T) SpawnOption {
	return func(w *World, h Handle) {
		getOrCreateStorage[T](w.storage).attachWith(h, v)
	}
}

// WithDefault reserves a slot for component T on the entity being
// spawned without materializing a value, mirroring spawn<C...>() in the
// original API (attach with no constructor argument).
func WithDefault[T any]() SpawnOption {
	return func(w *World, h Handle) {
		getOrCreateStorage[T](w.storage).attach(h)
	}
}

// Spawn allocates a new entity and applies every option to it.
func (c Command) Spawn(opts ...SpawnOption) Handle {
	h := c.world.handles.spawn()
	for _, opt := range opts {
		opt(c.world, h)
	}
	return h
}

// Kill marks an entity dead: it is removed from the living set
// immediately, so no query issued after this call observes it, but its
// components and slot index are not reclaimed until the next gc_tick
// drain.
func (c Command) Kill(h Handle) {
	c.world.handles.remove(h)
	c.world.deferredMu.Lock()
	c.world.pendingDestroy = append(c.world.pendingDestroy, h)
	c.world.deferredMu.Unlock()
}

// KillAll kills every handle in hs.
func (c Command) KillAll(hs []Handle) {
	for _, h := range hs {
		c.Kill(h)
	}
}

// Attach reserves a slot for component T on h without a value. Silent
// no-op if h already has an entry for T.
func Attach[T any](c Command, h Handle) {
	getOrCreateStorage[T](c.world.storage).attach(h)
}

// AttachWith attaches component value v to h. Silent no-op if h already
// has an entry for T — first writer wins within a tick.
func AttachWith[T any](c Command, h Handle, v T) {
	getOrCreateStorage[T](c.world.storage).attachWith(h, v)
}

// Modify overwrites h's existing entry for T with v, materializing a
// slot that was reserved via Attach but never written. Silent no-op if
// h has no entry for T at all.
func Modify[T any](c Command, h Handle, v T) {
	getOrCreateStorage[T](c.world.storage).modify(h, v)
}

// Detach removes h's entry for T from queries immediately and queues
// its destructor and deallocation for the next gc_tick drain. Silent
// no-op if h has no entry for T.
func Detach[T any](c Command, h Handle) {
	thunk := getOrCreateStorage[T](c.world.storage).detachDeferred(h)
	if thunk == nil {
		return
	}
	c.world.deferredMu.Lock()
	c.world.pendingComponents = append(c.world.pendingComponents, thunk)
	c.world.deferredMu.Unlock()
}

// AddResource installs v as the resource value for R if none exists yet.
// Silent no-op if R already has a resource installed.
func AddResource[R any](c Command, v R) {
	addResource(c.world.resources, v)
	registerAssetResource(c.world, v)
}

// AddResourceDefault installs the zero value of R as its resource value
// if none exists yet, mirroring the value-less add<Resources...>()
// overload from the original API.
func AddResourceDefault[R any](c Command) {
	var zero R
	AddResource(c, zero)
}

// SetResource overwrites the resource value for R. Silent no-op if R has
// no resource installed yet — set never creates a resource, it only
// updates one Add/AddDefault already installed.
func SetResource[R any](c Command, v R) {
	if setResource(c.world.resources, v) {
		registerAssetResource(c.world, v)
	}
}

// RemoveResource drops the resource value for R. Silent no-op if absent.
func RemoveResource[R any](c Command) {
	removeResource[R](c.world.resources)
}

// RegisterAllocator installs a custom Allocator for component/resource
// type T. It must be called before T's storage is first touched by
// Attach/AttachWith/Spawn — once storage exists the call is a no-op.
func RegisterAllocator[T any](c Command, alloc Allocator[T]) {
	registerAllocator[T](c.world.storage, alloc)
}

func registerAssetResource[R any](w *World, v R) {
	if asset, ok := any(v).(AssetResource); ok {
		w.assets.Register(asset.KeyType(), v)
	}
}
