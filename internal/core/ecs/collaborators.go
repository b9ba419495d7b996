package ecs

import (
	"github.com/ashfall-games/ecscore/pkg/concurrent"
	"github.com/ashfall-games/ecscore/pkg/generic"
	"github.com/ashfall-games/ecscore/pkg/sequence"
)

// Allocator is the pooled-allocator abstraction component storage consumes.
// The world's default allocator for a type is a sync.Pool-backed pool (see
// newPoolAllocator); hosts that need bespoke pooling (arena allocators,
// fixed-size slabs) can install their own with RegisterAllocator before the
// type's storage is first touched.
type Allocator[T any] interface {
	Get() *T
	Put(*T)
}

// Destructor is the type-erased destructor thunk run per component type
// before an instance returns to the allocator: a function that releases
// whatever the instance holds before its memory returns to the allocator.
// Most Go components need no explicit destructor; destructorFor only calls
// through when the concrete type opts in via the Destroyer interface.
type Destructor func(any)

// Destroyer is the optional interface a component type implements when it
// owns a resource (a file handle, a native buffer) that must be released
// before the component is pooled or dropped.
type Destroyer interface {
	Destroy()
}

func destructorFor[T any]() Destructor {
	return func(v any) {
		if d, ok := v.(Destroyer); ok {
			d.Destroy()
		}
	}
}

type poolAllocator[T any] struct {
	pool *generic.Pool[*T]
}

func newPoolAllocator[T any]() Allocator[T] {
	return &poolAllocator[T]{
		pool: generic.NewPool(func() *T { return new(T) }),
	}
}

func (p *poolAllocator[T]) Get() *T {
	return p.pool.Get()
}

func (p *poolAllocator[T]) Put(v *T) {
	var zero T
	*v = zero
	p.pool.Put(v)
}

// ThreadPool is the collaborator the scheduler dispatches one priority
// bucket's systems through: it submits every system in the bucket and
// blocks until all of them have completed. The default implementation fans
// out with errgroup through pkg/concurrent.Concurrent, the same submit-and-
// await-all shape it uses for any other iterator of work.
type ThreadPool interface {
	RunBucket(tasks []func() error) error
}

type errgroupThreadPool struct{}

// NewThreadPool returns the default ThreadPool: one errgroup per bucket,
// fanned out over pkg/concurrent.
func NewThreadPool() ThreadPool {
	return errgroupThreadPool{}
}

func (errgroupThreadPool) RunBucket(tasks []func() error) error {
	return concurrent.Concurrent(sequence.From(tasks), func(task func() error) error {
		return task()
	})
}

// AssetResource is the marker interface a resource type implements to be
// recognized by the (optional) asset hub integration: it exposes the key
// and proxy type names the hub's library<T>/table<T> registration needs.
// No component in this module implements it; the hook exists so a host
// that does have an asset subsystem can plug it in without touching
// command.go.
type AssetResource interface {
	KeyType() string
	ProxyType() string
}

// AssetHub is the narrow, opaque sink the command facade reports
// asset-recognized resources to. The core never depends on a concrete
// asset/library/table implementation; it only ever calls this interface.
type AssetHub interface {
	Register(resourceName string, handle any) bool
}

type nilAssetHub struct{}

func (nilAssetHub) Register(string, any) bool { return false }
