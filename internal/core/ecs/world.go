package ecs

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ashfall-games/ecscore/internal/core/observability/interfaces"
	"github.com/ashfall-games/ecscore/internal/core/observability/log"
)

// World owns every piece of ECS state: the entity handle allocator,
// per-type component storage, singleton resources, the deferred
// mutation queues Command writes into, and the three system lists run
// by Startup/Update/Shutdown. A World is safe for concurrent use by the
// systems it schedules; it is not safe to call Startup/Update/Shutdown
// concurrently with each other.
type World struct {
	ID uuid.UUID

	handles   *handleAllocator
	storage   *storageRegistry
	resources *resourceRegistry

	deferredMu        sync.Mutex
	pendingComponents []func()
	pendingDestroy    []Handle

	startupSystems  *systemList
	updateSystems   *systemList
	shutdownSystems *systemList

	pool       ThreadPool
	assets     AssetHub
	log        log.Log
	metrics    schedulerMetrics
	shutdownMu sync.Mutex
	shutdown   bool
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WithThreadPool overrides the default errgroup-backed ThreadPool.
func WithThreadPool(pool ThreadPool) WorldOption {
	return func(w *World) { w.pool = pool }
}

// WithAssetHub installs a non-default AssetHub for resource types that
// implement AssetResource.
func WithAssetHub(hub AssetHub) WorldOption {
	return func(w *World) { w.assets = hub }
}

// WithLogger overrides the default logger.
func WithLogger(l log.Log) WorldOption {
	return func(w *World) { w.log = l }
}

// WithMetrics installs a MetricsCollector the scheduler reports per-system
// timers and fault counters to. Omitted by default — the scheduler then
// reports into a nilMetricsCollector and instrumentation costs nothing.
func WithMetrics(collector interfaces.MetricsCollector) WorldOption {
	return func(w *World) { w.metrics = newSchedulerMetrics(collector) }
}

// NewWorld constructs an empty World ready for AddStartup/AddUpdate/
// AddShutdown registrations.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		ID:              uuid.New(),
		handles:         newHandleAllocator(),
		storage:         newStorageRegistry(),
		resources:       newResourceRegistry(),
		startupSystems:  newSystemList(),
		updateSystems:   newSystemList(),
		shutdownSystems: newSystemList(),
		pool:            NewThreadPool(),
		assets:          nilAssetHub{},
		log:             log.New(log.LevelInfo),
		metrics:         newSchedulerMetrics(nil),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With(log.String("world_id", w.ID.String()))
	return w
}

// AddStartup registers a system run exactly once by Startup.
func (w *World) AddStartup(fn func(Command, Queryer), priority Priority) {
	w.startupSystems.add(registeredSystem{priority: priority, startup: fn})
}

// AddUpdate registers a system run once per World.Update call.
func (w *World) AddUpdate(fn func(Command, Queryer, float64), priority Priority) {
	w.updateSystems.add(registeredSystem{priority: priority, update: fn})
}

// AddShutdown registers a system run exactly once by Shutdown.
func (w *World) AddShutdown(fn func(Command, Queryer), priority Priority) {
	w.shutdownSystems.add(registeredSystem{priority: priority, shutdown: fn})
}

// Query returns a fresh Queryer bound to this world's current state.
func (w *World) Query() Queryer {
	return Queryer{world: w}
}

// Command returns a fresh Command bound to this world.
func (w *World) Command() Command {
	return Command{world: w}
}

// Startup runs every registered startup system in priority order, then
// seeds the reserved garbage_collect.enabled resource to false, matching
// original_source/world.cpp's startup_garbage_collect. Returns
// ErrSchedulerShuttingDown without running anything if Shutdown has
// already completed.
func (w *World) Startup() error {
	if w.isShutdown() {
		return ErrSchedulerShuttingDown
	}
	cmd, qry := w.Command(), w.Query()
	err := runPhase(w, w.startupSystems, func(s registeredSystem) error {
		s.startup(cmd, qry)
		return nil
	})
	addResource(w.resources, GCEnabled{Enabled: false})
	return err
}

// Update runs every registered update system once, passing dt, then
// drains both deferred mutation queues iff the garbage_collect.enabled
// resource is true once the systems have run (whether a system or the
// host set it) — neither queue drains on its own. The flag is reset to false immediately after a drain, whether or
// not anything was pending. Returns ErrSchedulerShuttingDown without
// running anything if Shutdown has already completed.
func (w *World) Update(dt float64) error {
	if w.isShutdown() {
		return ErrSchedulerShuttingDown
	}
	cmd, qry := w.Command(), w.Query()
	err := runPhase(w, w.updateSystems, func(s registeredSystem) error {
		s.update(cmd, qry, dt)
		return nil
	})
	w.runGCTick()
	return err
}

func (w *World) isShutdown() bool {
	w.shutdownMu.Lock()
	defer w.shutdownMu.Unlock()
	return w.shutdown
}

// Shutdown runs every registered shutdown system once, then unconditionally
// drains both deferred queues, destroys every living entity together with
// its components, and removes every resource. Calling Shutdown more than
// once is a no-op after the first call.
func (w *World) Shutdown() error {
	w.shutdownMu.Lock()
	if w.shutdown {
		w.shutdownMu.Unlock()
		return nil
	}
	w.shutdown = true
	w.shutdownMu.Unlock()

	cmd, qry := w.Command(), w.Query()
	err := runPhase(w, w.shutdownSystems, func(s registeredSystem) error {
		s.shutdown(cmd, qry)
		return nil
	})
	w.runGCShutdown()
	return err
}

func (w *World) runGCTick() {
	enabled, ok := findResource[GCEnabled](w.resources)
	if !ok {
		addResource(w.resources, GCEnabled{Enabled: false})
		return
	}
	if !enabled.Enabled {
		return
	}
	w.drainPendingComponents()
	w.drainPendingDestroy()
	setResource(w.resources, GCEnabled{Enabled: false})
}

func (w *World) runGCShutdown() {
	w.drainPendingComponents()
	w.drainPendingDestroy()
	for _, h := range w.handles.livingSnapshot() {
		w.storage.reapAll(h)
		w.handles.destroy(h)
	}
	w.resources.mu.Lock()
	w.resources.boxes = make(map[TypeID]*resourceBox)
	w.resources.mu.Unlock()
}

func (w *World) drainPendingComponents() {
	w.deferredMu.Lock()
	thunks := w.pendingComponents
	w.pendingComponents = nil
	w.deferredMu.Unlock()

	for _, thunk := range thunks {
		thunk()
	}
}

func (w *World) drainPendingDestroy() {
	w.deferredMu.Lock()
	dead := w.pendingDestroy
	w.pendingDestroy = nil
	w.deferredMu.Unlock()

	for _, h := range dead {
		w.storage.reapAll(h)
		w.handles.destroy(h)
	}
}

