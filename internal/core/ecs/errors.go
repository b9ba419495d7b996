package ecs

import "errors"

// Sentinel errors for faulting reads: lookups that fail outright rather
// than being absorbed as a silent no-op. Silent no-ops (attach-existing,
// detach/remove/kill-absent, modify-missing, add-existing) never produce
// an error value; they are encoded as early returns in command.go and
// resource.go instead.
var (
	// ErrStorageNotFound is returned by Get[T] when no storage block for T
	// exists yet: nothing in this world has attached, modified or detached
	// a T.
	ErrStorageNotFound = errors.New("ecs: no storage registered for component type")

	// ErrComponentNotFound is returned by Get[T] when the entity has no
	// entry for T at all (never attached, or already detached).
	ErrComponentNotFound = errors.New("ecs: component not present on entity")

	// ErrComponentNotDefault is returned by Get[T] when an attach-without-
	// value left a null entry and the storage's allocator declines to
	// default-construct one on read (a fixed-capacity custom allocator
	// that is out of room, for example).
	ErrComponentNotDefault = errors.New("ecs: component entry is unmaterialized and allocator declined to construct one")

	// ErrHandleStale is returned by Queryer.CheckStale when a handle's
	// generation no longer matches the live generation for its index — a
	// debug-mode check for catching stale-handle bugs at the contract
	// boundary.
	ErrHandleStale = errors.New("ecs: stale entity handle")

	// ErrSchedulerShuttingDown is returned by World.Update/World.Startup
	// once Shutdown has completed.
	ErrSchedulerShuttingDown = errors.New("ecs: world is shutting down")

	// ErrResourceNotFound is internal-use only: Find[R] reports a miss by
	// returning the zero value and false, never this error. MustFind[R]
	// panics with it when Find comes back false, so the panic value names
	// the resource-domain failure distinctly from a component-domain one.
	ErrResourceNotFound = errors.New("ecs: resource not installed")
)
