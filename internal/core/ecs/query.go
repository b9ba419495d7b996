package ecs

import "github.com/ashfall-games/ecscore/pkg/sequence"

// Queryer is the read-side facade a system receives each call. It holds
// no snapshot itself — every AllOf/AnyOf/NonOf call takes a fresh
// point-in-time snapshot of the living set via living(), so two calls on
// the same Queryer value can observe different sets if a concurrent
// sibling system's Kill/Detach ran in between. A single sequence
// returned from one call stays stable for its own iteration; it is
// later calls, not the Queryer value, that see fresh state.
type Queryer struct {
	world *World
}

// Exist reports whether h is currently a living entity.
func (q Queryer) Exist(h Handle) bool {
	return q.world.handles.exists(h)
}

// CheckStale returns ErrHandleStale if h's index has since been
// destroyed and recycled under a new generation, and nil otherwise —
// covering both a still-live handle and one whose index was never
// issued at all. It is a debug-mode generation check for catching
// stale-handle bugs at the contract boundary, kept separate from Exist
// because a caller diagnosing a bug usually wants to know which of the
// two it hit rather than a single collapsed boolean.
func (q Queryer) CheckStale(h Handle) error {
	if q.world.handles.generationOf(h.Index()) != h.Generation() {
		return ErrHandleStale
	}
	return nil
}

// living returns this Queryer's point-in-time snapshot as a lazy
// sequence. Each call takes a fresh snapshot; callers that need a
// single stable view across several predicates should reuse the
// returned iterator rather than calling living twice.
func (q Queryer) living() *sequence.Iterator[Handle] {
	return sequence.From(q.world.handles.livingSnapshot())
}

// AllOf returns every living entity that has an entry for every type in
// types. types are TypeIDs obtained from TypeOf[T](), taken as a slice
// because Go methods cannot themselves be generic over a type-parameter
// pack.
func (q Queryer) AllOf(types ...TypeID) *sequence.Iterator[Handle] {
	checks := q.hasChecks(types)
	return q.living().Filter(func(h Handle) bool {
		for _, has := range checks {
			if !has(h) {
				return false
			}
		}
		return true
	})
}

// AnyOf returns every living entity that has an entry for at least one
// type in types. With no types at all, every living entity matches.
func (q Queryer) AnyOf(types ...TypeID) *sequence.Iterator[Handle] {
	checks := q.hasChecks(types)
	return q.living().Filter(func(h Handle) bool {
		for _, has := range checks {
			if has(h) {
				return true
			}
		}
		return len(checks) == 0
	})
}

// NonOf returns every living entity that has an entry for none of the
// types in types.
func (q Queryer) NonOf(types ...TypeID) *sequence.Iterator[Handle] {
	checks := q.hasChecks(types)
	return q.living().Filter(func(h Handle) bool {
		for _, has := range checks {
			if has(h) {
				return false
			}
		}
		return true
	})
}

// HasAll reports whether h has an entry for every type in types. This is
// the single-handle boolean form of AllOf — AllOf filters the whole
// living set into a lazy sequence of matches, HasAll answers the same
// question for one handle a caller already has in hand.
func (q Queryer) HasAll(h Handle, types ...TypeID) bool {
	for _, has := range q.hasChecks(types) {
		if !has(h) {
			return false
		}
	}
	return true
}

// HasAny reports whether h has an entry for at least one type in types,
// and reports true when types is empty. The single-handle boolean form of
// AnyOf.
func (q Queryer) HasAny(h Handle, types ...TypeID) bool {
	checks := q.hasChecks(types)
	for _, has := range checks {
		if has(h) {
			return true
		}
	}
	return len(checks) == 0
}

// HasNone reports whether h has an entry for none of the types in types.
// The single-handle boolean form of NonOf.
func (q Queryer) HasNone(h Handle, types ...TypeID) bool {
	for _, has := range q.hasChecks(types) {
		if has(h) {
			return false
		}
	}
	return true
}

func (q Queryer) hasChecks(types []TypeID) []func(Handle) bool {
	checks := make([]func(Handle) bool, 0, len(types))
	q.world.storage.mu.RLock()
	defer q.world.storage.mu.RUnlock()
	for _, id := range types {
		boxed, ok := q.world.storage.byType[id]
		if !ok {
			checks = append(checks, func(Handle) bool { return false })
			continue
		}
		hasFn := boxed.(hasser).hasAny
		checks = append(checks, hasFn)
	}
	return checks
}

// hasser is the type-erased view of typeStorage[T].has used by queries
// that only need presence, not the value, and so never need T itself.
type hasser interface {
	hasAny(Handle) bool
}

func (s *typeStorage[T]) hasAny(h Handle) bool { return s.has(h) }

// Get returns a live pointer to h's entry for T, materializing a
// reserved-but-unwritten slot via default construction on first read.
// Mutations through the returned pointer apply directly to storage.
// Returns ErrStorageNotFound if no storage block for T exists in this
// world yet, ErrComponentNotFound if h has no entry for T at all, and
// ErrComponentNotDefault if materializing the slot was needed and the
// storage's allocator declined to produce a value.
func Get[T any](q Queryer, h Handle) (*T, error) {
	storage, ok := lookupStorage[T](q.world.storage)
	if !ok {
		return nil, ErrStorageNotFound
	}
	return storage.get(h)
}

// MustGet returns h's entry for T, panicking with whatever sentinel Get
// would have returned. It exists for call sites that have already
// filtered via AllOf and treat a miss as a programming error rather than
// a runtime condition to branch on.
func MustGet[T any](q Queryer, h Handle) *T {
	v, err := Get[T](q, h)
	if err != nil {
		panic(err)
	}
	return v
}

// Has reports whether h currently has an entry for T (materialized or
// reserved).
func Has[T any](q Queryer, h Handle) bool {
	storage, ok := lookupStorage[T](q.world.storage)
	if !ok {
		return false
	}
	return storage.has(h)
}

// Find returns the resource value of type R, or false if none is
// installed.
func Find[R any](q Queryer) (R, bool) {
	return findResource[R](q.world.resources)
}

// MustFind returns the resource value of type R, panicking if absent.
func MustFind[R any](q Queryer) R {
	v, ok := Find[R](q)
	if !ok {
		panic(ErrResourceNotFound)
	}
	return v
}
