package ecs

import "sync"

// handleAllocator issues and recycles entity handles. It is the only piece
// of world state touched by both Command writers and Queryer readers on
// every tick, so it is guarded by a single RWMutex rather than split across
// several narrower locks: freeIndices, generations, and living all need to
// move together, and one mutex is the simplest discipline that keeps them
// atomic as a group.
type handleAllocator struct {
	mu          sync.RWMutex
	generations []uint32
	freeIndices []uint32
	living      map[Handle]struct{}
}

func newHandleAllocator() *handleAllocator {
	return &handleAllocator{
		// index 0 is never issued: seed one sentinel generation slot.
		generations: []uint32{0},
		living:      make(map[Handle]struct{}),
	}
}

// spawn allocates a handle, recycling a free index when one exists.
// Generation is not bumped here; it is bumped only on destroy.
func (a *handleAllocator) spawn() Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	var index uint32
	if n := len(a.freeIndices); n > 0 {
		index = a.freeIndices[n-1]
		a.freeIndices = a.freeIndices[:n-1]
	} else {
		index = uint32(len(a.generations))
		a.generations = append(a.generations, 0)
	}

	h := newHandle(index, a.generations[index])
	a.living[h] = struct{}{}
	return h
}

// destroy bumps the generation for the handle's index and frees the index
// for reuse. It is keyed off the handle's generation rather than living-set
// membership, because Command.Kill already drops h from living the moment
// it is called — by the time gc_tick reaps h here it is long gone from
// living. Checking generation instead makes destroy idempotent against a
// duplicate kill of the same handle queued twice within one tick: the
// second call's generation no longer matches index's current generation
// and is silently dropped.
func (a *handleAllocator) destroy(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()

	index := h.Index()
	if int(index) >= len(a.generations) || a.generations[index] != h.Generation() {
		return
	}
	delete(a.living, h)
	a.generations[index]++
	a.freeIndices = append(a.freeIndices, index)
}

// remove drops h from the living set without destroying storage or
// bumping generations — used by Command.Kill, which must hide the entity
// from queries immediately but defers the actual reap to gc_tick.
func (a *handleAllocator) remove(h Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.living, h)
}

func (a *handleAllocator) exists(h Handle) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.living[h]
	return ok
}

// livingSnapshot copies the current living set so a Queryer's lazy
// sequence stays valid for the duration of one system's execution even if
// Command calls on another goroutine mutate the allocator concurrently.
func (a *handleAllocator) livingSnapshot() []Handle {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Handle, 0, len(a.living))
	for h := range a.living {
		out = append(out, h)
	}
	return out
}

func (a *handleAllocator) generationOf(index uint32) uint32 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if int(index) >= len(a.generations) {
		return 0
	}
	return a.generations[index]
}
