package ecs

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ashfall-games/ecscore/internal/core/observability/log"
)

// Priority orders systems within a phase. Two reserved values pin a
// system to the calling goroutine instead of the thread pool:
// EarlyMainThread runs before every other bucket in the phase,
// LateMainThread runs after every other bucket, both in registration
// order. Everything else fans out through the ThreadPool, highest
// priority first, with a barrier between each distinct priority value.
type Priority int32

const (
	EarlyMainThread Priority = 1<<31 - 1
	LateMainThread  Priority = -(1 << 31)
	Default         Priority = 0
)

type registeredSystem struct {
	priority Priority
	startup  func(Command, Queryer)
	update   func(Command, Queryer, float64)
	shutdown func(Command, Queryer)
}

// systemList keeps registeredSystem values bucketed by Priority while
// preserving registration order within a bucket — a plain map keyed by
// priority plus a maintained sorted slice of distinct priorities, rather
// than a heap-based priority queue: a heap does not guarantee
// insertion-order stability among equal-priority entries, and stable
// ordering for equal priority is a hard invariant here.
type systemList struct {
	buckets    map[Priority][]registeredSystem
	priorities []Priority
}

func newSystemList() *systemList {
	return &systemList{buckets: make(map[Priority][]registeredSystem)}
}

func (l *systemList) add(s registeredSystem) {
	if _, ok := l.buckets[s.priority]; !ok {
		l.priorities = append(l.priorities, s.priority)
		sort.Slice(l.priorities, func(i, j int) bool { return l.priorities[i] > l.priorities[j] })
	}
	l.buckets[s.priority] = append(l.buckets[s.priority], s)
}

// runPhase executes a system list bucket by bucket, highest priority
// first. EarlyMainThread and LateMainThread run sequentially on the
// calling goroutine in registration order; every other bucket fans out
// through the ThreadPool with a barrier before the next bucket starts.
// A faulting system aborts only its own task; sibling tasks in the same
// bucket still run to completion, and every faulting system's error is
// logged and joined (via errors.Join) into the phase's returned error —
// not just the first one.
func runPhase(w *World, list *systemList, run func(registeredSystem) error) error {
	var joined error
	for _, priority := range list.priorities {
		bucket := list.buckets[priority]

		if priority == EarlyMainThread || priority == LateMainThread {
			for _, s := range bucket {
				if err := runGuarded(w, s, run); err != nil {
					joined = errors.Join(joined, err)
				}
			}
			continue
		}

		var mu sync.Mutex
		var bucketErr error
		tasks := make([]func() error, len(bucket))
		for i, s := range bucket {
			s := s
			tasks[i] = func() error {
				err := runGuarded(w, s, run)
				if err != nil {
					mu.Lock()
					bucketErr = errors.Join(bucketErr, err)
					mu.Unlock()
				}
				return err
			}
		}
		w.pool.RunBucket(tasks)
		if bucketErr != nil {
			joined = errors.Join(joined, bucketErr)
		}
	}
	return joined
}

func runGuarded(w *World, s registeredSystem, run func(registeredSystem) error) error {
	stop := w.metrics.startTimer(s.priority)
	err := run(s)
	stop(err != nil)
	if err != nil {
		w.log.Error("system faulted", log.Int("priority", int(s.priority)), log.Error(err))
		return fmt.Errorf("ecs: system at priority %d: %w", s.priority, err)
	}
	return nil
}
