package ecs

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

type position struct{ X, Y float64 }
type velocity struct{ X, Y float64 }

func TestWorld_SpawnWithComponentsIsImmediatelyQueryable(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()

	h := cmd.Spawn(With(position{X: 1, Y: 2}), With(velocity{X: 0, Y: 0}))

	require.True(t, qry.Exist(h))
	pos, err := Get[position](qry, h)
	require.NoError(t, err)
	require.Equal(t, position{X: 1, Y: 2}, *pos)
}

func TestWorld_ModifyOverwritesExistingComponentWithoutFirstReading(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()
	h := cmd.Spawn(With(position{X: 1, Y: 1}))

	Modify(cmd, h, position{X: 9, Y: 9})

	pos, err := Get[position](qry, h)
	require.NoError(t, err)
	require.Equal(t, position{X: 9, Y: 9}, *pos)
}

func TestWorld_KillHidesEntityBeforeGCDrains(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()
	h := cmd.Spawn(With(position{}))

	cmd.Kill(h)

	require.False(t, qry.Exist(h), "killed entity must vanish from queries immediately")
	require.Len(t, w.pendingDestroy, 1, "reap must be deferred to gc_tick")
}

func TestWorld_UpdateDoesNotReapWithoutGCFlag(t *testing.T) {
	w := NewWorld()
	cmd := w.Command()
	h := cmd.Spawn(With(position{}))
	cmd.Kill(h)

	require.NoError(t, w.Update(1.0/60))

	require.Len(t, w.pendingDestroy, 1, "gc_tick must not reap unless garbage_collect.enabled is true")
}

func TestWorld_UpdateReapsAndResetsGCFlagWhenEnabled(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Startup())
	cmd, qry := w.Command(), w.Query()
	h := cmd.Spawn(With(position{}))
	cmd.Kill(h)
	SetResource(cmd, GCEnabled{Enabled: true})

	require.NoError(t, w.Update(1.0/60))

	require.Empty(t, w.pendingDestroy)
	flag, ok := Find[GCEnabled](qry)
	require.True(t, ok)
	require.False(t, flag.Enabled, "gc_tick must reset the flag to false after draining")

	h2 := w.Command().Spawn(With(position{}))
	require.Equal(t, h.Index(), h2.Index(), "reaped index must actually be recycled, not stuck live")
	require.Greater(t, h2.Generation(), h.Generation())
}

func TestWorld_DetachHidesComponentImmediatelyButDeferDestructionUntilGCEnabled(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()
	h := cmd.Spawn(With(position{X: 1}))

	Detach[position](cmd, h)

	_, err := Get[position](qry, h)
	require.ErrorIs(t, err, ErrComponentNotFound)
	require.Len(t, w.pendingComponents, 1)

	require.NoError(t, w.Update(1.0/60))
	require.Len(t, w.pendingComponents, 1, "gc_tick must not drain pendingComponents without garbage_collect.enabled")

	SetResource(cmd, GCEnabled{Enabled: true})
	require.NoError(t, w.Update(1.0/60))
	require.Empty(t, w.pendingComponents)
}

func TestWorld_StartupSeedsGCFlagFalse(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Startup())

	flag, ok := Find[GCEnabled](w.Query())
	require.True(t, ok)
	require.False(t, flag.Enabled)
}

func TestWorld_ShutdownIsIdempotent(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Shutdown())
	require.NoError(t, w.Shutdown())
}

func TestWorld_MustFindPanicsWithErrResourceNotFoundWhenAbsent(t *testing.T) {
	w := NewWorld()
	qry := w.Query()

	require.PanicsWithValue(t, ErrResourceNotFound, func() {
		MustFind[GCEnabled](qry)
	})
}

func TestWorld_StartupAndUpdateRejectedAfterShutdown(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Shutdown())

	require.ErrorIs(t, w.Startup(), ErrSchedulerShuttingDown)
	require.ErrorIs(t, w.Update(1.0/60), ErrSchedulerShuttingDown)
}

func TestWorld_CheckStaleIsNilForLiveHandle(t *testing.T) {
	w := NewWorld()
	h := w.Command().Spawn(With(position{}))

	require.NoError(t, w.Query().CheckStale(h))
}

func TestWorld_CheckStaleDetectsRecycledIndex(t *testing.T) {
	w := NewWorld()
	require.NoError(t, w.Startup())
	cmd, qry := w.Command(), w.Query()
	h := cmd.Spawn(With(position{}))
	cmd.Kill(h)
	SetResource(cmd, GCEnabled{Enabled: true})
	require.NoError(t, w.Update(1.0/60))

	h2 := w.Command().Spawn(With(position{}))
	require.Equal(t, h.Index(), h2.Index())

	require.ErrorIs(t, qry.CheckStale(h), ErrHandleStale)
	require.NoError(t, qry.CheckStale(h2))
}

func TestWorld_ShutdownReapsEverythingUnconditionally(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()
	h := cmd.Spawn(With(position{}))
	cmd.Kill(h)

	require.NoError(t, w.Shutdown())
	require.Empty(t, w.pendingDestroy)
	require.False(t, qry.Exist(h))
}

func TestWorld_QueryAllOfRequiresEveryType(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()

	both := cmd.Spawn(With(position{}), With(velocity{}))
	onlyPos := cmd.Spawn(With(position{}))

	positionID := TypeOf[position]()
	velocityID := TypeOf[velocity]()

	matches := qry.AllOf(positionID, velocityID).Collect()
	require.Contains(t, matches, both)
	require.NotContains(t, matches, onlyPos)
}

func TestWorld_HasAllHasAnyHasNoneAreSingleHandlePredicates(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()

	both := cmd.Spawn(With(position{}), With(velocity{}))
	onlyPos := cmd.Spawn(With(position{}))

	positionID := TypeOf[position]()
	velocityID := TypeOf[velocity]()

	require.True(t, qry.HasAll(both, positionID, velocityID))
	require.False(t, qry.HasAll(onlyPos, positionID, velocityID))

	require.True(t, qry.HasAny(onlyPos, positionID, velocityID))
	require.False(t, qry.HasAny(onlyPos, velocityID))

	require.True(t, qry.HasNone(onlyPos, velocityID))
	require.False(t, qry.HasNone(both, velocityID))
}

func TestWorld_QueryNonOfExcludesAnyMatchingType(t *testing.T) {
	w := NewWorld()
	cmd, qry := w.Command(), w.Query()

	withVelocity := cmd.Spawn(With(position{}), With(velocity{}))
	withoutVelocity := cmd.Spawn(With(position{}))

	velocityID := TypeOf[velocity]()
	matches := qry.NonOf(velocityID).Collect()

	require.NotContains(t, matches, withVelocity)
	require.Contains(t, matches, withoutVelocity)
}

func TestWorld_UpdateRunsSystemsAndAdvancesState(t *testing.T) {
	w := NewWorld()
	positionID := TypeOf[position]()

	w.AddStartup(func(c Command, _ Queryer) {
		c.Spawn(With(position{X: 0, Y: 0}), With(velocity{X: 1, Y: 1}))
	}, Default)
	w.AddUpdate(func(c Command, q Queryer, dt float64) {
		for h := range q.AllOf(positionID, TypeOf[velocity]()).Seq() {
			pos := MustGet[position](q, h)
			vel := MustGet[velocity](q, h)
			pos.X += vel.X * dt
			pos.Y += vel.Y * dt
		}
	}, Default)

	require.NoError(t, w.Startup())
	require.NoError(t, w.Update(2.0))

	qry := w.Query()
	var found *position
	for h := range qry.AllOf(positionID).Seq() {
		found = MustGet[position](qry, h)
	}
	require.Equal(t, position{X: 2, Y: 2}, *found)
}

func TestWorld_EarlyAndLateMainThreadRunSequentiallyAroundConcurrentBucket(t *testing.T) {
	w := NewWorld()
	var order []string
	var mu sync.Mutex
	record := func(name string) {
		mu.Lock()
		order = append(order, name)
		mu.Unlock()
	}

	w.AddUpdate(func(Command, Queryer, float64) { record("early") }, EarlyMainThread)
	w.AddUpdate(func(Command, Queryer, float64) { record("concurrent") }, Default)
	w.AddUpdate(func(Command, Queryer, float64) { record("late") }, LateMainThread)

	require.NoError(t, w.Update(0))

	require.Equal(t, []string{"early", "concurrent", "late"}, order)
}

func TestWorld_FaultingSystemDoesNotStopSiblingsInSameBucket(t *testing.T) {
	w := NewWorld()
	faulting := errors.New("task fault")
	var completed atomic.Int32

	list := newSystemList()
	for i := 0; i < 5; i++ {
		list.add(registeredSystem{priority: Default})
	}

	err := runPhase(w, list, func(registeredSystem) error {
		completed.Add(1)
		return faulting
	})

	require.ErrorIs(t, err, faulting)
	require.Equal(t, int32(5), completed.Load(), "every task in the bucket must run even though each one faults")
}

func TestWorld_RunPhaseJoinsEveryFaultNotJustTheFirst(t *testing.T) {
	w := NewWorld()
	faults := []error{errors.New("fault a"), errors.New("fault b"), errors.New("fault c")}

	list := newSystemList()
	for range faults {
		list.add(registeredSystem{priority: EarlyMainThread})
	}

	var i int
	err := runPhase(w, list, func(registeredSystem) error {
		f := faults[i]
		i++
		return f
	})

	for _, f := range faults {
		require.ErrorIs(t, err, f, "every fault in the phase must be joined into the returned error")
	}
}

func TestWorld_StableOrderWithinEqualPriority(t *testing.T) {
	w := NewWorld()
	var order []int
	var mu sync.Mutex

	for i := 0; i < 5; i++ {
		i := i
		w.AddUpdate(func(Command, Queryer, float64) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}, EarlyMainThread)
	}

	require.NoError(t, w.Update(0))
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestWorld_RegisterAllocatorCustomPoolIsUsedBeforeFirstTouch(t *testing.T) {
	w := NewWorld()
	cmd := w.Command()

	alloc := &countingAllocator[position]{inner: newPoolAllocator[position]()}
	RegisterAllocator[position](cmd, alloc)

	h := cmd.Spawn(With(position{X: 5}))
	require.True(t, alloc.gets > 0)
	require.True(t, w.Query().Exist(h))
}

type countingAllocator[T any] struct {
	inner Allocator[T]
	gets  int
}

func (c *countingAllocator[T]) Get() *T {
	c.gets++
	return c.inner.Get()
}

func (c *countingAllocator[T]) Put(v *T) { c.inner.Put(v) }

func TestWorld_ErrorFromSystemIsWrapped(t *testing.T) {
	sentinel := errors.New("boom")
	w := NewWorld()
	w.AddStartup(func(Command, Queryer) {}, Default)

	err := runPhase(w, w.startupSystems, func(registeredSystem) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}
