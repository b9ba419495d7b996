package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type demoComponent struct {
	Value int
}

func TestTypeStorage_AttachWithThenGet(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	h := Handle(1)

	s.attachWith(h, demoComponent{Value: 42})
	v, err := s.get(h)
	require.NoError(t, err)
	require.Equal(t, 42, v.Value)
}

func TestTypeStorage_AttachWithIsFirstWriterWins(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	h := Handle(1)

	s.attachWith(h, demoComponent{Value: 1})
	s.attachWith(h, demoComponent{Value: 2})

	v, err := s.get(h)
	require.NoError(t, err)
	require.Equal(t, 1, v.Value, "second attachWith on the same handle must be a no-op")
}

func TestTypeStorage_GetMaterializesReservedSlotViaDefaultConstruction(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	h := Handle(1)

	s.attach(h)
	require.True(t, s.has(h))

	v, err := s.get(h)
	require.NoError(t, err, "get must materialize a reserved-but-unwritten slot, not report it absent")
	require.Equal(t, demoComponent{}, *v, "materialized value must be the allocator's default construction")
}

func TestTypeStorage_ModifyMaterializesReservedSlot(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	h := Handle(1)

	s.attach(h)
	s.modify(h, demoComponent{Value: 7})

	v, err := s.get(h)
	require.NoError(t, err)
	require.Equal(t, 7, v.Value)
}

func TestTypeStorage_ModifyOnMissingEntryIsNoOp(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	require.NotPanics(t, func() { s.modify(Handle(1), demoComponent{Value: 1}) })
	require.False(t, s.has(Handle(1)))
}

func TestTypeStorage_GetOnMissingEntryReturnsComponentNotFound(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	_, err := s.get(Handle(1))
	require.ErrorIs(t, err, ErrComponentNotFound)
}

type exhaustedAllocator[T any] struct{}

func (exhaustedAllocator[T]) Get() *T { return nil }
func (exhaustedAllocator[T]) Put(*T)  {}

func TestTypeStorage_GetReturnsComponentNotDefaultWhenAllocatorDeclines(t *testing.T) {
	s := newTypeStorage[demoComponent](exhaustedAllocator[demoComponent]{})
	h := Handle(1)
	s.attach(h)

	_, err := s.get(h)
	require.ErrorIs(t, err, ErrComponentNotDefault)
}

func TestTypeStorage_DetachDeferredHidesImmediatelyButThunkRunsLater(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	h := Handle(1)
	s.attachWith(h, demoComponent{Value: 1})

	thunk := s.detachDeferred(h)
	require.NotNil(t, thunk)
	require.False(t, s.has(h), "detach must remove visibility immediately")

	require.NotPanics(t, thunk)
}

func TestTypeStorage_DetachDeferredOnMissingEntryReturnsNil(t *testing.T) {
	s := newTypeStorage[demoComponent](newPoolAllocator[demoComponent]())
	require.Nil(t, s.detachDeferred(Handle(99)))
}

func TestStorageRegistry_GetOrCreateIsStablePerType(t *testing.T) {
	r := newStorageRegistry()
	a := getOrCreateStorage[demoComponent](r)
	b := getOrCreateStorage[demoComponent](r)
	require.Same(t, a, b)
}

func TestStorageRegistry_LookupMissingTypeIsNotFound(t *testing.T) {
	r := newStorageRegistry()
	_, ok := lookupStorage[demoComponent](r)
	require.False(t, ok)
}

func TestStorageRegistry_RegisterAllocatorOnlyTakesEffectBeforeFirstUse(t *testing.T) {
	r := newStorageRegistry()
	custom := newPoolAllocator[demoComponent]()
	getOrCreateStorage[demoComponent](r) // storage already created
	registerAllocator[demoComponent](r, custom)

	s := getOrCreateStorage[demoComponent](r)
	require.NotSame(t, custom, s.alloc, "allocator registered after first use must not replace the existing one")
}

func TestStorageRegistry_ReapAllDestroysEveryType(t *testing.T) {
	r := newStorageRegistry()
	h := Handle(1)
	getOrCreateStorage[demoComponent](r).attachWith(h, demoComponent{Value: 5})

	r.reapAll(h)

	s := getOrCreateStorage[demoComponent](r)
	require.False(t, s.has(h))
}
