package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHandleAllocator_SpawnAssignsDistinctIndices(t *testing.T) {
	a := newHandleAllocator()

	h1 := a.spawn()
	h2 := a.spawn()

	require.NotEqual(t, h1, h2)
	require.NotEqual(t, h1.Index(), h2.Index())
	require.True(t, a.exists(h1))
	require.True(t, a.exists(h2))
}

func TestHandleAllocator_DestroyBumpsGenerationAndFreesIndex(t *testing.T) {
	a := newHandleAllocator()

	h1 := a.spawn()
	a.destroy(h1)
	require.False(t, a.exists(h1))

	h2 := a.spawn()
	require.Equal(t, h1.Index(), h2.Index(), "freed index should be recycled")
	require.Greater(t, h2.Generation(), h1.Generation())
	require.NotEqual(t, h1, h2, "stale handle must never equal the recycled one")
}

func TestHandleAllocator_DestroyIsIdempotent(t *testing.T) {
	a := newHandleAllocator()
	h := a.spawn()

	a.destroy(h)
	require.NotPanics(t, func() { a.destroy(h) })
	require.False(t, a.exists(h))
}

func TestHandleAllocator_LivingSnapshotIsACopy(t *testing.T) {
	a := newHandleAllocator()
	h1 := a.spawn()
	_ = a.spawn()

	snapshot := a.livingSnapshot()
	require.Len(t, snapshot, 2)

	a.destroy(h1)
	require.Len(t, snapshot, 2, "prior snapshot must not observe later mutation")
	require.Len(t, a.livingSnapshot(), 1)
}

func TestHandleAllocator_IndexZeroNeverIssued(t *testing.T) {
	a := newHandleAllocator()
	h := a.spawn()
	require.NotEqual(t, uint32(0), h.Index())
}
