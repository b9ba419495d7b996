package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type demoResource struct {
	Count int
}

func TestResourceRegistry_AddThenFind(t *testing.T) {
	r := newResourceRegistry()
	addResource(r, demoResource{Count: 3})

	v, ok := findResource[demoResource](r)
	require.True(t, ok)
	require.Equal(t, 3, v.Count)
}

func TestResourceRegistry_AddIsNoOpIfAlreadyPresent(t *testing.T) {
	r := newResourceRegistry()
	addResource(r, demoResource{Count: 1})
	addResource(r, demoResource{Count: 2})

	v, ok := findResource[demoResource](r)
	require.True(t, ok)
	require.Equal(t, 1, v.Count)
}

func TestResourceRegistry_SetOverwritesWhenPresent(t *testing.T) {
	r := newResourceRegistry()
	addResource(r, demoResource{Count: 1})
	wrote := setResource(r, demoResource{Count: 9})

	require.True(t, wrote)
	v, ok := findResource[demoResource](r)
	require.True(t, ok)
	require.Equal(t, 9, v.Count)
}

func TestResourceRegistry_SetIsNoOpWhenAbsent(t *testing.T) {
	r := newResourceRegistry()
	wrote := setResource(r, demoResource{Count: 9})

	require.False(t, wrote, "set must never create a resource that was never added")
	_, ok := findResource[demoResource](r)
	require.False(t, ok)
}

func TestResourceRegistry_RemoveIsNoOpWhenAbsent(t *testing.T) {
	r := newResourceRegistry()
	require.NotPanics(t, func() { removeResource[demoResource](r) })
}

func TestResourceRegistry_FindMissingReturnsFalse(t *testing.T) {
	r := newResourceRegistry()
	_, ok := findResource[demoResource](r)
	require.False(t, ok)
}

func TestResourceRegistry_RemoveThenFindIsAbsent(t *testing.T) {
	r := newResourceRegistry()
	addResource(r, demoResource{Count: 1})
	removeResource[demoResource](r)

	_, ok := findResource[demoResource](r)
	require.False(t, ok)
}
