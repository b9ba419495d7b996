package ecs

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Handle is a 64-bit entity identifier: (index uint32) << 32 | generation.
// Handle zero is reserved invalid; index zero is never issued.
type Handle uint64

// InvalidHandle is the reserved zero handle.
const InvalidHandle Handle = 0

// Index extracts the 32-bit slot index from a handle.
func (h Handle) Index() uint32 {
	return uint32(h >> 32)
}

// Generation extracts the 32-bit generation counter from a handle.
func (h Handle) Generation() uint32 {
	return uint32(h)
}

func newHandle(index, generation uint32) Handle {
	return Handle(uint64(index)<<32 | uint64(generation))
}

// String renders a handle as "<index>v<generation>", a stable, greppable
// field value for structured logging.
func (h Handle) String() string {
	return fmt.Sprintf("%dv%d", h.Index(), h.Generation())
}

// TypeID is a process-wide, collision-free-in-practice identity for a
// compile-time component or resource type, derived from its reflected
// package path and type string via xxhash.
type TypeID uint64

// TypeOf returns the stable identity for T. It is a pure function: it never
// touches a World and never creates storage, so it is safe to call from
// Queryer predicates that must not have side effects.
func TypeOf[T any]() TypeID {
	t := reflect.TypeFor[T]()
	return TypeID(xxhash.Sum64String(t.PkgPath() + "." + t.String()))
}

func typeName[T any]() string {
	t := reflect.TypeFor[T]()
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
