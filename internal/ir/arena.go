package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind and hands out 1-based ids for them.
// Id 0 is reserved as the invalid sentinel. Freed slots stay tombstoned;
// ids are never reused within a Context.
type Arena[T any] struct {
	slots []*T
	live  int
}

// NewArena creates an empty arena. capHint is a hint for the initial
// capacity of the underlying storage; zero is allowed.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		slots: make([]*T, 0, capHint),
	}
}

// Alloc reserves a slot, computes its id and runs ctor with that id so
// the node can embed self-referential fields at birth. Возвращает индекс
// нового элемента (1-based).
func (a *Arena[T]) Alloc(ctor func(id uint32) *T) uint32 {
	lenSlots, err := safecast.Conv[uint32](len(a.slots))
	if err != nil {
		panic(fmt.Errorf("arena overflow: %w", err))
	}
	id := lenSlots + 1
	a.slots = append(a.slots, nil)
	a.slots[id-1] = ctor(id)
	a.live++
	return id
}

// Get dereferences an id. Dereferencing id 0, an out-of-range id or a
// freed slot is a caller bug and panics.
func (a *Arena[T]) Get(id uint32) *T {
	if id == 0 || int(id) > len(a.slots) {
		panic(fmt.Sprintf("arena: dereference of invalid id %d", id))
	}
	n := a.slots[id-1]
	if n == nil {
		panic(fmt.Sprintf("arena: dereference of freed id %d", id))
	}
	return n
}

// TryGet is the checked variant of Get.
func (a *Arena[T]) TryGet(id uint32) (*T, bool) {
	if id == 0 || int(id) > len(a.slots) {
		return nil, false
	}
	n := a.slots[id-1]
	if n == nil {
		return nil, false
	}
	return n, true
}

// Free tombstones a slot. The node's dealloc hooks must already have run.
func (a *Arena[T]) Free(id uint32) {
	if id == 0 || int(id) > len(a.slots) || a.slots[id-1] == nil {
		panic(fmt.Sprintf("arena: free of invalid id %d", id))
	}
	a.slots[id-1] = nil
	a.live--
}

// Live returns the number of allocated, not yet freed slots.
func (a *Arena[T]) Live() int { return a.live }

// Len returns the total number of slots ever allocated.
func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.slots))
}
