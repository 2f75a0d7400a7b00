package engine

import "github.com/gogpu/ngfx/types"

// Table is a generic epoch-checked slot table backing every resource
// kind's ID allocation (spec §3's index+epoch handles). It's the same
// free-list-over-a-growable-slice shape as internal/alloc.Block,
// specialized here to hold typed values instead of raw byte slots and
// to bump an epoch on every reuse so a stale ID is reliably rejected.
type Table[T types.Marker, V any] struct {
	slots  []tableSlot[V]
	free   []types.Index
}

type tableSlot[V any] struct {
	value V
	epoch types.Epoch
	live  bool
}

// NewTable creates an empty table.
func NewTable[T types.Marker, V any]() *Table[T, V] {
	return &Table[T, V]{}
}

// Insert allocates a slot for value and returns its ID.
func (t *Table[T, V]) Insert(value V) types.ID[T] {
	if len(t.free) == 0 {
		idx := types.Index(len(t.slots))
		t.slots = append(t.slots, tableSlot[V]{value: value, epoch: 1, live: true})
		return types.NewID[T](idx, 1)
	}
	idx := t.free[len(t.free)-1]
	t.free = t.free[:len(t.free)-1]
	s := &t.slots[idx]
	s.value = value
	s.live = true
	return types.NewID[T](idx, s.epoch)
}

// Get returns the value stored under id and whether id is still live
// (its epoch matches and it hasn't been removed).
func (t *Table[T, V]) Get(id types.ID[T]) (V, bool) {
	var zero V
	idx := id.Index()
	if int(idx) >= len(t.slots) {
		return zero, false
	}
	s := &t.slots[idx]
	if !s.live || s.epoch != id.Epoch() {
		return zero, false
	}
	return s.value, true
}

// Remove invalidates id's slot, bumping its epoch so any copy of the
// old ID is rejected by future Get calls, and returns the slot to the
// free list for reuse.
func (t *Table[T, V]) Remove(id types.ID[T]) bool {
	idx := id.Index()
	if int(idx) >= len(t.slots) {
		return false
	}
	s := &t.slots[idx]
	if !s.live || s.epoch != id.Epoch() {
		return false
	}
	var zero V
	s.value = zero
	s.live = false
	s.epoch++
	t.free = append(t.free, idx)
	return true
}

// Len returns the number of live entries.
func (t *Table[T, V]) Len() int {
	n := 0
	for _, s := range t.slots {
		if s.live {
			n++
		}
	}
	return n
}
