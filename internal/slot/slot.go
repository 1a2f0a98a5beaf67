// Package slot allocates dense, generation-checked indices for one
// handle space. It generalizes core/track.TrackerIndexAllocator's
// free-list-over-dense-index scheme with a per-slot generation counter,
// since render graph handles must detect stale references after a
// transient slot is recycled (spec §9), a concern the teacher's tracker
// indices - always live for a resource's full process lifetime - never
// had to handle.
package slot

// Allocator hands out (index, generation) pairs, reusing freed indices
// and bumping their generation on reuse so a Handle built from a stale
// (index, oldGeneration) pair is detectably invalid.
type Allocator struct {
	generations []uint32
	free        []uint32
}

// ErrExhausted is returned by Alloc when the handle space has reached
// its capacity.
type ErrExhausted struct {
	Capacity int
}

func (e *ErrExhausted) Error() string {
	return "slot: handle space exhausted"
}

// Alloc returns a fresh or recycled (index, generation) pair. capacity is the
// handle space's maximum index count; Alloc fails once that many slots
// are simultaneously live.
func (a *Allocator) Alloc(capacity int) (index, generation uint32, err error) {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return idx, a.generations[idx], nil
	}
	if len(a.generations) >= capacity {
		return 0, 0, &ErrExhausted{Capacity: capacity}
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	return idx, 0, nil
}

// Free returns index to the free list and bumps its generation, so any
// Handle still holding the old generation is stale from this point on.
func (a *Allocator) Free(index uint32) {
	a.generations[index]++
	a.free = append(a.free, index)
}

// IsLive reports whether (index, generation) refers to the slot's
// current occupant.
func (a *Allocator) IsLive(index, generation uint32) bool {
	if int(index) >= len(a.generations) {
		return false
	}
	return a.generations[index] == generation
}

// Len returns the number of slots ever allocated, live or freed -
// callers index parallel per-resource state arrays by this bound.
func (a *Allocator) Len() int {
	return len(a.generations)
}
