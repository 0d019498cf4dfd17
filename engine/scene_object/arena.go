// Package scene_object stores spawned scene objects behind generational handles.
package scene_object

import "fmt"

// Handle addresses a slot of an Arena. A handle stays valid until its slot is removed; after
// that the slot's generation moves on and the old handle no longer resolves.
type Handle struct {
	index      uint32
	generation uint32
}

// Index returns the slot index of the handle.
func (h Handle) Index() uint32 {
	return h.index
}

// Generation returns the generation the handle was issued at.
func (h Handle) Generation() uint32 {
	return h.generation
}

// IsZero reports whether h is the zero Handle, which no Arena ever issues.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Arena is a generational arena. Removed slots are reused with a bumped generation.
// It is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	len   int
}

// NewArena creates an empty Arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
//
// Parameters:
//   - v: the value to store
//
// Returns:
//   - Handle: the handle addressing v
func (a *Arena[T]) Insert(v T) Handle {
	a.len++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.value = v
		s.occupied = true
		return Handle{index: idx, generation: s.generation}
	}
	// generations start at 1 so the zero Handle never resolves
	a.slots = append(a.slots, slot[T]{value: v, generation: 1, occupied: true})
	return Handle{index: uint32(len(a.slots) - 1), generation: 1}
}

// Get returns the value addressed by h.
//
// Parameters:
//   - h: the handle
//
// Returns:
//   - T: the value, or the zero value
//   - bool: false if h is stale or was never issued
func (a *Arena[T]) Get(h Handle) (T, bool) {
	var zero T
	if !a.Contains(h) {
		return zero, false
	}
	return a.slots[h.index].value, true
}

// Set replaces the value addressed by a live handle.
//
// Returns:
//   - bool: false if h is stale
func (a *Arena[T]) Set(h Handle, v T) bool {
	if !a.Contains(h) {
		return false
	}
	a.slots[h.index].value = v
	return true
}

// Contains reports whether h addresses a live value.
func (a *Arena[T]) Contains(h Handle) bool {
	if int(h.index) >= len(a.slots) {
		return false
	}
	s := a.slots[h.index]
	return s.occupied && s.generation == h.generation
}

// Remove deletes the value addressed by h and invalidates every copy of h.
//
// Parameters:
//   - h: the handle
//
// Returns:
//   - T: the removed value, or the zero value
//   - bool: false if h was already stale
func (a *Arena[T]) Remove(h Handle) (T, bool) {
	var zero T
	if !a.Contains(h) {
		return zero, false
	}
	s := &a.slots[h.index]
	v := s.value
	s.value = zero
	s.occupied = false
	s.generation++
	a.free = append(a.free, h.index)
	a.len--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.len
}

// Each calls fn for every live value in slot order until fn returns false.
func (a *Arena[T]) Each(fn func(Handle, T) bool) {
	for i := range a.slots {
		s := a.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(Handle{index: uint32(i), generation: s.generation}, s.value) {
			return
		}
	}
}
