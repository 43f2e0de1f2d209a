// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package slotmap implements a generational arena.
//
// Values are addressed by a [Handle] holding a slot index and the slot's
// generation at insertion time. Removing a value bumps the slot generation
// before the index is recycled, so a handle kept past removal never aliases
// the value that later reuses its slot.
//
// Lookups with stale or zero handles report absence; no operation panics.
package slotmap

import (
	"fmt"
	"iter"
)

// Handle identifies a value stored in a [Map].
// The zero Handle is never valid.
type Handle struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.Generation == 0 }

// String implements fmt.Stringer.
func (h Handle) String() string {
	return fmt.Sprintf("%dv%d", h.Index, h.Generation)
}

type slot[V any] struct {
	value      V
	generation uint32
	occupied   bool
}

// Map is a generational slot map. Free slots are reused LIFO.
//
// Map is not safe for concurrent use.
type Map[V any] struct {
	slots []slot[V]
	free  []uint32
	len   int
}

// New creates an empty map.
func New[V any]() *Map[V] {
	return &Map[V]{}
}

// WithCapacity creates an empty map with room for n values.
func WithCapacity[V any](n int) *Map[V] {
	return &Map[V]{slots: make([]slot[V], 0, n)}
}

// Len returns the number of live values.
func (m *Map[V]) Len() int { return m.len }

// Insert stores v and returns its handle.
func (m *Map[V]) Insert(v V) Handle {
	m.len++
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		s := &m.slots[idx]
		s.value = v
		s.occupied = true
		return Handle{Index: idx, Generation: s.generation}
	}
	m.slots = append(m.slots, slot[V]{value: v, generation: 1, occupied: true})
	return Handle{Index: uint32(len(m.slots) - 1), Generation: 1}
}

func (m *Map[V]) slot(h Handle) *slot[V] {
	if h.IsZero() || int(h.Index) >= len(m.slots) {
		return nil
	}
	s := &m.slots[h.Index]
	if !s.occupied || s.generation != h.Generation {
		return nil
	}
	return s
}

// Get returns the value for h.
func (m *Map[V]) Get(h Handle) (V, bool) {
	if s := m.slot(h); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// GetPtr returns a pointer to the stored value, or nil if h is stale.
// The pointer is invalidated by the next Insert.
func (m *Map[V]) GetPtr(h Handle) *V {
	if s := m.slot(h); s != nil {
		return &s.value
	}
	return nil
}

// Contains reports whether h refers to a live value.
func (m *Map[V]) Contains(h Handle) bool { return m.slot(h) != nil }

// Remove deletes the value for h and returns it.
func (m *Map[V]) Remove(h Handle) (V, bool) {
	s := m.slot(h)
	if s == nil {
		var zero V
		return zero, false
	}
	v := s.value
	var zero V
	s.value = zero
	s.occupied = false
	s.generation++
	if s.generation == 0 {
		// Wrapped: skip the zero generation reserved for the zero Handle.
		s.generation = 1
	}
	m.free = append(m.free, h.Index)
	m.len--
	return v, true
}

// Clear removes every value. Outstanding handles become stale.
func (m *Map[V]) Clear() {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.occupied {
			continue
		}
		var zero V
		s.value = zero
		s.occupied = false
		s.generation++
		if s.generation == 0 {
			s.generation = 1
		}
		m.free = append(m.free, uint32(i))
	}
	m.len = 0
}

// All iterates live values in slot order.
func (m *Map[V]) All() iter.Seq2[Handle, V] {
	return func(yield func(Handle, V) bool) {
		for i := range m.slots {
			s := &m.slots[i]
			if !s.occupied {
				continue
			}
			if !yield(Handle{Index: uint32(i), Generation: s.generation}, s.value) {
				return
			}
		}
	}
}
