// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import "sync/atomic"

// cell is the shared state behind every handle to one asset.
type cell[T any] struct {
	strong atomic.Int64
	weak   atomic.Int64
	value  T
	path   string
	drop   func()
}

func (c *cell[T]) load() any { return c.value }

// Handle is a strong, reference counted handle to a loaded asset. Copies
// share one count: call Clone for a new reference and Release when done.
// The zero Handle refers to nothing.
//
// Handles may be cloned and released from any goroutine.
type Handle[T any] struct {
	c *cell[T]
}

// NewHandle wraps v in a handle with one strong reference. It is not
// tracked by any server.
func NewHandle[T any](v T) Handle[T] {
	c := &cell[T]{value: v}
	c.strong.Store(1)
	return Handle[T]{c}
}

// IsZero reports whether h refers to nothing.
func (h Handle[T]) IsZero() bool { return h.c == nil }

// Path returns the path the asset was loaded from.
func (h Handle[T]) Path() string {
	if h.c == nil {
		return ""
	}
	return h.c.path
}

// Get returns the asset. It reports false once every strong reference
// has been released.
func (h Handle[T]) Get() (T, bool) {
	if h.c == nil || h.c.strong.Load() <= 0 {
		var zero T
		return zero, false
	}
	return h.c.value, true
}

// Clone adds a strong reference. Cloning a released handle yields the
// zero Handle.
func (h Handle[T]) Clone() Handle[T] {
	if h.c == nil {
		return h
	}
	c, _ := WeakHandle[T](h).Upgrade()
	return c
}

// Release drops one strong reference. It reports whether that was the
// last one, in which case the asset is unloaded.
func (h Handle[T]) Release() bool {
	if h.c == nil {
		return false
	}
	for {
		n := h.c.strong.Load()
		if n <= 0 {
			return false
		}
		if h.c.strong.CompareAndSwap(n, n-1) {
			if n > 1 {
				return false
			}
			if h.c.drop != nil {
				h.c.drop()
			}
			return true
		}
	}
}

// Downgrade returns a weak handle that does not keep the asset alive.
func (h Handle[T]) Downgrade() WeakHandle[T] {
	if h.c != nil {
		h.c.weak.Add(1)
	}
	return WeakHandle[T](h)
}

// StrongCount returns the number of strong references.
func (h Handle[T]) StrongCount() int64 {
	if h.c == nil {
		return 0
	}
	return h.c.strong.Load()
}

// WeakCount returns the number of weak references.
func (h Handle[T]) WeakCount() int64 {
	if h.c == nil {
		return 0
	}
	return h.c.weak.Load()
}

// WeakHandle refers to an asset without keeping it loaded.
type WeakHandle[T any] struct {
	c *cell[T]
}

// Upgrade returns a strong handle if the asset is still loaded.
func (w WeakHandle[T]) Upgrade() (Handle[T], bool) {
	if w.c == nil {
		return Handle[T]{}, false
	}
	for {
		n := w.c.strong.Load()
		if n <= 0 {
			return Handle[T]{}, false
		}
		if w.c.strong.CompareAndSwap(n, n+1) {
			return Handle[T]{w.c}, true
		}
	}
}

// Alive reports whether the asset is still loaded.
func (w WeakHandle[T]) Alive() bool { return w.c != nil && w.c.strong.Load() > 0 }

// Release drops the weak reference.
func (w WeakHandle[T]) Release() {
	if w.c == nil {
		return
	}
	for {
		n := w.c.weak.Load()
		if n <= 0 || w.c.weak.CompareAndSwap(n, n-1) {
			return
		}
	}
}
