// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lru provides an intrusive recency list for caches that keep their
// own key-to-entry map.
package lru

import "iter"

// Elem is a list element. Callers store it next to their cache entry so
// touches and removals are O(1).
type Elem[K comparable] struct {
	Key  K
	prev *Elem[K]
	next *Elem[K]
	list *List[K]
}

// List orders keys from most to least recently used.
// The list is not thread-safe; callers must handle synchronization.
type List[K comparable] struct {
	head *Elem[K]
	tail *Elem[K]
	len  int
}

// Len returns the number of elements.
func (l *List[K]) Len() int { return l.len }

// PushFront inserts key as the most recently used.
func (l *List[K]) PushFront(key K) *Elem[K] {
	e := &Elem[K]{Key: key}
	l.linkFront(e)
	return e
}

// Touch marks e as most recently used.
func (l *List[K]) Touch(e *Elem[K]) {
	if e == nil || e.list != l || e == l.head {
		return
	}
	l.unlink(e)
	l.linkFront(e)
}

// Remove deletes e. Removing an element twice is a no-op.
func (l *List[K]) Remove(e *Elem[K]) {
	if e == nil || e.list != l {
		return
	}
	l.unlink(e)
}

// Oldest returns the least recently used key.
func (l *List[K]) Oldest() (K, bool) {
	if l.tail == nil {
		var zero K
		return zero, false
	}
	return l.tail.Key, true
}

// Clear drops every element.
func (l *List[K]) Clear() {
	for e := l.head; e != nil; {
		next := e.next
		e.prev, e.next, e.list = nil, nil, nil
		e = next
	}
	l.head, l.tail, l.len = nil, nil, 0
}

// Backward iterates from least to most recently used. Removing the
// current element during iteration is allowed.
func (l *List[K]) Backward() iter.Seq[*Elem[K]] {
	return func(yield func(*Elem[K]) bool) {
		for e := l.tail; e != nil; {
			prev := e.prev
			if !yield(e) {
				return
			}
			e = prev
		}
	}
}

func (l *List[K]) linkFront(e *Elem[K]) {
	e.list = l
	e.prev = nil
	e.next = l.head
	if l.head != nil {
		l.head.prev = e
	}
	l.head = e
	if l.tail == nil {
		l.tail = e
	}
	l.len++
}

func (l *List[K]) unlink(e *Elem[K]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		l.tail = e.prev
	}
	e.prev, e.next, e.list = nil, nil, nil
	l.len--
}
