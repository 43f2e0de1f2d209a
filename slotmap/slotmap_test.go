// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package slotmap

import "testing"

func TestInsertGet(t *testing.T) {
	m := New[string]()
	a := m.Insert("a")
	b := m.Insert("b")

	if v, ok := m.Get(a); !ok || v != "a" {
		t.Errorf("Get(a) = %q, %v", v, ok)
	}
	if v, ok := m.Get(b); !ok || v != "b" {
		t.Errorf("Get(b) = %q, %v", v, ok)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestRemoveBumpsGeneration(t *testing.T) {
	m := New[int]()
	h := m.Insert(1)
	if v, ok := m.Remove(h); !ok || v != 1 {
		t.Fatalf("Remove = %d, %v", v, ok)
	}
	h2 := m.Insert(2)
	if h2.Index != h.Index {
		t.Fatalf("expected slot reuse, got index %d vs %d", h2.Index, h.Index)
	}
	if h2.Generation == h.Generation {
		t.Fatal("generation must change on reuse")
	}
	if _, ok := m.Get(h); ok {
		t.Error("stale handle must read as absent")
	}
	if p := m.GetPtr(h); p != nil {
		t.Error("GetPtr with stale handle must be nil")
	}
	if _, ok := m.Remove(h); ok {
		t.Error("Remove with stale handle must fail")
	}
	if v, _ := m.Get(h2); v != 2 {
		t.Errorf("Get(h2) = %d, want 2", v)
	}
}

func TestFreeListIsLIFO(t *testing.T) {
	m := New[int]()
	a := m.Insert(0)
	b := m.Insert(1)
	m.Insert(2)
	m.Remove(a)
	m.Remove(b)
	if h := m.Insert(3); h.Index != b.Index {
		t.Errorf("first reuse index = %d, want %d", h.Index, b.Index)
	}
	if h := m.Insert(4); h.Index != a.Index {
		t.Errorf("second reuse index = %d, want %d", h.Index, a.Index)
	}
}

func TestZeroAndOutOfRange(t *testing.T) {
	m := New[int]()
	if m.Contains(Handle{}) {
		t.Error("zero handle must not be contained")
	}
	if _, ok := m.Get(Handle{Index: 99, Generation: 1}); ok {
		t.Error("out-of-range handle must be absent")
	}
}

func TestGetPtrMutates(t *testing.T) {
	m := New[int]()
	h := m.Insert(1)
	*m.GetPtr(h) = 5
	if v, _ := m.Get(h); v != 5 {
		t.Errorf("Get after GetPtr write = %d, want 5", v)
	}
}

func TestClearAndAll(t *testing.T) {
	m := New[int]()
	hs := []Handle{m.Insert(1), m.Insert(2), m.Insert(3)}
	m.Remove(hs[1])

	sum := 0
	for _, v := range m.All() {
		sum += v
	}
	if sum != 4 {
		t.Errorf("sum over All = %d, want 4", sum)
	}

	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len after Clear = %d", m.Len())
	}
	for _, h := range hs {
		if m.Contains(h) {
			t.Errorf("handle %v survived Clear", h)
		}
	}
}

func TestGenerationWrap(t *testing.T) {
	m := New[int]()
	h := m.Insert(1)
	m.slots[h.Index].generation = ^uint32(0)
	h.Generation = ^uint32(0)
	m.Remove(h)
	h2 := m.Insert(2)
	if h2.Generation == 0 {
		t.Fatal("wrapped generation must skip zero")
	}
	if _, ok := m.Get(h2); !ok {
		t.Error("handle after wrap must be valid")
	}
}
