// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"iter"

	"github.com/gogpu/ui/dirty"
)

// MarkDirty ORs flags into id. Layout escalates to every ancestor and
// invalidates their solver caches; other flags stay on the node.
func (t *Tree) MarkDirty(id NodeID, flags dirty.Flags) {
	n := t.get(id)
	if n == nil || flags == dirty.None {
		return
	}
	n.flags |= flags
	t.link(id, n)
	if !flags.HasAny(dirty.Layout) {
		return
	}
	t.layoutPending = true
	t.solver.Invalidate(n.solver)
	for p := n.parent; !p.IsZero(); {
		pn := t.get(p)
		if pn == nil {
			break
		}
		pn.flags |= dirty.Layout
		t.link(p, pn)
		p = pn.parent
	}
}

// Flags returns the dirty flags of id.
func (t *Tree) Flags(id NodeID) dirty.Flags {
	if n := t.get(id); n != nil {
		return n.flags
	}
	return dirty.None
}

// DirtyLen returns the number of nodes with flags set.
func (t *Tree) DirtyLen() int { return t.dirtyLen }

// AnyDirty reports whether some node carries any of mask.
func (t *Tree) AnyDirty(mask dirty.Flags) bool {
	for _, f := range t.DirtyNodes() {
		if f.HasAny(mask) {
			return true
		}
	}
	return false
}

// DirtyNodes iterates nodes with flags set, most recently marked last.
func (t *Tree) DirtyNodes() iter.Seq2[NodeID, dirty.Flags] {
	return func(yield func(NodeID, dirty.Flags) bool) {
		for id := t.dirtyHead; !id.IsZero(); {
			n := t.get(id)
			if n == nil {
				return
			}
			next := n.next
			if !yield(id, n.flags) {
				return
			}
			id = next
		}
	}
}

// ClearDirtyFlags resets every dirty node, visiting only those nodes. It
// returns the number of nodes cleared.
func (t *Tree) ClearDirtyFlags() int {
	cleared := 0
	for id := t.dirtyHead; !id.IsZero(); {
		n := t.get(id)
		if n == nil {
			break
		}
		next := n.next
		n.flags = dirty.None
		n.prev, n.next, n.listed = NodeID{}, NodeID{}, false
		cleared++
		id = next
	}
	t.dirtyHead, t.dirtyTail, t.dirtyLen = NodeID{}, NodeID{}, 0
	return cleared
}

func (t *Tree) link(id NodeID, n *node) {
	if n.listed {
		return
	}
	n.listed = true
	n.prev = t.dirtyTail
	n.next = NodeID{}
	if tail := t.get(t.dirtyTail); tail != nil {
		tail.next = id
	} else {
		t.dirtyHead = id
	}
	t.dirtyTail = id
	t.dirtyLen++
}

func (t *Tree) unlink(id NodeID, n *node) {
	if !n.listed {
		return
	}
	if p := t.get(n.prev); p != nil {
		p.next = n.next
	} else {
		t.dirtyHead = n.next
	}
	if nx := t.get(n.next); nx != nil {
		nx.prev = n.prev
	} else {
		t.dirtyTail = n.prev
	}
	n.prev, n.next, n.listed = NodeID{}, NodeID{}, false
	t.dirtyLen--
}
