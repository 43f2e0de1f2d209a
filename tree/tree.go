// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package tree owns the widget tree: node storage, parent and child links,
// the layout cache and per-node dirty state.
//
// Nodes are addressed by generational [NodeID]s. Every accessor accepts
// stale or zero ids and reports absence instead of panicking.
//
// Tree is not safe for concurrent use; it belongs to the UI thread.
package tree

import (
	"iter"
	"slices"

	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/slotmap"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/widget"
)

// NodeID identifies a node. The zero NodeID is never valid.
type NodeID struct {
	slotmap.Handle
}

// WidgetID is a stable, user-chosen node name.
type WidgetID string

// node is the per-node record.
type node struct {
	widget   widget.Widget
	style    style.Style
	solver   *layout.Node
	parent   NodeID
	children []NodeID
	id       WidgetID

	local geom.Rect
	abs   geom.Rect

	// Last intrinsic measurement taken by the solver and its input.
	measured   geom.Size
	measuredIn layout.Available
	hasMeasure bool

	flags       dirty.Flags
	textVersion uint32

	// Intrusive dirty list links.
	prev, next NodeID
	listed     bool
}

// Tree is a retained widget tree.
type Tree struct {
	nodes  *slotmap.Map[node]
	root   NodeID
	solver *layout.Solver
	ids    map[WidgetID]NodeID

	dirtyHead, dirtyTail NodeID
	dirtyLen             int

	measurer Measurer
	viewport geom.Size
	laidOut  bool
	metrics  layout.Metrics

	// layoutPending survives ClearDirtyFlags until ComputeLayout runs,
	// so a frame that skips layout does not lose the invalidation.
	layoutPending bool
}

// New creates an empty tree backed by solver. A nil solver gets a fresh
// one.
func New(solver *layout.Solver) *Tree {
	if solver == nil {
		solver = layout.NewSolver()
	}
	return &Tree{
		nodes:  slotmap.New[node](),
		solver: solver,
		ids:    make(map[WidgetID]NodeID),
	}
}

// Solver returns the layout solver.
func (t *Tree) Solver() *layout.Solver { return t.solver }

func (t *Tree) get(id NodeID) *node { return t.nodes.GetPtr(id.Handle) }

// Len returns the number of live nodes.
func (t *Tree) Len() int { return t.nodes.Len() }

// Root returns the root node, or the zero NodeID for an empty tree.
func (t *Tree) Root() NodeID { return t.root }

// Contains reports whether id is live.
func (t *Tree) Contains(id NodeID) bool { return t.nodes.Contains(id.Handle) }

// InsertRoot replaces the whole tree with a single root node.
func (t *Tree) InsertRoot(w widget.Widget) NodeID {
	if w == nil {
		return NodeID{}
	}
	if !t.root.IsZero() {
		t.Remove(t.root)
	}
	id := t.alloc(w, NodeID{})
	t.root = id
	return id
}

// InsertChild appends a child under parent. It fails on a stale parent.
func (t *Tree) InsertChild(parent NodeID, w widget.Widget) (NodeID, bool) {
	return t.InsertChildAt(parent, -1, w)
}

// InsertChildAt inserts a child at index; out-of-range indices append.
func (t *Tree) InsertChildAt(parent NodeID, index int, w widget.Widget) (NodeID, bool) {
	if t.get(parent) == nil || w == nil {
		return NodeID{}, false
	}
	id := t.alloc(w, parent)
	// alloc may have grown the arena; fetch the parent again.
	p := t.get(parent)
	if index < 0 || index > len(p.children) {
		index = len(p.children)
	}
	p.children = slices.Insert(p.children, index, id)
	t.solver.Insert(p.solver, t.get(id).solver, index)
	t.MarkDirty(parent, dirty.Children|dirty.Layout)
	return id, true
}

// MoveChild moves the child of parent at index from to index to. It
// reports whether both indices were valid.
func (t *Tree) MoveChild(parent NodeID, from, to int) bool {
	p := t.get(parent)
	if p == nil || from < 0 || from >= len(p.children) || to < 0 || to >= len(p.children) {
		return false
	}
	if from == to {
		return true
	}
	id := p.children[from]
	p.children = slices.Delete(p.children, from, from+1)
	p.children = slices.Insert(p.children, to, id)
	c := t.get(id)
	t.solver.Detach(c.solver)
	t.solver.Insert(p.solver, c.solver, to)
	t.MarkDirty(parent, dirty.Children|dirty.Layout)
	return true
}

func (t *Tree) alloc(w widget.Widget, parent NodeID) NodeID {
	n := node{widget: w, parent: parent, style: defaultStyle(w)}
	n.solver = t.solver.NewNode(n.style)
	id := NodeID{t.nodes.Insert(n)}
	t.installMeasure(id)
	t.MarkDirty(id, dirty.Full&^dirty.Children)
	return id
}

// defaultStyle is the style a fresh node of w starts with.
func defaultStyle(w widget.Widget) style.Style {
	var st style.Style
	if w.Kind() == widget.KindRow {
		st.Direction = style.Row
	}
	return st
}

// Remove deletes node and its descendants. Removing the root empties the
// tree. It reports whether node was live.
func (t *Tree) Remove(id NodeID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	parent := n.parent
	if p := t.get(parent); p != nil {
		if i := slices.Index(p.children, id); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
		t.MarkDirty(parent, dirty.Children|dirty.Layout)
	}
	t.removeSubtree(id)
	if id == t.root {
		t.root = NodeID{}
		t.laidOut = false
	}
	return true
}

func (t *Tree) removeSubtree(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	for _, c := range slices.Clone(n.children) {
		t.removeSubtree(c)
	}
	n = t.get(id)
	t.unlink(id, n)
	if n.id != "" && t.ids[n.id] == id {
		delete(t.ids, n.id)
	}
	// The solver handle goes before the slot is recycled.
	t.solver.Free(n.solver)
	n.solver = nil
	t.nodes.Remove(id.Handle)
}

// Clear removes every node and forgets every widget id.
func (t *Tree) Clear() {
	if !t.root.IsZero() {
		t.Remove(t.root)
	}
	for h, n := range t.nodes.All() {
		// Orphans can only exist if a caller raced Remove; free them anyway.
		t.solver.Free(n.solver)
		t.nodes.Remove(h)
	}
	clear(t.ids)
	t.dirtyHead, t.dirtyTail, t.dirtyLen = NodeID{}, NodeID{}, 0
	t.laidOut = false
}

// Widget returns the widget of id.
func (t *Tree) Widget(id NodeID) (widget.Widget, bool) {
	if n := t.get(id); n != nil {
		return n.widget, true
	}
	return nil, false
}

// WidgetMut calls fn with the widget of id and marks flags afterwards,
// even if fn panics. It reports whether id was live.
func (t *Tree) WidgetMut(id NodeID, flags dirty.Flags, fn func(widget.Widget)) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	w := n.widget
	defer t.MarkDirty(id, flags)
	fn(w)
	return true
}

// Parent returns the parent of id. The root has no parent.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	n := t.get(id)
	if n == nil || n.parent.IsZero() {
		return NodeID{}, false
	}
	return n.parent, true
}

// Children returns the children of id. The slice is owned by the tree.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.get(id); n != nil {
		return n.children
	}
	return nil
}

// Style returns a copy of the style of id.
func (t *Tree) Style(id NodeID) (style.Style, bool) {
	if n := t.get(id); n != nil {
		return n.style, true
	}
	return style.Style{}, false
}

// StylePtr returns the style of id for reading, or nil. Writes must go
// through UpdateStyle or SetStyle.
func (t *Tree) StylePtr(id NodeID) *style.Style {
	if n := t.get(id); n != nil {
		return &n.style
	}
	return nil
}

// Layout returns the absolute rect of id as of the last ComputeLayout,
// before any scroll offsets.
func (t *Tree) Layout(id NodeID) (geom.Rect, bool) {
	if n := t.get(id); n != nil {
		return n.abs, true
	}
	return geom.Rect{}, false
}

// LocalRect returns the rect of id relative to its parent.
func (t *Tree) LocalRect(id NodeID) (geom.Rect, bool) {
	if n := t.get(id); n != nil {
		return n.local, true
	}
	return geom.Rect{}, false
}

// TextVersion returns the wrap-around text version of id.
func (t *Tree) TextVersion(id NodeID) uint32 {
	if n := t.get(id); n != nil {
		return n.textVersion
	}
	return 0
}

// WidgetID returns the registered name of id.
func (t *Tree) WidgetID(id NodeID) (WidgetID, bool) {
	if n := t.get(id); n != nil && n.id != "" {
		return n.id, true
	}
	return "", false
}

// Walk visits nodes depth-first from the root in child order. Returning
// false from fn skips the node's children.
func (t *Tree) Walk(fn func(id NodeID, depth int) bool) {
	if t.get(t.root) == nil {
		return
	}
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !fn(id, depth) {
		return
	}
	n := t.get(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		t.walk(c, depth+1, fn)
	}
}

// All iterates every live node in storage order.
func (t *Tree) All() iter.Seq2[NodeID, widget.Widget] {
	return func(yield func(NodeID, widget.Widget) bool) {
		for h, n := range t.nodes.All() {
			if !yield(NodeID{h}, n.widget) {
				return
			}
		}
	}
}

// Ancestors iterates the parents of id up to the root.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		n := t.get(id)
		for n != nil && !n.parent.IsZero() {
			p := n.parent
			if !yield(p) {
				return
			}
			n = t.get(p)
		}
	}
}
