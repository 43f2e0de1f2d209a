// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

// Rect is a pixel rectangle inside the atlas.
type Rect struct {
	X, Y, W, H uint32
}

// Area returns W*H.
func (r Rect) Area() uint64 { return uint64(r.W) * uint64(r.H) }

// Overlaps reports whether r and o share any pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

type nodeKind uint8

const (
	nodeEmpty nodeKind = iota
	nodeFilled
	nodeSplit
)

// node is a guillotine packer node: Empty(rect), Filled(rect, key) or
// Split(rect, left, right).
type node struct {
	kind  nodeKind
	rect  Rect
	key   Key
	left  *node
	right *node
}

// insert places a w x h rect. The left child of a split always holds the
// placed rect and the right child the remainder.
func (n *node) insert(w, h uint32, key Key) *node {
	switch n.kind {
	case nodeFilled:
		return nil
	case nodeSplit:
		if got := n.left.insert(w, h, key); got != nil {
			return got
		}
		return n.right.insert(w, h, key)
	}

	if w > n.rect.W || h > n.rect.H {
		return nil
	}
	if w == n.rect.W && h == n.rect.H {
		n.kind = nodeFilled
		n.key = key
		return n
	}

	r := n.rect
	dw := r.W - w
	dh := r.H - h
	if dw > dh {
		// More waste to the right: cut a full-height column.
		n.left = &node{rect: Rect{X: r.X, Y: r.Y, W: w, H: r.H}}
		n.right = &node{rect: Rect{X: r.X + w, Y: r.Y, W: dw, H: r.H}}
	} else {
		n.left = &node{rect: Rect{X: r.X, Y: r.Y, W: r.W, H: h}}
		n.right = &node{rect: Rect{X: r.X, Y: r.Y + h, W: r.W, H: dh}}
	}
	n.kind = nodeSplit
	return n.left.insert(w, h, key)
}

// count returns the number of nodes by kind, for tests and stats.
func (n *node) count() (empty, filled, split int) {
	switch n.kind {
	case nodeEmpty:
		return 1, 0, 0
	case nodeFilled:
		return 0, 1, 0
	}
	e1, f1, s1 := n.left.count()
	e2, f2, s2 := n.right.count()
	return e1 + e2, f1 + f2, s1 + s2 + 1
}
