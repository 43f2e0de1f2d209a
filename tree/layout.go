// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/widget"
)

// Measurer supplies intrinsic sizes for leaf widgets.
type Measurer interface {
	// Measures reports whether widgets of kind have an intrinsic size.
	Measures(kind widget.Kind) bool
	// Measure returns the content size of id within avail.
	Measure(t *Tree, id NodeID, avail layout.Available) geom.Size
}

// SetMeasurer installs m for every current and future node. Nil removes
// intrinsic measurement.
func (t *Tree) SetMeasurer(m Measurer) {
	t.measurer = m
	for h := range t.nodes.All() {
		t.installMeasure(NodeID{h})
	}
}

func (t *Tree) installMeasure(id NodeID) {
	n := t.get(id)
	if n == nil {
		return
	}
	m := t.measurer
	if m == nil || !m.Measures(n.widget.Kind()) {
		t.solver.SetMeasure(n.solver, nil)
		return
	}
	t.solver.SetMeasure(n.solver, func(avail layout.Available) geom.Size {
		size := m.Measure(t, id, avail)
		if n := t.get(id); n != nil {
			n.measured, n.measuredIn, n.hasMeasure = size, avail, true
		}
		return size
	})
}

// Viewport returns the viewport of the last ComputeLayout.
func (t *Tree) Viewport() geom.Size { return t.viewport }

// Metrics returns the metrics of the last ComputeLayout.
func (t *Tree) Metrics() layout.Metrics { return t.metrics }

// NeedsLayout reports whether ComputeLayout(viewport) would run the
// solver. A Layout mark stays pending until the solver runs, even across
// ClearDirtyFlags.
func (t *Tree) NeedsLayout(viewport geom.Size) bool {
	if t.get(t.root) == nil {
		return false
	}
	return !t.laidOut || viewport != t.viewport || t.layoutPending
}

// ComputeLayout runs the solver when a node carries Layout or the
// viewport changed, then refreshes every node's local and absolute rect.
// Nodes whose rect moved are marked Transform.
func (t *Tree) ComputeLayout(viewport geom.Size) layout.Metrics {
	if !t.NeedsLayout(viewport) {
		t.metrics = layout.Metrics{Skipped: true}
		return t.metrics
	}
	root := t.get(t.root)
	t.metrics = t.solver.Compute(root.solver, viewport)
	t.viewport = viewport
	t.laidOut = true
	t.layoutPending = false
	t.refreshRects(t.root, geom.Point{})
	return t.metrics
}

// refreshRects prefix-sums local rects into absolute rects.
func (t *Tree) refreshRects(id NodeID, origin geom.Point) {
	n := t.get(id)
	if n == nil {
		return
	}
	local := n.solver.LocalRect()
	abs := local.Translate(origin)
	if abs != n.abs {
		n.flags |= dirty.Transform
		t.link(id, n)
	}
	n.local = local
	n.abs = abs
	for _, c := range n.children {
		t.refreshRects(c, abs.Min())
	}
}

// Remeasure measures a leaf again with the input the solver last gave it
// and marks Layout up to the root when its intrinsic size moved. The
// comparison is against the previous measurement, not the solved rect,
// so stretched or grown leaves keep their layout when their content size
// holds. It reports whether layout was invalidated.
func (t *Tree) Remeasure(id NodeID) bool {
	n := t.get(id)
	if n == nil || !n.hasMeasure || t.measurer == nil || !t.measurer.Measures(n.widget.Kind()) {
		return false
	}
	in, before := n.measuredIn, n.measured
	if t.measurer.Measure(t, id, in) == before {
		return false
	}
	t.MarkDirty(id, dirty.Layout)
	return true
}
