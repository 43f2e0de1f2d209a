// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plugin

import (
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// Registry dispatches widget input and measurement by kind.
var (
	_ event.Widgets = (*Registry)(nil)
	_ tree.Measurer = (*Registry)(nil)
)

func (r *Registry) Hover(t *tree.Tree, id tree.NodeID, on bool) bool {
	if c, d, ok := r.context(t, id); ok && d.OnHover != nil {
		return d.OnHover(c, on)
	}
	return false
}

func (r *Registry) Press(t *tree.Tree, id tree.NodeID, on bool) bool {
	if c, d, ok := r.context(t, id); ok && d.OnPress != nil {
		return d.OnPress(c, on)
	}
	return false
}

func (r *Registry) Focus(t *tree.Tree, id tree.NodeID, on bool) bool {
	if c, d, ok := r.context(t, id); ok && d.OnFocus != nil {
		return d.OnFocus(c, on)
	}
	return false
}

func (r *Registry) Click(t *tree.Tree, id tree.NodeID) bool {
	if c, d, ok := r.context(t, id); ok && d.OnClick != nil {
		return d.OnClick(c)
	}
	return false
}

func (r *Registry) Key(t *tree.Tree, id tree.NodeID, k event.Key) event.HandleStatus {
	if c, d, ok := r.context(t, id); ok && d.OnKey != nil {
		return d.OnKey(c, k)
	}
	return event.Ignored
}

func (r *Registry) Char(t *tree.Tree, id tree.NodeID, ch rune) event.HandleStatus {
	if c, d, ok := r.context(t, id); ok && d.OnChar != nil {
		return d.OnChar(c, ch)
	}
	return event.Ignored
}

// Clips reports whether id clips its descendants.
func (r *Registry) Clips(t *tree.Tree, id tree.NodeID) bool {
	x, y := r.Overflow(t, id)
	if x.Clips() || y.Clips() {
		return true
	}
	if c, d, ok := r.context(t, id); ok && d.ClipsChildren != nil {
		return d.ClipsChildren(c)
	}
	return false
}

func (r *Registry) ScrollOffset(t *tree.Tree, id tree.NodeID) geom.Point {
	if c, d, ok := r.context(t, id); ok && d.ScrollOffset != nil {
		return d.ScrollOffset(c)
	}
	return geom.Point{}
}

// Measures reports whether kind has an intrinsic size.
func (r *Registry) Measures(kind widget.Kind) bool {
	d, ok := r.descs[kind]
	return ok && d.Measure != nil
}

func (r *Registry) Measure(t *tree.Tree, id tree.NodeID, avail layout.Available) geom.Size {
	c, d, ok := r.context(t, id)
	if !ok || d.Measure == nil {
		return geom.Size{}
	}
	return d.Measure(&MeasureContext{Context: *c, Avail: avail, shape: r.shape})
}
