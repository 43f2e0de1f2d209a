// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/widget"
)

// UpdateStyle runs fn on a copy of the style of id and reconciles dirty
// state when fn returns, including when it panics: a change to any
// layout field marks Layout, a paint-only change marks ColorOnly. It
// reports whether the style changed.
func (t *Tree) UpdateStyle(id NodeID, fn func(*style.Style)) (changed bool) {
	n := t.get(id)
	if n == nil || fn == nil {
		return false
	}
	st := n.style
	layoutBefore := st.LayoutHash()
	paintBefore := st.PaintHash()
	defer func() {
		changed = t.commitStyle(id, &st, layoutBefore, paintBefore)
	}()
	fn(&st)
	return false
}

// SetStyle replaces the style of id through the same reconciliation as
// UpdateStyle.
func (t *Tree) SetStyle(id NodeID, st style.Style) bool {
	return t.UpdateStyle(id, func(s *style.Style) { *s = st })
}

func (t *Tree) commitStyle(id NodeID, st *style.Style, layoutBefore, paintBefore uint64) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	layoutChanged := st.LayoutHash() != layoutBefore
	paintChanged := st.PaintHash() != paintBefore
	if !layoutChanged && !paintChanged {
		return false
	}
	n.style = *st
	if layoutChanged {
		t.solver.SetStyle(n.solver, n.style)
		t.MarkDirty(id, dirty.Layout)
		return true
	}
	t.MarkDirty(id, dirty.ColorOnly)
	return true
}

// UpdateTextContent sets the text of a text-bearing widget. It returns
// false when id is stale, the widget has no text, or s is unchanged. A
// change bumps the text version and marks TextShaping only.
func (t *Tree) UpdateTextContent(id NodeID, s string) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	tc, ok := n.widget.(widget.TextContent)
	if !ok || tc.Text() == s {
		return false
	}
	tc.SetText(s)
	t.bumpText(id, n)
	return true
}

// TouchText records that the widget of id changed its text in place, as
// an editor does. It bumps the text version and marks TextShaping.
func (t *Tree) TouchText(id NodeID) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	t.bumpText(id, n)
	return true
}

func (t *Tree) bumpText(id NodeID, n *node) {
	n.textVersion++ // wraps
	t.MarkDirty(id, dirty.TextShaping)
}

// UpdateColor sets the primary color of a colored widget. It returns
// false when id is stale, the widget has no color, or c is unchanged. A
// change marks ColorOnly only.
func (t *Tree) UpdateColor(id NodeID, c style.Color) bool {
	n := t.get(id)
	if n == nil {
		return false
	}
	cw, ok := n.widget.(widget.Colored)
	if !ok || cw.Color() == c {
		return false
	}
	cw.SetColor(c)
	t.MarkDirty(id, dirty.ColorOnly)
	return true
}
