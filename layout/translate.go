// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layout

import (
	"github.com/kjk/flex"

	"github.com/gogpu/ui/style"
)

var (
	autoValue      = flex.Value{Value: flex.Undefined, Unit: flex.UnitAuto}
	undefinedValue = flex.Value{Value: flex.Undefined, Unit: flex.UnitUndefined}
)

func point(v float32) flex.Value { return flex.Value{Value: v, Unit: flex.UnitPoint} }

// translate writes n.style into the solver node. flex.NodeCopyStyle only
// dirties the solver node when the translated style differs.
func (s *Solver) translate(n *Node) {
	st := &n.style
	src := flex.NewNodeWithConfig(s.config)
	fs := &src.Style

	fs.Display = flex.DisplayFlex
	if st.Display == style.DisplayNone {
		fs.Display = flex.DisplayNone
	}
	fs.FlexDirection = flexDirection(st.Direction)
	fs.FlexWrap = flex.WrapNoWrap
	if st.Wrap == style.WrapLines {
		fs.FlexWrap = flex.WrapWrap
	}
	fs.JustifyContent = justify(st.Justify)
	fs.AlignItems = align(st.AlignItems, flex.AlignStretch)
	fs.AlignSelf = align(st.AlignSelf, flex.AlignAuto)
	fs.AlignContent = flex.AlignFlexStart
	fs.FlexGrow = st.Grow
	fs.FlexShrink = st.Shrink
	fs.FlexBasis = s.length(n, st.Basis, autoValue)
	fs.PositionType = flex.PositionTypeRelative
	if st.Position == style.Absolute {
		fs.PositionType = flex.PositionTypeAbsolute
	}
	switch {
	case st.OverflowX == style.Scroll || st.OverflowY == style.Scroll:
		fs.Overflow = flex.OverflowScroll
	case st.Clips():
		fs.Overflow = flex.OverflowHidden
	default:
		fs.Overflow = flex.OverflowVisible
	}
	if st.AspectRatio > 0 {
		fs.AspectRatio = st.AspectRatio
	}

	ctxW, ctxH := s.contexts(n)
	fs.Dimensions[flex.DimensionWidth] = s.dimension(n, st.Width, ctxW, autoValue, 0)
	fs.Dimensions[flex.DimensionHeight] = s.dimension(n, st.Height, ctxH, autoValue, 1)
	fs.MinDimensions[flex.DimensionWidth] = s.dimension(n, st.MinWidth, ctxW, undefinedValue, -1)
	fs.MinDimensions[flex.DimensionHeight] = s.dimension(n, st.MinHeight, ctxH, undefinedValue, -1)
	fs.MaxDimensions[flex.DimensionWidth] = s.dimension(n, st.MaxWidth, ctxW, undefinedValue, -1)
	fs.MaxDimensions[flex.DimensionHeight] = s.dimension(n, st.MaxHeight, ctxH, undefinedValue, -1)

	s.edges(n, &fs.Padding, st.Padding, point(0))
	s.edges(n, &fs.Margin, st.Margin, undefinedValue)
	s.edges(n, &fs.Position, st.Inset, undefinedValue)
	if st.BorderWidth > 0 {
		fs.Border[flex.EdgeAll] = point(st.BorderWidth)
	}
	s.applyGap(n, fs)

	flex.NodeCopyStyle(n.fn, src)
}

// contexts returns the resolve contexts for the width and height axes.
// The root has no parent, so percentages on it fall back to auto.
func (s *Solver) contexts(n *Node) (w, h style.ResolveContext) {
	w = style.NewContext(s.viewport)
	h = w
	if p := n.parent; p != nil {
		if pw, ok := p.size(0); ok {
			w = w.WithParent(pw)
		}
		if ph, ok := p.size(1); ok {
			h = h.WithParent(ph)
		}
	}
	return w, h
}

// size returns the best known size of n on axis: the resolved style value
// from this pass, else the last computed layout.
func (n *Node) size(axis int) (float32, bool) {
	if n.hasRes[axis] {
		return n.resolved[axis], true
	}
	d := n.fn.Layout.Dimensions[axis]
	if flex.FloatIsUndefined(d) || d <= 0 {
		return 0, false
	}
	return d, true
}

// dimension translates a size constraint. axis >= 0 records the resolved
// value for descendants.
func (s *Solver) dimension(n *Node, c style.Constraint, ctx style.ResolveContext, auto flex.Value, axis int) flex.Value {
	if axis >= 0 {
		n.hasRes[axis] = false
	}
	if l, ok := c.AsLength(); ok {
		switch l.Unit {
		case style.UnitPx:
			if axis >= 0 {
				n.resolved[axis], n.hasRes[axis] = l.Value, true
			}
			return point(l.Value)
		case style.UnitPercent:
			if n.parent == nil {
				return auto
			}
			if axis >= 0 && ctx.HasParent {
				n.resolved[axis], n.hasRes[axis] = ctx.Parent*l.Value/100, true
			}
			return flex.Value{Value: l.Value, Unit: flex.UnitPercent}
		default:
			return auto
		}
	}
	v, ok := style.Resolve(c, ctx)
	if !ok {
		return auto
	}
	if axis >= 0 {
		n.resolved[axis], n.hasRes[axis] = v, true
	}
	return point(v)
}

func (s *Solver) length(n *Node, l style.Length, auto flex.Value) flex.Value {
	switch l.Unit {
	case style.UnitPx:
		return point(l.Value)
	case style.UnitPercent:
		if n.parent == nil {
			return auto
		}
		return flex.Value{Value: l.Value, Unit: flex.UnitPercent}
	default:
		return auto
	}
}

func (s *Solver) edges(n *Node, dst *[flex.EdgeCount]flex.Value, e style.Edges, auto flex.Value) {
	dst[flex.EdgeTop] = s.length(n, e.Top, auto)
	dst[flex.EdgeRight] = s.length(n, e.Right, auto)
	dst[flex.EdgeBottom] = s.length(n, e.Bottom, auto)
	dst[flex.EdgeLeft] = s.length(n, e.Left, auto)
}

// applyGap emulates the parent's gap with a leading margin on every child
// after the first along the parent's main axis.
func (s *Solver) applyGap(n *Node, fs *flex.Style) {
	p := n.parent
	if p == nil || p.style.Gap.Unit != style.UnitPx || p.style.Gap.Value == 0 {
		return
	}
	if len(p.fn.Children) == 0 || p.fn.Children[0] == n.fn {
		return
	}
	edge := flex.EdgeTop
	switch p.style.Direction {
	case style.Row:
		edge = flex.EdgeLeft
	case style.RowReverse:
		edge = flex.EdgeRight
	case style.ColumnReverse:
		edge = flex.EdgeBottom
	}
	m := fs.Margin[edge]
	switch m.Unit {
	case flex.UnitPoint:
		fs.Margin[edge] = point(m.Value + p.style.Gap.Value)
	case flex.UnitUndefined:
		fs.Margin[edge] = point(p.style.Gap.Value)
	}
}

func flexDirection(d style.Direction) flex.FlexDirection {
	switch d {
	case style.Row:
		return flex.FlexDirectionRow
	case style.RowReverse:
		return flex.FlexDirectionRowReverse
	case style.ColumnReverse:
		return flex.FlexDirectionColumnReverse
	default:
		return flex.FlexDirectionColumn
	}
}

func justify(j style.Justify) flex.Justify {
	switch j {
	case style.JustifyCenter:
		return flex.JustifyCenter
	case style.JustifyEnd:
		return flex.JustifyFlexEnd
	case style.JustifySpaceBetween:
		return flex.JustifySpaceBetween
	case style.JustifySpaceAround, style.JustifySpaceEvenly:
		return flex.JustifySpaceAround
	default:
		return flex.JustifyFlexStart
	}
}

func align(a style.Align, def flex.Align) flex.Align {
	switch a {
	case style.AlignStart:
		return flex.AlignFlexStart
	case style.AlignCenter:
		return flex.AlignCenter
	case style.AlignEnd:
		return flex.AlignFlexEnd
	case style.AlignStretch:
		return flex.AlignStretch
	case style.AlignBaseline:
		return flex.AlignBaseline
	default:
		return def
	}
}
