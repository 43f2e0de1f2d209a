// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package layout adapts node styles to the flex solver.
//
// Each tree node owns exactly one [Node]; the adapter mirrors the tree
// shape into the solver and reads back local rectangles after
// [Solver.Compute]. Styles are translated lazily: constraint expressions
// that need the viewport or the parent size are resolved at compute time,
// and anything unresolvable becomes the solver's auto token.
package layout

import (
	"math"
	"time"

	"github.com/kjk/flex"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
)

// Available describes the space offered to a measured leaf.
// A false Has* flag means the axis is unconstrained.
type Available struct {
	Width     float32
	HasWidth  bool
	Height    float32
	HasHeight bool
}

// MeasureFunc returns the intrinsic content size of a leaf.
type MeasureFunc func(avail Available) geom.Size

// Metrics describes one solver pass. Fields are zero unless the solver is
// instrumented, except Skipped and LayoutRuns.
type Metrics struct {
	SolverTime      time.Duration
	NodesVisited    int
	LayoutCacheHits int
	MeasureCalls    int
	LayoutRuns      int
	Skipped         bool
}

// SolverMillis returns SolverTime in fractional milliseconds.
func (m Metrics) SolverMillis() float64 {
	return float64(m.SolverTime) / float64(time.Millisecond)
}

// Node is the solver-side twin of a tree node.
type Node struct {
	solver   *Solver
	fn       *flex.Node
	parent   *Node
	style    style.Style
	measure  MeasureFunc
	dirty    bool
	freed    bool
	resolved [2]float32
	hasRes   [2]bool
}

// Solver owns solver configuration and per-pass bookkeeping.
//
// Solver is not safe for concurrent use.
type Solver struct {
	config       *flex.Config
	viewport     geom.Size
	instrumented bool
	metrics      Metrics
	live         int
}

// NewSolver creates a solver.
func NewSolver() *Solver {
	cfg := flex.NewConfig()
	cfg.PointScaleFactor = 1
	return &Solver{config: cfg}
}

// SetInstrumented toggles timing and counting in Compute.
func (s *Solver) SetInstrumented(on bool) { s.instrumented = on }

// Instrumented reports whether Compute collects metrics.
func (s *Solver) Instrumented() bool { return s.instrumented }

// Len returns the number of live solver nodes.
func (s *Solver) Len() int { return s.live }

// Viewport returns the size used by the last Compute.
func (s *Solver) Viewport() geom.Size { return s.viewport }

// NewNode creates a detached node with st.
func (s *Solver) NewNode(st style.Style) *Node {
	n := &Node{solver: s, fn: flex.NewNodeWithConfig(s.config), style: st, dirty: true}
	n.fn.Context = n
	s.live++
	return n
}

// Style returns the node's current style.
func (n *Node) Style() style.Style { return n.style }

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Freed reports whether the node was released.
func (n *Node) Freed() bool { return n.freed }

// SetStyle replaces the style. The node is re-translated on the next
// Compute and the solver re-lays it out only if the translated input
// actually differs.
func (s *Solver) SetStyle(n *Node, st style.Style) {
	if n == nil || n.freed {
		return
	}
	n.style = st
	n.dirty = true
	// Children may depend on this node's resolved size.
	for _, c := range n.fn.Children {
		if cn, ok := c.Context.(*Node); ok {
			cn.dirty = true
		}
	}
}

// Insert attaches child under parent at index. Out-of-range indices append.
// A child that already has a parent is moved.
func (s *Solver) Insert(parent, child *Node, index int) {
	if parent == nil || child == nil || parent.freed || child.freed || parent == child {
		return
	}
	if child.parent != nil {
		s.Detach(child)
	}
	if parent.fn.Measure != nil {
		// Measured leaves cannot hold children in the solver.
		parent.fn.SetMeasureFunc(nil)
	}
	if index < 0 || index > len(parent.fn.Children) {
		index = len(parent.fn.Children)
	}
	parent.fn.InsertChild(child.fn, index)
	child.parent = parent
	markChildren(parent)
}

// Detach removes n from its parent.
func (s *Solver) Detach(n *Node) {
	if n == nil || n.parent == nil {
		return
	}
	p := n.parent
	p.fn.RemoveChild(n.fn)
	n.parent = nil
	n.dirty = true
	markChildren(p)
	if len(p.fn.Children) == 0 && p.measure != nil {
		p.installMeasure()
	}
}

// Free detaches n and its remaining children and releases it.
// Using n afterwards is a no-op.
func (s *Solver) Free(n *Node) {
	if n == nil || n.freed {
		return
	}
	s.Detach(n)
	for len(n.fn.Children) > 0 {
		c := n.fn.Children[0]
		if cn, ok := c.Context.(*Node); ok {
			s.Detach(cn)
		} else {
			n.fn.RemoveChild(c)
		}
	}
	n.fn.SetMeasureFunc(nil)
	n.fn.Context = nil
	n.measure = nil
	n.freed = true
	s.live--
}

// SetMeasure installs an intrinsic measure for leaf nodes. The function is
// held back while the node has children.
func (s *Solver) SetMeasure(n *Node, fn MeasureFunc) {
	if n == nil || n.freed {
		return
	}
	n.measure = fn
	if fn == nil {
		n.fn.SetMeasureFunc(nil)
		s.Invalidate(n)
		return
	}
	if len(n.fn.Children) == 0 {
		n.installMeasure()
	}
	s.Invalidate(n)
}

func (n *Node) installMeasure() {
	n.fn.SetMeasureFunc(n.flexMeasure)
}

// Invalidate drops cached layout for n and every ancestor.
func (s *Solver) Invalidate(n *Node) {
	if n == nil || n.freed {
		return
	}
	if n.fn.Measure != nil {
		n.fn.MarkDirty()
		return
	}
	for p := n.fn; p != nil; p = p.Parent {
		p.IsDirty = true
	}
}

// IsDirty reports whether the solver will re-lay out n.
func (n *Node) IsDirty() bool { return n.dirty || n.fn.IsDirty }

func markChildren(p *Node) {
	for _, c := range p.fn.Children {
		if cn, ok := c.Context.(*Node); ok {
			cn.dirty = true
		}
	}
}

func (n *Node) flexMeasure(_ *flex.Node, width float32, widthMode flex.MeasureMode, height float32, heightMode flex.MeasureMode) flex.Size {
	s := n.solver
	if s.instrumented {
		s.metrics.MeasureCalls++
	}
	avail := Available{
		Width:     sanitize(width),
		HasWidth:  widthMode != flex.MeasureModeUndefined && !flex.FloatIsUndefined(width),
		Height:    sanitize(height),
		HasHeight: heightMode != flex.MeasureModeUndefined && !flex.FloatIsUndefined(height),
	}
	var size geom.Size
	if n.measure != nil {
		size = n.measure(avail)
	}
	if widthMode == flex.MeasureModeExactly && avail.HasWidth {
		size.W = avail.Width
	} else if widthMode == flex.MeasureModeAtMost && avail.HasWidth && size.W > avail.Width {
		size.W = avail.Width
	}
	if heightMode == flex.MeasureModeExactly && avail.HasHeight {
		size.H = avail.Height
	} else if heightMode == flex.MeasureModeAtMost && avail.HasHeight && size.H > avail.Height {
		size.H = avail.Height
	}
	return flex.Size{Width: size.W, Height: size.H}
}

// Compute runs the solver for the tree rooted at root against viewport.
// Nodes whose style changed are re-translated top-down first. A
// zero-sized viewport is valid and yields zero-sized auto rects.
func (s *Solver) Compute(root *Node, viewport geom.Size) Metrics {
	s.metrics = Metrics{}
	if root == nil || root.freed {
		s.metrics.Skipped = true
		return s.metrics
	}
	viewport.W = nonNegative(viewport.W)
	viewport.H = nonNegative(viewport.H)
	resize := viewport != s.viewport
	s.viewport = viewport

	var start time.Time
	if s.instrumented {
		start = time.Now()
	}

	s.translateTree(root, resize)

	if s.instrumented {
		s.countDirty(root.fn)
	}
	flex.CalculateLayout(root.fn, viewport.W, viewport.H, flex.DirectionLTR)
	s.metrics.LayoutRuns = 1

	if s.instrumented {
		s.metrics.SolverTime = time.Since(start)
	}
	return s.metrics
}

func (s *Solver) countDirty(fn *flex.Node) {
	s.metrics.NodesVisited++
	if !fn.IsDirty {
		s.metrics.LayoutCacheHits++
		return
	}
	for _, c := range fn.Children {
		s.countDirty(c)
	}
}

func (s *Solver) translateTree(n *Node, force bool) {
	if force || n.dirty {
		s.translate(n)
		n.dirty = false
		force = true
	}
	for _, c := range n.fn.Children {
		if cn, ok := c.Context.(*Node); ok {
			s.translateTree(cn, force)
		}
	}
}

// LocalRect returns the node rect relative to its parent's border box, as
// of the last Compute.
func (n *Node) LocalRect() geom.Rect {
	if n == nil || n.freed {
		return geom.Rect{}
	}
	l := &n.fn.Layout
	return geom.Rect{
		X: sanitize(l.Position[flex.EdgeLeft]),
		Y: sanitize(l.Position[flex.EdgeTop]),
		W: nonNegative(sanitize(l.Dimensions[flex.DimensionWidth])),
		H: nonNegative(sanitize(l.Dimensions[flex.DimensionHeight])),
	}
}

func sanitize(v float32) float32 {
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		return 0
	}
	return v
}

func nonNegative(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	return v
}
