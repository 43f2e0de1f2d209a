// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package layout

import (
	"testing"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
)

func sized(w, h float32) style.Style {
	var st style.Style
	st.Width = style.PxC(w)
	st.Height = style.PxC(h)
	return st
}

func TestComputeFixedSizes(t *testing.T) {
	s := NewSolver()
	root := s.NewNode(sized(800, 600))
	a := s.NewNode(sized(100, 50))
	b := s.NewNode(sized(200, 60))
	s.Insert(root, a, 0)
	s.Insert(root, b, 1)

	s.Compute(root, geom.Size{W: 1280, H: 720})

	if got := root.LocalRect(); got != geom.R(0, 0, 800, 600) {
		t.Errorf("root = %+v", got)
	}
	if got := a.LocalRect(); got != geom.R(0, 0, 100, 50) {
		t.Errorf("a = %+v", got)
	}
	if got := b.LocalRect(); got != geom.R(0, 50, 200, 60) {
		t.Errorf("b = %+v", got)
	}
}

func TestComputeRowWithPaddingAndGap(t *testing.T) {
	s := NewSolver()
	st := sized(400, 100)
	st.Direction = style.Row
	st.Padding = style.All(style.Px(10))
	st.Gap = style.Px(5)
	root := s.NewNode(st)
	a := s.NewNode(sized(50, 20))
	b := s.NewNode(sized(50, 20))
	s.Insert(root, a, 0)
	s.Insert(root, b, 1)

	s.Compute(root, geom.Size{W: 800, H: 600})

	if got := a.LocalRect(); got.X != 10 || got.Y != 10 {
		t.Errorf("a = %+v, want origin (10,10)", got)
	}
	if got := b.LocalRect(); got.X != 65 {
		t.Errorf("b.X = %v, want 65", got.X)
	}
}

func TestPercentResolvesAgainstParent(t *testing.T) {
	s := NewSolver()
	root := s.NewNode(sized(640, 480))
	var cs style.Style
	cs.Width = style.Calc(style.PercentC(100), style.OpSub, style.PxC(40))
	cs.Height = style.PercentC(50)
	child := s.NewNode(cs)
	s.Insert(root, child, 0)

	s.Compute(root, geom.Size{W: 1280, H: 720})

	got := child.LocalRect()
	if got.W != 600 || got.H != 240 {
		t.Errorf("child = %+v, want 600x240", got)
	}
}

func TestRootPercentFallsBackToAuto(t *testing.T) {
	s := NewSolver()
	var st style.Style
	st.Width = style.PercentC(50)
	root := s.NewNode(st)
	s.SetMeasure(root, func(Available) geom.Size { return geom.Size{W: 120, H: 20} })

	s.Compute(root, geom.Size{W: 1000, H: 500})

	if got := root.LocalRect(); got.W == 500 {
		t.Errorf("root width %v resolved the percent without a parent", got.W)
	}
}

func TestMeasureFunc(t *testing.T) {
	s := NewSolver()
	s.SetInstrumented(true)
	var st style.Style
	st.AlignItems = style.AlignStart
	root := s.NewNode(st)
	leaf := s.NewNode(style.Style{})
	s.SetMeasure(leaf, func(a Available) geom.Size { return geom.Size{W: 120, H: 24} })
	s.Insert(root, leaf, 0)

	m := s.Compute(root, geom.Size{W: 800, H: 600})

	if got := leaf.LocalRect(); got.W != 120 || got.H != 24 {
		t.Errorf("leaf = %+v, want 120x24", got)
	}
	if m.MeasureCalls == 0 {
		t.Error("instrumented pass should count measure calls")
	}
	if m.LayoutRuns != 1 {
		t.Errorf("LayoutRuns = %d", m.LayoutRuns)
	}
}

func TestCacheHitsOnCleanRelayout(t *testing.T) {
	s := NewSolver()
	s.SetInstrumented(true)
	root := s.NewNode(sized(800, 600))
	for i := 0; i < 4; i++ {
		s.Insert(root, s.NewNode(sized(10, 10)), i)
	}
	vp := geom.Size{W: 800, H: 600}
	s.Compute(root, vp)
	m := s.Compute(root, vp)
	if m.LayoutCacheHits == 0 {
		t.Errorf("clean relayout should hit the cache: %+v", m)
	}
}

func TestInsertIntoMeasuredLeaf(t *testing.T) {
	s := NewSolver()
	root := s.NewNode(style.Style{})
	s.SetMeasure(root, func(Available) geom.Size { return geom.Size{W: 1, H: 1} })
	child := s.NewNode(sized(10, 10))
	s.Insert(root, child, 0)
	s.Compute(root, geom.Size{W: 100, H: 100})
	s.Detach(child)
	s.Compute(root, geom.Size{W: 100, H: 100})
}

func TestFreeAndZeroViewport(t *testing.T) {
	s := NewSolver()
	root := s.NewNode(style.Style{})
	child := s.NewNode(style.Style{})
	s.Insert(root, child, 0)
	s.Compute(root, geom.Size{})
	if got := child.LocalRect(); !got.Empty() {
		t.Errorf("zero viewport child = %+v", got)
	}

	s.Free(child)
	if !child.Freed() || s.Len() != 1 {
		t.Errorf("Free: freed=%v len=%d", child.Freed(), s.Len())
	}
	s.SetStyle(child, sized(1, 1))
	s.Invalidate(child)
	if got := child.LocalRect(); got != (geom.Rect{}) {
		t.Errorf("freed LocalRect = %+v", got)
	}
	if m := s.Compute(nil, geom.Size{}); !m.Skipped {
		t.Error("nil root should be skipped")
	}
}
