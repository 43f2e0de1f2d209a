// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dock provides resizable splitters and tab stacks.
//
// A Splitter divides its space between exactly two children at Ratio. A
// Tabs node shows one child at a time under a strip of titles. Both are
// driven by an interceptor that consumes splitter drags, tab clicks and
// tab drags before ordinary widget dispatch sees them.
package dock

import (
	"math"
	"slices"

	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// Widget kinds.
const (
	KindSplitter widget.Kind = "dock_splitter"
	KindTabs     widget.Kind = "dock_tabs"
)

// Layout metrics in logical pixels.
const (
	HandleSize = 6
	TabHeight  = 28
	minRatio   = 0.05
	dragSlop   = 4
)

// Splitter shares its space between two children.
type Splitter struct {
	Vertical bool // children stacked top to bottom
	Ratio    float32
	Handle   style.Color
	Active   style.Color

	dragging bool
}

// NewSplitter returns a horizontal splitter at ratio.
func NewSplitter(ratio float32) *Splitter {
	return &Splitter{
		Ratio:  ratio,
		Handle: style.RGBA(0, 0, 0, 0.15),
		Active: style.Hex(0x3d7eff),
	}
}

func (*Splitter) Kind() widget.Kind { return KindSplitter }

// Tabs shows the child at Active.
type Tabs struct {
	Titles   []string
	Active   int
	FontID   uint32
	Size     float32
	Strip    style.Color
	Tab      style.Color
	Selected style.Color
	Label    style.Color
	OnChange func(int)
}

// NewTabs returns a tab stack with the given titles.
func NewTabs(titles ...string) *Tabs {
	return &Tabs{
		Titles:   titles,
		Strip:    style.Hex(0xe8e8e8),
		Tab:      style.Hex(0xd8d8d8),
		Selected: style.White,
		Label:    style.Black,
	}
}

func (*Tabs) Kind() widget.Kind { return KindTabs }

// Plugin registers the dock kinds and their interceptor.
type Plugin struct {
	split tree.NodeID

	tabs     tree.NodeID
	tab      int
	origin   geom.Point
	dragging bool
}

func (*Plugin) Name() string { return "dock" }

func (p *Plugin) Build(r *plugin.Registry) error {
	if err := r.Register(plugin.Descriptor{
		Kind:          KindSplitter,
		Render:        renderSplitter,
		ClipsChildren: func(*plugin.Context) bool { return true },
	}); err != nil {
		return err
	}
	if err := r.Register(plugin.Descriptor{
		Kind:          KindTabs,
		Render:        renderTabs,
		ClipsChildren: func(*plugin.Context) bool { return true },
	}); err != nil {
		return err
	}
	r.AddInterceptor(p.intercept)
	return nil
}

// Apply pushes the widget state of a splitter or tab stack into its
// children's styles. Builders call it once after adding the children;
// the interceptor calls it after every change.
func Apply(t *tree.Tree, id tree.NodeID) {
	w, ok := t.Widget(id)
	if !ok {
		return
	}
	switch w := w.(type) {
	case *Splitter:
		applySplit(t, id, w)
	case *Tabs:
		applyTabs(t, id, w)
	}
}

func applySplit(t *tree.Tree, id tree.NodeID, s *Splitter) {
	s.Ratio = min(max(s.Ratio, minRatio), 1-minRatio)
	t.UpdateStyle(id, func(st *style.Style) {
		st.Direction = style.Row
		if s.Vertical {
			st.Direction = style.Column
		}
		st.Gap = style.Px(HandleSize)
	})
	kids := t.Children(id)
	for i, c := range kids {
		if i > 1 {
			break
		}
		share := s.Ratio
		if i == 1 {
			share = 1 - s.Ratio
		}
		t.UpdateStyle(c, func(st *style.Style) {
			st.Grow = share
			st.Shrink = 1
			st.Basis = style.Px(0)
		})
	}
}

func applyTabs(t *tree.Tree, id tree.NodeID, tb *Tabs) {
	kids := t.Children(id)
	if len(kids) > 0 {
		tb.Active = min(max(tb.Active, 0), len(kids)-1)
	}
	t.UpdateStyle(id, func(st *style.Style) { st.Padding.Top = style.Px(TabHeight) })
	for i, c := range kids {
		show := i == tb.Active
		t.UpdateStyle(c, func(st *style.Style) {
			st.Display = style.DisplayNone
			if show {
				st.Display = style.DisplayFlex
				st.Grow = 1
			}
		})
	}
}

// SetActive selects tab i and reports whether the selection changed.
func SetActive(t *tree.Tree, id tree.NodeID, i int) bool {
	w, ok := t.Widget(id)
	if !ok {
		return false
	}
	tb, ok := w.(*Tabs)
	if !ok || i < 0 || i >= len(t.Children(id)) || i == tb.Active {
		return false
	}
	tb.Active = i
	applyTabs(t, id, tb)
	t.MarkDirty(id, dirty.ColorOnly)
	if tb.OnChange != nil {
		tb.OnChange(i)
	}
	return true
}

// tabAt returns the tab index under p, or -1.
func tabAt(r geom.Rect, n int, p geom.Point) int {
	if n == 0 || p.Y < r.Y || p.Y >= r.Y+TabHeight || p.X < r.X || p.X >= r.MaxX() {
		return -1
	}
	w := r.W / float32(n)
	return min(int((p.X-r.X)/w), n-1)
}

func (p *Plugin) intercept(d *event.Dispatcher, t *tree.Tree, e event.Event) event.HandleStatus {
	switch e := e.(type) {
	case event.MouseButton:
		if e.Button != event.ButtonLeft {
			return event.Ignored
		}
		if e.Pressed {
			return p.press(d, t)
		}
		return p.release(d, t)
	case event.MouseMoved:
		return p.move(t, e.Pos)
	}
	return event.Ignored
}

func (p *Plugin) press(d *event.Dispatcher, t *tree.Tree) event.HandleStatus {
	w, ok := t.Widget(d.Hovered)
	if !ok {
		return event.Ignored
	}
	r, _ := t.Layout(d.Hovered)
	switch w := w.(type) {
	case *Splitter:
		// The hovered splitter itself, not a child, is the handle gap.
		w.dragging = true
		p.split = d.Hovered
		t.MarkDirty(d.Hovered, dirty.ColorOnly)
		return event.Consumed
	case *Tabs:
		i := tabAt(r, len(t.Children(d.Hovered)), d.Mouse)
		if i < 0 {
			return event.Ignored
		}
		p.tabs, p.tab, p.origin, p.dragging = d.Hovered, i, d.Mouse, false
		return event.Consumed
	}
	return event.Ignored
}

func (p *Plugin) release(d *event.Dispatcher, t *tree.Tree) event.HandleStatus {
	switch {
	case !p.split.IsZero():
		if w, ok := t.Widget(p.split); ok {
			w.(*Splitter).dragging = false
			t.MarkDirty(p.split, dirty.ColorOnly)
		}
		p.split = tree.NodeID{}
		return event.Consumed
	case !p.tabs.IsZero():
		if !p.dragging {
			SetActive(t, p.tabs, p.tab)
		}
		p.tabs, p.dragging = tree.NodeID{}, false
		return event.Consumed
	}
	return event.Ignored
}

func (p *Plugin) move(t *tree.Tree, pos geom.Point) event.HandleStatus {
	switch {
	case !p.split.IsZero():
		w, ok := t.Widget(p.split)
		if !ok {
			p.split = tree.NodeID{}
			return event.Ignored
		}
		s := w.(*Splitter)
		r, _ := t.Layout(p.split)
		ratio := (pos.X - r.X) / r.W
		if s.Vertical {
			ratio = (pos.Y - r.Y) / r.H
		}
		if math.IsNaN(float64(ratio)) || ratio == s.Ratio {
			return event.Consumed
		}
		s.Ratio = ratio
		applySplit(t, p.split, s)
		return event.Consumed
	case !p.tabs.IsZero():
		w, ok := t.Widget(p.tabs)
		if !ok {
			p.tabs = tree.NodeID{}
			return event.Ignored
		}
		d := pos.Sub(p.origin)
		if !p.dragging && d.X*d.X+d.Y*d.Y < dragSlop*dragSlop {
			return event.Consumed
		}
		p.dragging = true
		r, _ := t.Layout(p.tabs)
		over := tabAt(geom.R(r.X, r.Y, r.W, TabHeight), len(t.Children(p.tabs)), geom.Pt(pos.X, r.Y))
		if over >= 0 && over != p.tab {
			moveTab(t, p.tabs, w.(*Tabs), p.tab, over)
			p.tab = over
		}
		return event.Consumed
	}
	return event.Ignored
}

// moveTab reorders tab from to index to, keeping the selection on the
// same pane.
func moveTab(t *tree.Tree, id tree.NodeID, tb *Tabs, from, to int) {
	if !t.MoveChild(id, from, to) {
		return
	}
	if from < len(tb.Titles) && to < len(tb.Titles) {
		title := tb.Titles[from]
		tb.Titles = slices.Delete(tb.Titles, from, from+1)
		tb.Titles = slices.Insert(tb.Titles, to, title)
	}
	switch {
	case tb.Active == from:
		tb.Active = to
	case from < tb.Active && tb.Active <= to:
		tb.Active--
	case to <= tb.Active && tb.Active < from:
		tb.Active++
	}
	t.MarkDirty(id, dirty.ColorOnly)
}

func renderSplitter(c *plugin.RenderContext) {
	c.List.Box(c.Rect, c.Style)
	s := c.Widget.(*Splitter)
	kids := c.Tree.Children(c.Node)
	if len(kids) == 0 {
		return
	}
	first, _ := c.Tree.LocalRect(kids[0])
	handle := geom.R(c.Rect.X+first.MaxX(), c.Rect.Y, HandleSize, c.Rect.H)
	if s.Vertical {
		handle = geom.R(c.Rect.X, c.Rect.Y+first.MaxY(), c.Rect.W, HandleSize)
	}
	col := s.Handle
	if s.dragging {
		col = s.Active
	}
	c.List.Quad(handle, col)
}

func renderTabs(c *plugin.RenderContext) {
	c.List.Box(c.Rect, c.Style)
	tb := c.Widget.(*Tabs)
	strip := geom.R(c.Rect.X, c.Rect.Y, c.Rect.W, TabHeight)
	c.List.Quad(strip, tb.Strip)
	n := len(c.Tree.Children(c.Node))
	if n == 0 {
		return
	}
	w := c.Rect.W / float32(n)
	for i := range n {
		r := geom.R(strip.X+float32(i)*w, strip.Y, w-1, TabHeight)
		col := tb.Tab
		if i == tb.Active {
			col = tb.Selected
		}
		c.List.Push(draw.Quad(r, col))
		if i >= len(tb.Titles) {
			continue
		}
		res, ok := c.Shape(widget.TextSpec{Text: tb.Titles[i], FontID: tb.FontID, Size: tabFont(tb.Size)})
		if !ok {
			continue
		}
		b := res.Inner.Bounds
		c.List.Text(geom.Pt(r.X+(r.W-b.W)/2, r.Y+(r.H-b.H)/2), res, tb.Label)
	}
}

func tabFont(s float32) float32 {
	if s <= 0 {
		return 13
	}
	return s
}
