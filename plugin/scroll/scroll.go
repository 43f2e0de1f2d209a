// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scroll provides scrollable containers and scrollbars.
package scroll

import (
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
	KindContainer widget.Kind = "scroll_container"
	KindScrollbar widget.Kind = "scrollbar"
)

// DefaultWheelStep is the distance one wheel notch scrolls.
const DefaultWheelStep = 40

// Container clips its children and shifts them by Offset.
type Container struct {
	Offset geom.Point
	// Horizontal enables scrolling on the x axis.
	Horizontal bool
}

func (*Container) Kind() widget.Kind { return KindContainer }

// Scrollbar shows and drags the offset of a container.
type Scrollbar struct {
	Target     tree.NodeID
	Horizontal bool
	Track      style.Color
	Thumb      style.Color
	ThumbHover style.Color

	hovered bool
}

// NewScrollbar returns a vertical scrollbar for target.
func NewScrollbar(target tree.NodeID) *Scrollbar {
	return &Scrollbar{
		Target:     target,
		Track:      style.RGBA(0, 0, 0, 0.08),
		Thumb:      style.RGBA(0, 0, 0, 0.35),
		ThumbHover: style.RGBA(0, 0, 0, 0.55),
	}
}

func (*Scrollbar) Kind() widget.Kind { return KindScrollbar }

// Plugin registers the scroll kinds and the wheel and drag interceptor.
type Plugin struct {
	// WheelStep overrides DefaultWheelStep when positive.
	WheelStep float32

	drag struct {
		bar    tree.NodeID
		origin geom.Point
		start  geom.Point
	}
}

func (*Plugin) Name() string { return "scroll" }

func (p *Plugin) Build(r *plugin.Registry) error {
	if err := r.Register(plugin.Descriptor{
		Kind:   KindContainer,
		Render: func(c *plugin.RenderContext) { c.List.Box(c.Rect, c.Style) },
		Overflow: func(c *plugin.Context) (x, y style.Overflow) {
			x = style.Hidden
			if c.Widget.(*Container).Horizontal {
				x = style.Scroll
			}
			return x, style.Scroll
		},
		ScrollOffset: func(c *plugin.Context) geom.Point { return c.Widget.(*Container).Offset },
	}); err != nil {
		return err
	}
	if err := r.Register(plugin.Descriptor{
		Kind:   KindScrollbar,
		Render: renderScrollbar,
		OnHover: func(c *plugin.Context, on bool) bool {
			sb := c.Widget.(*Scrollbar)
			if sb.hovered == on {
				return false
			}
			sb.hovered = on
			return true
		},
	}); err != nil {
		return err
	}
	r.AddInterceptor(p.intercept)
	return nil
}

func (p *Plugin) step() float32 {
	if p.WheelStep > 0 {
		return p.WheelStep
	}
	return DefaultWheelStep
}

func (p *Plugin) intercept(d *event.Dispatcher, t *tree.Tree, e event.Event) event.HandleStatus {
	switch e := e.(type) {
	case event.MouseScroll:
		id, ok := enclosing(t, d.Hovered)
		if !ok {
			return event.Ignored
		}
		delta := geom.Pt(-e.Delta.X*p.step(), -e.Delta.Y*p.step())
		if ScrollBy(t, id, delta) {
			return event.Consumed
		}
		return event.Handled
	case event.MouseButton:
		if e.Button != event.ButtonLeft {
			return event.Ignored
		}
		if !e.Pressed {
			if p.drag.bar.IsZero() {
				return event.Ignored
			}
			p.drag.bar = tree.NodeID{}
			return event.Consumed
		}
		w, ok := t.Widget(d.Hovered)
		if !ok {
			return event.Ignored
		}
		sb, ok := w.(*Scrollbar)
		if !ok {
			return event.Ignored
		}
		c, ok := container(t, sb.Target)
		if !ok {
			return event.Ignored
		}
		p.drag.bar = d.Hovered
		p.drag.origin = d.Mouse
		p.drag.start = c.Offset
		return event.Consumed
	case event.MouseMoved:
		if p.drag.bar.IsZero() {
			return event.Ignored
		}
		w, ok := t.Widget(p.drag.bar)
		if !ok {
			p.drag.bar = tree.NodeID{}
			return event.Ignored
		}
		sb := w.(*Scrollbar)
		track, _ := t.Layout(p.drag.bar)
		_, content, ok := extent(t, sb.Target)
		if !ok {
			return event.Ignored
		}
		moved := e.Pos.Sub(p.drag.origin)
		target := p.drag.start
		if sb.Horizontal {
			target.X += moved.X * ratio(content.W, track.W)
		} else {
			target.Y += moved.Y * ratio(content.H, track.H)
		}
		c, _ := container(t, sb.Target)
		ScrollBy(t, sb.Target, target.Sub(c.Offset))
		return event.Consumed
	}
	return event.Ignored
}

func ratio(content, track float32) float32 {
	if track <= 0 {
		return 0
	}
	return content / track
}

// enclosing returns id or its nearest ancestor that is a scroll container.
func enclosing(t *tree.Tree, id tree.NodeID) (tree.NodeID, bool) {
	if _, ok := container(t, id); ok {
		return id, true
	}
	for a := range t.Ancestors(id) {
		if _, ok := container(t, a); ok {
			return a, true
		}
	}
	return tree.NodeID{}, false
}

func container(t *tree.Tree, id tree.NodeID) (*Container, bool) {
	w, ok := t.Widget(id)
	if !ok {
		return nil, false
	}
	c, ok := w.(*Container)
	return c, ok
}

// extent returns the visible size of a container and the size of its
// content, both in logical pixels.
func extent(t *tree.Tree, id tree.NodeID) (view, content geom.Size, ok bool) {
	r, ok := t.Layout(id)
	if !ok {
		return geom.Size{}, geom.Size{}, false
	}
	var maxX, maxY float32
	for _, c := range t.Children(id) {
		lr, _ := t.LocalRect(c)
		maxX = max(maxX, lr.MaxX())
		maxY = max(maxY, lr.MaxY())
	}
	return r.Size(), geom.Size{W: max(maxX, r.W), H: max(maxY, r.H)}, true
}

// ScrollBy moves the offset of container id by delta, clamped to its
// content. It marks the container Transform and reports whether the
// offset changed.
func ScrollBy(t *tree.Tree, id tree.NodeID, delta geom.Point) bool {
	c, ok := container(t, id)
	if !ok {
		return false
	}
	view, content, _ := extent(t, id)
	next := c.Offset.Add(delta)
	next.Y = clamp(next.Y, 0, content.H-view.H)
	if c.Horizontal {
		next.X = clamp(next.X, 0, content.W-view.W)
	} else {
		next.X = 0
	}
	if next == c.Offset {
		return false
	}
	c.Offset = next
	t.MarkDirty(id, dirty.Transform)
	for _, bar := range bars(t, id) {
		t.MarkDirty(bar, dirty.ColorOnly)
	}
	return true
}

// bars returns the scrollbars targeting id among its siblings and
// children.
func bars(t *tree.Tree, id tree.NodeID) []tree.NodeID {
	var out []tree.NodeID
	scan := func(ids []tree.NodeID) {
		for _, c := range ids {
			if w, ok := t.Widget(c); ok {
				if sb, ok := w.(*Scrollbar); ok && sb.Target == id {
					out = append(out, c)
				}
			}
		}
	}
	scan(t.Children(id))
	if p, ok := t.Parent(id); ok {
		scan(t.Children(p))
	}
	return out
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}

func renderScrollbar(c *plugin.RenderContext) {
	sb := c.Widget.(*Scrollbar)
	c.List.Quad(c.Rect, sb.Track)
	target, ok := container(c.Tree, sb.Target)
	if !ok {
		return
	}
	view, content, ok := extent(c.Tree, sb.Target)
	if !ok {
		return
	}
	thumb := c.Rect
	if sb.Horizontal {
		if content.W <= view.W {
			return
		}
		thumb.W = c.Rect.W * view.W / content.W
		thumb.X += c.Rect.W * target.Offset.X / content.W
	} else {
		if content.H <= view.H {
			return
		}
		thumb.H = c.Rect.H * view.H / content.H
		thumb.Y += c.Rect.H * target.Offset.Y / content.H
	}
	col := sb.Thumb
	if sb.hovered {
		col = sb.ThumbHover
	}
	cmd := draw.Quad(thumb, col)
	cmd.Radius = min(thumb.W, thumb.H) / 2
	c.List.Push(cmd)
}
