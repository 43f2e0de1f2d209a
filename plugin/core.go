// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plugin

import (
	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/widget"
)

// Control metrics in logical pixels.
const (
	buttonPadX = 12
	buttonPadY = 6
	inputPadX  = 6
	inputPadY  = 4
	inputMinW  = 120
	tooltipPad = 4
	focusWidth = 2
	cursorW    = 1
)

// CorePlugin registers the built-in widget kinds.
type CorePlugin struct{}

func (CorePlugin) Name() string { return "core" }

func (CorePlugin) Build(r *Registry) error {
	box := func(c *RenderContext) { c.List.Box(c.Rect, c.Style) }
	for _, d := range []Descriptor{
		{Kind: widget.KindContainer, Render: box},
		{Kind: widget.KindRow, Render: box},
		{Kind: widget.KindColumn, Render: box},
		{Kind: widget.KindText, Render: renderText, Measure: measureShaped(0, 0, 0)},
		{
			Kind:    widget.KindButton,
			Render:  renderButton,
			Measure: measureShaped(buttonPadX, buttonPadY, 0),
			OnHover: func(c *Context, on bool) bool { return c.Widget.(*widget.Button).SetHovered(on) },
			OnPress: func(c *Context, on bool) bool { return c.Widget.(*widget.Button).SetPressed(on) },
			OnClick: func(c *Context) bool {
				if b := c.Widget.(*widget.Button); b.OnClick != nil {
					b.OnClick()
				}
				return false
			},
		},
		{
			Kind:    widget.KindTextInput,
			Render:  renderTextInput,
			Measure: measureShaped(inputPadX, inputPadY, inputMinW),
			OnFocus: func(c *Context, on bool) bool {
				in := c.Widget.(*widget.TextInput)
				if in.Focused == on {
					return false
				}
				in.Focused = on
				return true
			},
			OnClick: func(*Context) bool { return true },
			OnKey:   inputKey,
			OnChar: func(c *Context, r rune) event.HandleStatus {
				if c.Widget.(*widget.TextInput).Insert(r) {
					c.Tree.TouchText(c.Node)
					return event.Consumed
				}
				return event.Ignored
			},
		},
		{Kind: widget.KindImage, Render: renderImage, Measure: measureImage},
		{
			Kind:    widget.KindTooltip,
			Render:  renderTooltip,
			Measure: measureShaped(tooltipPad, tooltipPad, 0),
			OnHover: func(c *Context, on bool) bool {
				tip := c.Widget.(*widget.Tooltip)
				if tip.Visible == on {
					return false
				}
				tip.Visible = on
				return true
			},
		},
	} {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// measureShaped sizes a text-bearing widget by its shaped text plus
// padding, at least minW wide.
func measureShaped(padX, padY, minW float32) func(*MeasureContext) geom.Size {
	return func(c *MeasureContext) geom.Size {
		sh, ok := c.Widget.(widget.Shaped)
		if !ok {
			return geom.Size{}
		}
		spec := sh.ShapeInput()
		wrap, hasWrap := float32(0), false
		if spec.Wrap && c.Avail.HasWidth {
			wrap, hasWrap = max(c.Avail.Width-2*padX, 0), true
		}
		inner, ok := c.Shape(spec, wrap, hasWrap)
		if !ok {
			// Unshaped text still gets a line box so layout is stable.
			return geom.Size{W: max(2*padX, minW), H: spec.Size + 2*padY}
		}
		return geom.Size{
			W: max(inner.Bounds.W+2*padX, minW),
			H: inner.Bounds.H + 2*padY,
		}
	}
}

func measureImage(c *MeasureContext) geom.Size {
	return c.Widget.(*widget.Image).Natural
}

func renderText(c *RenderContext) {
	c.List.Box(c.Rect, c.Style)
	t := c.Widget.(*widget.Text)
	c.List.Text(c.Rect.Min(), c.Text, t.TextColor)
}

// centered returns the origin that centers res in r.
func centered(r geom.Rect, res *text.ShapedResult) geom.Point {
	if res == nil {
		return r.Min()
	}
	b := res.Inner.Bounds
	return geom.Pt(r.X+(r.W-b.W)/2, r.Y+(r.H-b.H)/2)
}

func renderButton(c *RenderContext) {
	b := c.Widget.(*widget.Button)
	c.List.Push(draw.Command{
		Kind:        draw.KindQuad,
		Rect:        c.Rect,
		Color:       b.Fill(),
		BorderColor: c.Style.BorderColor,
		BorderWidth: c.Style.BorderWidth,
		Radius:      c.Style.BorderRadius,
	})
	c.List.Text(centered(c.Rect, c.Text), c.Text, b.TextColor)
}

func renderTextInput(c *RenderContext) {
	in := c.Widget.(*widget.TextInput)
	border, width := c.Style.BorderColor, c.Style.BorderWidth
	if in.Focused {
		border, width = in.FocusColor, max(width, focusWidth)
	}
	c.List.Push(draw.Command{
		Kind:        draw.KindQuad,
		Rect:        c.Rect,
		Color:       in.Background,
		BorderColor: border,
		BorderWidth: width,
		Radius:      c.Style.BorderRadius,
	})

	origin := geom.Pt(c.Rect.X+inputPadX, c.Rect.Y+inputPadY)
	if c.Text != nil {
		origin.Y = c.Rect.Y + (c.Rect.H-c.Text.Inner.Bounds.H)/2
	}
	col := in.TextColor
	if in.Value == "" {
		col = col.WithAlpha(col.A * 0.5)
	}
	c.List.Text(origin, c.Text, col)

	if !in.Focused {
		return
	}
	x := origin.X
	if in.Cursor > 0 && in.Cursor <= len(in.Value) {
		spec := in.ShapeInput()
		spec.Text = in.Value[:in.Cursor]
		if pre, ok := c.Shape(spec); ok {
			x += pre.Inner.Bounds.W
		}
	}
	h := c.Rect.H - 2*inputPadY
	c.List.Quad(geom.R(x, c.Rect.Y+inputPadY, cursorW, h), in.TextColor)
}

func inputKey(c *Context, k event.Key) event.HandleStatus {
	in := c.Widget.(*widget.TextInput)
	var edited, moved bool
	switch k.Code {
	case event.KeyBackspace:
		edited = in.Backspace()
	case event.KeyDelete:
		edited = in.Delete()
	case event.KeyLeft:
		moved = in.MoveLeft()
	case event.KeyRight:
		moved = in.MoveRight()
	case event.KeyHome:
		moved = in.Cursor != 0
		in.Cursor = 0
	case event.KeyEnd:
		moved = in.Cursor != len(in.Value)
		in.Cursor = len(in.Value)
	case event.KeyEnter:
		if in.OnSubmit != nil {
			in.OnSubmit(in.Value)
		}
		return event.Consumed
	default:
		return event.Ignored
	}
	switch {
	case edited:
		c.Tree.TouchText(c.Node)
	case moved:
		c.Tree.MarkDirty(c.Node, dirty.ColorOnly)
	}
	return event.Consumed
}

func renderImage(c *RenderContext) {
	c.List.Box(c.Rect, c.Style)
	im := c.Widget.(*widget.Image)
	c.List.Push(draw.Image(c.Rect, im.Texture, im.UV, im.Tint, im.Sampler))
}

func renderTooltip(c *RenderContext) {
	tip := c.Widget.(*widget.Tooltip)
	if !tip.Visible {
		return
	}
	c.List.Push(draw.Command{
		Kind:   draw.KindQuad,
		Rect:   c.Rect,
		Color:  tip.Background,
		Radius: c.Style.BorderRadius,
	})
	c.List.Text(geom.Pt(c.Rect.X+tooltipPad, c.Rect.Y+tooltipPad), c.Text, tip.TextColor)
}

// TextColor is the foreground color of a text-bearing core widget.
func TextColor(w widget.Widget) (style.Color, bool) {
	switch w := w.(type) {
	case *widget.Text:
		return w.TextColor, true
	case *widget.Button:
		return w.TextColor, true
	case *widget.TextInput:
		return w.TextColor, true
	case *widget.Tooltip:
		return w.TextColor, true
	}
	return style.Color{}, false
}
