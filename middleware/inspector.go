// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package middleware

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// Inspector outlines the hovered node and its ancestors and labels it
// with its kind, id and size. Its key toggles it.
type Inspector struct {
	Key      event.KeyCode
	Enabled  bool
	Color    style.Color
	Label    style.Color
	LabelBg  style.Color
	FontSize float32
	// MaxLabel is the label width in terminal-style columns.
	MaxLabel int
}

// NewInspector returns a disabled inspector bound to F12.
func NewInspector() *Inspector {
	return &Inspector{
		Key:      event.KeyF12,
		Color:    style.Hex(0xff3d7e),
		Label:    style.White,
		LabelBg:  style.RGBA(0, 0, 0, 0.75),
		FontSize: 12,
		MaxLabel: 48,
	}
}

func (*Inspector) Name() string { return "inspector" }

func (in *Inspector) Keybinds(r *KeybindRegistry) {
	r.Register(in.Key, 0, in.Name(), func(*Context) bool {
		in.Enabled = !in.Enabled
		return true
	}, 100)
}

func (in *Inspector) PostRender(c *Context, overlay *draw.List) {
	if !in.Enabled || c.Tree == nil || c.Dispatcher == nil {
		return
	}
	id := c.Dispatcher.Hovered
	rect, ok := c.Tree.Layout(id)
	if !ok {
		return
	}
	faint := in.Color
	faint.A *= 0.35
	for p := range c.Tree.Ancestors(id) {
		if r, ok := c.Tree.Layout(p); ok {
			overlay.Outline(r, faint, 1)
		}
	}
	overlay.Outline(rect, in.Color, 2)

	if c.Shape == nil {
		return
	}
	res, ok := c.Shape(widget.TextSpec{Text: in.Describe(c.Tree, id), Size: in.FontSize}, 0, false)
	if !ok {
		return
	}
	b := res.Inner.Bounds
	y := rect.Y - b.H
	if y < 0 {
		y = rect.MaxY()
	}
	overlay.Quad(geom.R(rect.X, y, b.W, b.H), in.LabelBg)
	overlay.Text(geom.Pt(rect.X, y), res, in.Label)
}

// Describe returns the label drawn for id, truncated to MaxLabel columns.
func (in *Inspector) Describe(t *tree.Tree, id tree.NodeID) string {
	w, ok := t.Widget(id)
	if !ok {
		return ""
	}
	rect, _ := t.Layout(id)
	var sb strings.Builder
	if name, ok := t.WidgetID(id); ok {
		sb.WriteString("#")
		sb.WriteString(string(name))
		sb.WriteString(" ")
	}
	sb.WriteString(string(w.Kind()))
	sb.WriteString(" ")
	sb.WriteString(strconv.FormatFloat(float64(rect.W), 'f', -1, 32))
	sb.WriteString("x")
	sb.WriteString(strconv.FormatFloat(float64(rect.H), 'f', -1, 32))
	if tc, ok := w.(widget.TextContent); ok && tc.Text() != "" {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(tc.Text()))
	}
	if in.MaxLabel <= 0 {
		return sb.String()
	}
	return runewidth.Truncate(sb.String(), in.MaxLabel, "…")
}
