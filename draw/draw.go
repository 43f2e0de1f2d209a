// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package draw defines the renderer-neutral draw commands emitted by
// widget render functions and middleware overlays.
package draw

import (
	"math"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/widget"
)

// Kind is the command variant.
type Kind uint8

const (
	// KindQuad is a solid rectangle with optional border and rounded corners.
	KindQuad Kind = iota
	// KindImage is a textured rectangle.
	KindImage
	// KindText is a shaped text run.
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindQuad:
		return "quad"
	case KindImage:
		return "image"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Command is one draw primitive in logical pixels.
type Command struct {
	Kind Kind
	Rect geom.Rect
	// Clip is the scissor rectangle, used when HasClip is set.
	Clip    geom.Rect
	HasClip bool
	Color   style.Color
	Z       float32

	// Quad fields.
	BorderColor style.Color
	BorderWidth float32
	Radius      float32

	// Image fields.
	Texture uint32
	UV      geom.Rect
	Sampler widget.SamplerMode

	// Text fields. Rect.X/Y is the run origin and Baseline is measured from
	// it.
	Text     *text.ShapedResult
	Baseline float32
}

// Quad returns a solid quad command.
func Quad(r geom.Rect, c style.Color) Command {
	return Command{Kind: KindQuad, Rect: r, Color: c}
}

// Image returns a textured quad command.
func Image(r geom.Rect, texture uint32, uv geom.Rect, tint style.Color, sampler widget.SamplerMode) Command {
	return Command{Kind: KindImage, Rect: r, Texture: texture, UV: uv, Color: tint, Sampler: sampler}
}

// Text returns a text run command anchored at origin.
func Text(origin geom.Point, res *text.ShapedResult, c style.Color) Command {
	cmd := Command{Kind: KindText, Rect: geom.Rect{X: origin.X, Y: origin.Y}, Text: res, Color: c}
	if res != nil {
		cmd.Rect.W = res.Inner.Bounds.W
		cmd.Rect.H = res.Inner.Bounds.H
		cmd.Baseline = res.Inner.Baseline
	}
	return cmd
}

// Translucent reports whether the command needs blending against what is
// behind it: text, any alpha below one, or a border or rounded corner.
func (c *Command) Translucent() bool {
	if c.Kind == KindText {
		return true
	}
	if !c.Color.IsOpaque() {
		return true
	}
	if c.Kind == KindQuad && (c.BorderWidth > 0 || c.Radius > 0) {
		return true
	}
	return false
}

// ClampedRadius returns Radius limited to half the shorter side.
func (c *Command) ClampedRadius() float32 {
	r := c.Radius
	if !(r > 0) {
		return 0
	}
	half := float32(math.Min(float64(c.Rect.W), float64(c.Rect.H))) / 2
	if !(half > 0) {
		return 0
	}
	return min(r, half)
}

// Visible reports whether the command can produce pixels.
func (c *Command) Visible() bool {
	switch c.Kind {
	case KindText:
		return c.Text != nil && len(c.Text.Inner.Glyphs) > 0 && c.Color.IsVisible()
	case KindQuad:
		if c.Rect.Empty() {
			return false
		}
		return c.Color.IsVisible() || (c.BorderWidth > 0 && c.BorderColor.IsVisible())
	default:
		return !c.Rect.Empty() && c.Color.IsVisible()
	}
}

// Bounds returns the area the command may touch, already clipped.
func (c *Command) Bounds() geom.Rect {
	if !c.HasClip {
		return c.Rect
	}
	return c.Rect.Intersect(c.Clip)
}
