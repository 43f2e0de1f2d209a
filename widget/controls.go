// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package widget

import (
	"github.com/clipperhouse/uax29/v2/graphemes"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
)

// Button is a clickable label.
type Button struct {
	Label     string
	FontID    uint32
	Size      float32
	TextColor style.Color

	Background style.Color
	HoverColor style.Color
	PressColor style.Color

	OnClick func()

	Hovered bool
	Pressed bool
}

// NewButton returns a button with a neutral palette.
func NewButton(label string) *Button {
	return &Button{
		Label:      label,
		TextColor:  style.Black,
		Background: style.Hex(0xe0e0e0),
		HoverColor: style.Hex(0xd0d0d0),
		PressColor: style.Hex(0xb0b0b0),
	}
}

func (*Button) Kind() Kind { return KindButton }

func (b *Button) Text() string { return b.Label }

func (b *Button) SetText(s string) { b.Label = s }

func (b *Button) Color() style.Color { return b.Background }

func (b *Button) SetColor(c style.Color) { b.Background = c }

func (b *Button) ShapeInput() TextSpec {
	return TextSpec{Text: b.Label, FontID: b.FontID, Size: fontSize(b.Size)}
}

// Fill returns the background for the current interaction state.
func (b *Button) Fill() style.Color {
	switch {
	case b.Pressed && b.PressColor.IsVisible():
		return b.PressColor
	case b.Hovered && b.HoverColor.IsVisible():
		return b.HoverColor
	default:
		return b.Background
	}
}

// SetHovered updates hover state and reports whether it changed.
func (b *Button) SetHovered(on bool) bool {
	if b.Hovered == on {
		return false
	}
	b.Hovered = on
	return true
}

// SetPressed updates press state and reports whether it changed.
func (b *Button) SetPressed(on bool) bool {
	if b.Pressed == on {
		return false
	}
	b.Pressed = on
	return true
}

// TextInput is a single-line editable field. Cursor is a byte offset into
// Value and always sits on a grapheme boundary.
type TextInput struct {
	Value       string
	Placeholder string
	FontID      uint32
	Size        float32
	TextColor   style.Color
	Background  style.Color
	FocusColor  style.Color

	Cursor  int
	Focused bool

	OnChange func(string)
	OnSubmit func(string)
}

// NewTextInput returns an empty input.
func NewTextInput(placeholder string) *TextInput {
	return &TextInput{
		Placeholder: placeholder,
		TextColor:   style.Black,
		Background:  style.White,
		FocusColor:  style.Hex(0x3d7eff),
	}
}

func (*TextInput) Kind() Kind { return KindTextInput }

func (in *TextInput) Text() string { return in.Value }

func (in *TextInput) SetText(s string) {
	in.Value = s
	if in.Cursor > len(s) {
		in.Cursor = len(s)
	}
}

func (in *TextInput) Color() style.Color { return in.Background }

func (in *TextInput) SetColor(c style.Color) { in.Background = c }

// ShapeInput shapes the placeholder while the value is empty.
func (in *TextInput) ShapeInput() TextSpec {
	s := in.Value
	if s == "" {
		s = in.Placeholder
	}
	return TextSpec{Text: s, FontID: in.FontID, Size: fontSize(in.Size)}
}

// Insert places r at the cursor. Control characters are rejected.
func (in *TextInput) Insert(r rune) bool {
	if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
		return false
	}
	in.clampCursor()
	s := string(r)
	in.Value = in.Value[:in.Cursor] + s + in.Value[in.Cursor:]
	in.Cursor += len(s)
	in.changed()
	return true
}

// Backspace deletes the grapheme before the cursor.
func (in *TextInput) Backspace() bool {
	in.clampCursor()
	start := in.prevBoundary(in.Cursor)
	if start == in.Cursor {
		return false
	}
	in.Value = in.Value[:start] + in.Value[in.Cursor:]
	in.Cursor = start
	in.changed()
	return true
}

// Delete removes the grapheme after the cursor.
func (in *TextInput) Delete() bool {
	in.clampCursor()
	end := in.nextBoundary(in.Cursor)
	if end == in.Cursor {
		return false
	}
	in.Value = in.Value[:in.Cursor] + in.Value[end:]
	in.changed()
	return true
}

// MoveLeft moves the cursor back one grapheme.
func (in *TextInput) MoveLeft() bool {
	in.clampCursor()
	p := in.prevBoundary(in.Cursor)
	moved := p != in.Cursor
	in.Cursor = p
	return moved
}

// MoveRight moves the cursor forward one grapheme.
func (in *TextInput) MoveRight() bool {
	in.clampCursor()
	p := in.nextBoundary(in.Cursor)
	moved := p != in.Cursor
	in.Cursor = p
	return moved
}

func (in *TextInput) clampCursor() {
	if in.Cursor < 0 {
		in.Cursor = 0
	}
	if in.Cursor > len(in.Value) {
		in.Cursor = len(in.Value)
	}
}

func (in *TextInput) prevBoundary(pos int) int {
	g := graphemes.FromString(in.Value)
	for g.Next() {
		if g.End() >= pos {
			return g.Start()
		}
	}
	return len(in.Value)
}

func (in *TextInput) nextBoundary(pos int) int {
	g := graphemes.FromString(in.Value)
	for g.Next() {
		if g.Start() >= pos {
			return g.End()
		}
	}
	return len(in.Value)
}

func (in *TextInput) changed() {
	if in.OnChange != nil {
		in.OnChange(in.Value)
	}
}

// SamplerMode selects texture filtering for images.
type SamplerMode uint8

const (
	SamplerLinear SamplerMode = iota
	SamplerNearest
)

// Image draws a registered texture.
type Image struct {
	// Texture is the index returned by the renderer when the texture view
	// was registered.
	Texture uint32
	UV      geom.Rect
	Tint    style.Color
	Sampler SamplerMode
	// Natural is the intrinsic size used when the style leaves the
	// dimensions auto.
	Natural geom.Size
}

// NewImage returns an image covering the full texture.
func NewImage(texture uint32, natural geom.Size) *Image {
	return &Image{Texture: texture, UV: geom.R(0, 0, 1, 1), Tint: style.White, Natural: natural}
}

func (*Image) Kind() Kind { return KindImage }

func (im *Image) Color() style.Color { return im.Tint }

func (im *Image) SetColor(c style.Color) { im.Tint = c }

// Tooltip is a floating label shown while Visible.
type Tooltip struct {
	Content    string
	FontID     uint32
	Size       float32
	TextColor  style.Color
	Background style.Color
	Visible    bool
}

// NewTooltip returns a hidden tooltip.
func NewTooltip(s string) *Tooltip {
	return &Tooltip{
		Content:    s,
		TextColor:  style.White,
		Background: style.RGBA(0.1, 0.1, 0.1, 0.9),
	}
}

func (*Tooltip) Kind() Kind { return KindTooltip }

func (t *Tooltip) Text() string { return t.Content }

func (t *Tooltip) SetText(s string) { t.Content = s }

func (t *Tooltip) Color() style.Color { return t.Background }

func (t *Tooltip) SetColor(c style.Color) { t.Background = c }

func (t *Tooltip) ShapeInput() TextSpec {
	return TextSpec{Text: t.Content, FontID: t.FontID, Size: fontSize(t.Size)}
}
