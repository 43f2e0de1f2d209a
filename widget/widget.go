// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package widget defines the built-in widget variants.
//
// A widget is plain data plus a [Kind] tag. Behavior (rendering,
// measurement, event handling) lives in descriptors registered per kind,
// so adding a widget type never requires a type switch elsewhere.
package widget

import "github.com/gogpu/ui/style"

// Kind tags a widget type. Plugins declare their own kinds.
type Kind string

// Built-in kinds.
const (
	KindContainer Kind = "container"
	KindRow       Kind = "row"
	KindColumn    Kind = "column"
	KindText      Kind = "text"
	KindButton    Kind = "button"
	KindTextInput Kind = "text_input"
	KindImage     Kind = "image"
	KindTooltip   Kind = "tooltip"
)

// Widget is any node payload.
type Widget interface {
	Kind() Kind
}

// TextContent is implemented by widgets whose primary content is text.
type TextContent interface {
	Text() string
	SetText(string)
}

// Colored is implemented by widgets with a primary paint color.
type Colored interface {
	Color() style.Color
	SetColor(style.Color)
}

// Shaped is implemented by widgets that need shaped text.
type Shaped interface {
	ShapeInput() TextSpec
}

// TextSpec names the text a widget wants shaped.
type TextSpec struct {
	Text   string
	FontID uint32
	Size   float32
	// Wrap shapes to the node's content width instead of a single line.
	Wrap bool
}

// DefaultFontSize is used when a text widget leaves Size at zero.
const DefaultFontSize = 16

func fontSize(s float32) float32 {
	if s <= 0 {
		return DefaultFontSize
	}
	return s
}

// Container is a plain box.
type Container struct{}

func (*Container) Kind() Kind { return KindContainer }

// Row lays children out horizontally.
type Row struct{}

func (*Row) Kind() Kind { return KindRow }

// Column lays children out vertically.
type Column struct{}

func (*Column) Kind() Kind { return KindColumn }

// Text is a run of styled text.
type Text struct {
	Content   string
	FontID    uint32
	Size      float32
	TextColor style.Color
	Wrap      bool
}

// NewText returns a black text widget.
func NewText(s string, size float32) *Text {
	return &Text{Content: s, Size: size, TextColor: style.Black}
}

func (*Text) Kind() Kind { return KindText }

func (t *Text) Text() string { return t.Content }

func (t *Text) SetText(s string) { t.Content = s }

func (t *Text) Color() style.Color { return t.TextColor }

func (t *Text) SetColor(c style.Color) { t.TextColor = c }

func (t *Text) ShapeInput() TextSpec {
	return TextSpec{Text: t.Content, FontID: t.FontID, Size: fontSize(t.Size), Wrap: t.Wrap}
}
