// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package style defines declarative node styling and the constraint model.
//
// A [Style] carries two groups of properties. Layout properties feed the
// flex solver; changing any of them requires a re-layout. Paint properties
// only change instance data. [Style.LayoutHash] and [Style.PaintHash] let a
// caller tell the two apart after an arbitrary mutation.
package style

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// Display controls whether a node takes part in layout.
type Display uint8

const (
	DisplayFlex Display = iota
	DisplayNone
)

// Direction is the flex main axis.
type Direction uint8

const (
	Column Direction = iota
	Row
	ColumnReverse
	RowReverse
)

// IsRow reports whether the main axis is horizontal.
func (d Direction) IsRow() bool { return d == Row || d == RowReverse }

// Wrap controls line wrapping of flex items.
type Wrap uint8

const (
	NoWrap Wrap = iota
	WrapLines
)

// Justify distributes items along the main axis.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
	JustifySpaceEvenly
)

// Align positions items on the cross axis. AlignDefault means stretch for
// AlignItems and inherit for AlignSelf.
type Align uint8

const (
	AlignDefault Align = iota
	AlignStart
	AlignCenter
	AlignEnd
	AlignStretch
	AlignBaseline
)

// Position selects normal flow or absolute positioning.
type Position uint8

const (
	Relative Position = iota
	Absolute
)

// Overflow controls clipping and scrolling of children.
type Overflow uint8

const (
	Visible Overflow = iota
	Hidden
	Scroll
	OverflowAuto
)

// Clips reports whether the overflow mode clips children.
func (o Overflow) Clips() bool { return o != Visible }

func (o Overflow) String() string {
	switch o {
	case Hidden:
		return "hidden"
	case Scroll:
		return "scroll"
	case OverflowAuto:
		return "auto"
	default:
		return "visible"
	}
}

// Edges holds per-side lengths.
type Edges struct {
	Top, Right, Bottom, Left Length
}

// All returns edges with every side set to l.
func All(l Length) Edges { return Edges{Top: l, Right: l, Bottom: l, Left: l} }

// Symmetric returns edges with vertical and horizontal values.
func Symmetric(vertical, horizontal Length) Edges {
	return Edges{Top: vertical, Right: horizontal, Bottom: vertical, Left: horizontal}
}

// Style is the full set of node properties.
// The zero value is a visible, auto-sized column container with no paint.
type Style struct {
	// Layout properties.
	Display    Display
	Direction  Direction
	Wrap       Wrap
	Justify    Justify
	AlignItems Align
	AlignSelf  Align
	Grow       float32
	Shrink     float32
	Basis      Length

	Width, Height       Constraint
	MinWidth, MinHeight Constraint
	MaxWidth, MaxHeight Constraint

	Padding Edges
	Margin  Edges
	Gap     Length

	Position Position
	Inset    Edges

	// AspectRatio is width/height; zero disables it.
	AspectRatio float32

	// Paint properties.
	Background   Color
	BorderColor  Color
	BorderWidth  float32
	BorderRadius float32
	OverflowX    Overflow
	OverflowY    Overflow
	ZIndex       int32
}

// Clips reports whether either overflow axis clips children.
func (s *Style) Clips() bool { return s.OverflowX.Clips() || s.OverflowY.Clips() }

// Size sets Width and Height.
func (s *Style) Size(w, h Constraint) *Style {
	s.Width, s.Height = w, h
	return s
}

type hasher struct {
	buf [8]byte
	h   hash.Hash64
}

func newHasher() *hasher { return &hasher{h: fnv.New64a()} }

func (h *hasher) u8(v uint8) { h.buf[0] = v; _, _ = h.h.Write(h.buf[:1]) }

func (h *hasher) f32(v float32) {
	binary.LittleEndian.PutUint32(h.buf[:4], math.Float32bits(v))
	_, _ = h.h.Write(h.buf[:4])
}

func (h *hasher) length(l Length) { h.u8(uint8(l.Unit)); h.f32(l.Value) }

func (h *hasher) edges(e Edges) {
	h.length(e.Top)
	h.length(e.Right)
	h.length(e.Bottom)
	h.length(e.Left)
}

func (h *hasher) constraint(c Constraint) {
	h.u8(uint8(c.kind))
	h.u8(uint8(c.op))
	h.f32(c.value)
	h.u8(uint8(len(c.args)))
	for _, a := range c.args {
		h.constraint(a)
	}
}

func (h *hasher) color(c Color) { h.f32(c.R); h.f32(c.G); h.f32(c.B); h.f32(c.A) }

// LayoutHash hashes the properties the solver consumes. Floats are hashed
// by bit pattern.
func (s *Style) LayoutHash() uint64 {
	h := newHasher()
	h.u8(uint8(s.Display))
	h.u8(uint8(s.Direction))
	h.u8(uint8(s.Wrap))
	h.u8(uint8(s.Justify))
	h.u8(uint8(s.AlignItems))
	h.u8(uint8(s.AlignSelf))
	h.f32(s.Grow)
	h.f32(s.Shrink)
	h.length(s.Basis)
	for _, c := range [...]Constraint{s.Width, s.Height, s.MinWidth, s.MinHeight, s.MaxWidth, s.MaxHeight} {
		h.constraint(c)
	}
	h.edges(s.Padding)
	h.edges(s.Margin)
	h.length(s.Gap)
	h.u8(uint8(s.Position))
	h.edges(s.Inset)
	h.f32(s.AspectRatio)
	// Border width insets content in the solver.
	h.f32(s.BorderWidth)
	return h.h.Sum64()
}

// PaintHash hashes the properties that only affect drawing.
func (s *Style) PaintHash() uint64 {
	h := newHasher()
	h.color(s.Background)
	h.color(s.BorderColor)
	h.f32(s.BorderRadius)
	h.u8(uint8(s.OverflowX))
	h.u8(uint8(s.OverflowY))
	binary.LittleEndian.PutUint32(h.buf[:4], uint32(s.ZIndex))
	_, _ = h.h.Write(h.buf[:4])
	return h.h.Sum64()
}
