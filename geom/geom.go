// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package geom provides the small set of float32 geometry types shared by
// layout, rendering and event dispatch.
package geom

import "math"

// Point is a position in logical pixels.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	W, H float32
}

// Empty reports whether either dimension is zero, negative or NaN.
func (s Size) Empty() bool { return !(s.W > 0) || !(s.H > 0) }

// Rect is an axis-aligned rectangle with origin at its top-left corner.
type Rect struct {
	X, Y, W, H float32
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// FromSize returns a rect at the origin with the given size.
func FromSize(s Size) Rect { return Rect{W: s.W, H: s.H} }

// MaxX returns the right edge.
func (r Rect) MaxX() float32 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float32 { return r.Y + r.H }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rect size.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return !(r.W > 0) || !(r.H > 0) }

// Translate returns r moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, W: r.W, H: r.H}
}

// Contains reports whether p lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

// Intersect returns the overlap of r and o. Disjoint rects yield a
// zero-size rect positioned at the clamped corner.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max32(r.X, o.X)
	y0 := max32(r.Y, o.Y)
	x1 := min32(r.MaxX(), o.MaxX())
	y1 := min32(r.MaxY(), o.MaxY())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min32(r.X, o.X)
	y0 := min32(r.Y, o.Y)
	x1 := max32(r.MaxX(), o.MaxX())
	y1 := max32(r.MaxY(), o.MaxY())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Scissor is an integer pixel rectangle suitable for SetScissorRect.
type Scissor struct {
	X, Y, W, H uint32
}

// ToScissor converts r to integer pixel coordinates by rounding the minimum
// corner down and the maximum corner up, then clamping to a viewport of
// vw x vh pixels. NaN coordinates collapse to the viewport edge.
func (r Rect) ToScissor(vw, vh uint32) Scissor {
	x0 := clampPixel(math.Floor(float64(r.X)), vw)
	y0 := clampPixel(math.Floor(float64(r.Y)), vh)
	x1 := clampPixel(math.Ceil(float64(r.MaxX())), vw)
	y1 := clampPixel(math.Ceil(float64(r.MaxY())), vh)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Scissor{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Scale returns r with every coordinate multiplied by s.
func (r Rect) Scale(s float32) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}

func clampPixel(v float64, limit uint32) uint32 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= float64(limit) {
		return limit
	}
	return uint32(v)
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
