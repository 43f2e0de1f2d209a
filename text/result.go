// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"sync/atomic"

	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/geom"
)

// RequestID identifies a shaping request.
type RequestID uint64

// Request is a queued shaping request.
type Request struct {
	ID        RequestID
	Text      string
	FontID    uint32
	Size      float32
	WrapWidth float32
	HasWrap   bool
	Key       ShapeKey
}

// Glyph is one positioned glyph of a shaped run. X and Y locate the
// top-left corner of the glyph bitmap relative to the run origin.
type Glyph struct {
	AtlasKey atlas.Key
	GlyphID  uint32
	FontID   uint32
	Size     float32
	X, Y     float32
	W, H     float32
	Advance  float32
}

// Inner is the output of a shaper.
type Inner struct {
	Bounds   geom.Size
	Glyphs   []Glyph
	Baseline float32
}

// ShapeFunc shapes text at px pixels. When hasWrap is false the text is
// laid out on a single line per paragraph.
type ShapeFunc func(text string, fontID uint32, px, wrap float32, hasWrap bool) Inner

// Rasterizer produces coverage bitmaps for glyphs. Pixels are one byte per
// texel, row-major, w*h long. ok is false for glyphs without a bitmap.
type Rasterizer interface {
	Rasterize(g Glyph) (pixels []byte, w, h uint32, ok bool)
}

// ShapedResult is a cached shaping result shared between the cache, the
// completed queue and any renderer holding it.
//
// The cache owns one reference. A result is uniquely held, and so eligible
// for pruning, when only that reference remains.
type ShapedResult struct {
	RequestID RequestID
	Key       ShapeKey
	Inner     Inner

	refs        atomic.Int32
	renderCount atomic.Uint32
}

func newResult(id RequestID, key ShapeKey, inner Inner) *ShapedResult {
	r := &ShapedResult{RequestID: id, Key: key, Inner: inner}
	r.refs.Store(1)
	return r
}

// Retain adds a reference and returns r.
func (r *ShapedResult) Retain() *ShapedResult {
	r.refs.Add(1)
	return r
}

// Release drops a reference. Releasing nil is a no-op.
func (r *ShapedResult) Release() {
	if r == nil {
		return
	}
	if r.refs.Add(-1) < 0 {
		r.refs.Store(0)
	}
}

// Refs returns the current reference count.
func (r *ShapedResult) Refs() int32 { return r.refs.Load() }

// MarkRendered records that the result was drawn in a frame.
func (r *ShapedResult) MarkRendered() { r.renderCount.Add(1) }

// RenderCount returns how many frames drew the result.
func (r *ShapedResult) RenderCount() uint32 { return r.renderCount.Load() }

func (r *ShapedResult) unique() bool { return r.refs.Load() <= 1 }
