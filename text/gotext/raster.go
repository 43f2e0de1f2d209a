// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gotext

import (
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/ui/text"
)

// maxGlyphDim bounds rasterized glyph bitmaps.
const maxGlyphDim = 512

// Rasterizer renders glyph outlines into 8-bit coverage bitmaps.
type Rasterizer struct {
	reg     *Registry
	buffers sync.Pool
}

// NewRasterizer creates a rasterizer over reg.
func NewRasterizer(reg *Registry) *Rasterizer {
	return &Rasterizer{
		reg:     reg,
		buffers: sync.Pool{New: func() any { return &sfnt.Buffer{} }},
	}
}

// Rasterize implements text.Rasterizer.
func (r *Rasterizer) Rasterize(g text.Glyph) ([]byte, uint32, uint32, bool) {
	f, ok := r.reg.Font(g.FontID)
	if !ok || !(g.Size > 0) {
		return nil, 0, 0, false
	}
	buf := r.buffers.Get().(*sfnt.Buffer)
	defer r.buffers.Put(buf)

	ppem := toFixed(g.Size)
	gi := sfnt.GlyphIndex(g.GlyphID) //nolint:gosec // glyph IDs come from the same font
	bounds, _, err := f.outline.GlyphBounds(buf, gi, ppem, 0)
	if err != nil {
		return nil, 0, 0, false
	}
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	w, h := bounds.Max.X.Ceil()-minX, bounds.Max.Y.Ceil()-minY
	if w <= 0 || h <= 0 || w > maxGlyphDim || h > maxGlyphDim {
		return nil, 0, 0, false
	}

	segs, err := f.outline.LoadGlyph(buf, gi, ppem, nil)
	if err != nil {
		Logger().Debug("gotext: load glyph failed", "font", g.FontID, "glyph", g.GlyphID, "err", err)
		return nil, 0, 0, false
	}

	ox, oy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fromFixed(p.X) - ox, fromFixed(p.Y) - oy
	}
	v := vector.NewRasterizer(w, h)
	v.DrawOp = draw.Src
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			v.MoveTo(pt(s.Args[0]))
		case sfnt.SegmentOpLineTo:
			v.LineTo(pt(s.Args[0]))
		case sfnt.SegmentOpQuadTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			v.QuadTo(x1, y1, x2, y2)
		case sfnt.SegmentOpCubeTo:
			x1, y1 := pt(s.Args[0])
			x2, y2 := pt(s.Args[1])
			x3, y3 := pt(s.Args[2])
			v.CubeTo(x1, y1, x2, y2, x3, y3)
		}
	}
	v.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	v.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return dst.Pix, uint32(w), uint32(h), true //nolint:gosec // bounded by maxGlyphDim
}
