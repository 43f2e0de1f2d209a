// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dirty tracks what must be recomputed for a frame.
//
// [Flags] is the per-node bitset naming the cheapest update that makes the
// next frame correct. [Ranges] is the per-buffer set of element intervals
// that must be written to the GPU.
package dirty

import "strings"

// Flags is a per-node dirty bitset.
type Flags uint8

const (
	// Layout re-runs the solver for the node's subtree.
	Layout Flags = 1 << iota
	// TextShaping re-shapes the node's text.
	TextShaping
	// GlyphAtlas means the node's text needed glyphs rasterized and packed
	// into the atlas during the current frame. The renderer sets it.
	GlyphAtlas
	// ColorOnly is a paint-only change with no geometry change.
	ColorOnly
	// Transform means position or size changed without re-layout.
	Transform
	// Children is a structural change in the children list.
	Children
)

const (
	// None is the clean state.
	None Flags = 0
	// Paint covers changes that only affect instance data.
	Paint = ColorOnly | Transform
	// Full sets every flag.
	Full = Layout | TextShaping | GlyphAtlas | ColorOnly | Transform | Children
)

// IsDirty reports whether any flag is set.
func (f Flags) IsDirty() bool { return f != 0 }

// HasAny reports whether f shares at least one flag with o.
func (f Flags) HasAny(o Flags) bool { return f&o != 0 }

// HasAll reports whether every flag of o is set in f.
func (f Flags) HasAll(o Flags) bool { return f&o == o }

// PaintOnly reports whether f is dirty but needs no layout, shaping or
// structural work.
func (f Flags) PaintOnly() bool { return f != 0 && f&^Paint == 0 }

var flagNames = [...]string{"LAYOUT", "TEXT_SHAPING", "GLYPH_ATLAS", "COLOR_ONLY", "TRANSFORM", "CHILDREN"}

// String implements fmt.Stringer.
func (f Flags) String() string {
	if f == 0 {
		return "NONE"
	}
	var b strings.Builder
	for i, name := range flagNames {
		if f&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
	}
	return b.String()
}
