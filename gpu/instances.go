// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "github.com/gogpu/gputypes"

// QuadInstance is one solid or bordered rounded rectangle.
// Matches QuadIn in quad.wgsl.
type QuadInstance struct {
	Rect        [4]float32 // x, y, w, h in physical pixels
	Color       [4]float32 // straight RGBA
	BorderColor [4]float32
	Radii       [4]float32 // top-left, top-right, bottom-right, bottom-left
	BorderWidth float32
	Z           float32
	_           [2]float32
}

// SpriteInstance is one textured quad: an image or a glyph.
// Matches SpriteIn in textured.wgsl and GlyphIn in glyph.wgsl.
type SpriteInstance struct {
	Rect  [4]float32
	UV    [4]float32 // u, v, du, dv
	Color [4]float32 // tint for images, text color for glyphs
	Z     float32
	_     [3]float32
}

// Globals is the per-frame uniform block.
type Globals struct {
	Viewport [2]float32
	Scale    float32
	_        float32
}

// QuadStride and SpriteStride are the instance sizes in bytes.
const (
	QuadStride   = 80
	SpriteStride = 64
	GlobalsSize  = 16
)

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: QuadStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // rect
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2}, // border color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 3}, // radii
				{Format: gputypes.VertexFormatFloat32x4, Offset: 64, ShaderLocation: 4}, // border width, z
			},
		},
	}
}

func spriteVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: SpriteStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},  // rect
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1}, // uv
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 2}, // color
				{Format: gputypes.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 3}, // z
			},
		},
	}
}
