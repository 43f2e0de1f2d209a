// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/widget"
)

// ErrNotPrepared is returned by Record when the viewport differs from the
// one passed to the last Prepare.
var ErrNotPrepared = errors.New("render: viewport not prepared")

// Record encodes the batches built by the last Prepare into pass. Batches
// whose pipeline or bind group cannot be created are skipped and logged;
// the first such error is returned after the rest are recorded.
func (r *Renderer) Record(pass gpu.PassEncoder, vp Viewport) error {
	if r.device == nil {
		return gpu.ErrNilDevice
	}
	if len(r.batches) == 0 || r.stats.Skipped {
		return nil
	}
	if vp != r.viewport {
		return ErrNotPrepared
	}
	st := passState{pass: pass}
	var scissor geom.Scissor
	haveScissor := false
	var firstErr error
	for i := range r.batches {
		b := &r.batches[i]
		p, err := r.pipeline(b.pipe)
		if err == nil && b.pipe.kind.Textured() {
			_, err = r.group(b.group)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
				Logger().Warn("render: batch skipped", "kind", b.pipe.kind, "err", err)
			}
			continue
		}
		if !haveScissor || b.scissor != scissor {
			pass.SetScissorRect(b.scissor.X, b.scissor.Y, b.scissor.W, b.scissor.H)
			scissor, haveScissor = b.scissor, true
		}
		p.Record(&st, r.globals.Group(), r.groups[b.group], r.buffer(b.pipe.kind), b.first, b.count)
	}
	return firstErr
}

func (r *Renderer) buffer(k gpu.PipelineKind) hal.Buffer {
	switch k {
	case gpu.PipelineSprite:
		return r.sprites.Buffer()
	case gpu.PipelineGlyph:
		return r.glyphs.Buffer()
	}
	return r.quads.Buffer()
}

// pipeline returns the pipeline for k, creating it on first use.
func (r *Renderer) pipeline(k pipeKey) (*gpu.Pipeline, error) {
	if p, ok := r.pipes[k]; ok {
		return p, nil
	}
	p, err := gpu.NewPipeline(r.device, r.layouts, k.kind, gpu.Target{
		Format:     r.opts.Format,
		Depth:      r.opts.DepthFormat,
		DepthWrite: k.opaque,
	})
	if err != nil {
		return nil, fmt.Errorf("render: %s pipeline: %w", k.kind, err)
	}
	r.pipes[k] = p
	return p, nil
}

// group returns the texture bind group for k, creating it on first use.
func (r *Renderer) group(k groupKey) (hal.BindGroup, error) {
	if g, ok := r.groups[k]; ok {
		return g, nil
	}
	var (
		view  hal.TextureView
		desc  = samplerDesc(widget.SamplerMode(k.sampler))
		label string
	)
	if k.glyph {
		if int(k.texture) >= len(r.pages) {
			return nil, fmt.Errorf("render: atlas page %d missing", k.texture)
		}
		view, desc, label = r.pages[k.texture].View(), gpu.LinearClamp, "ui_glyph_page"
	} else {
		if k.texture == 0 || int(k.texture) >= len(r.textures) {
			return nil, fmt.Errorf("render: texture %d not registered", k.texture)
		}
		view, label = r.textures[k.texture], "ui_image"
	}
	if view == nil {
		return nil, fmt.Errorf("render: %s has no view", label)
	}
	sampler, err := r.samplers.Get(desc)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	g, err := gpu.NewTextureGroup(r.device, r.layouts.Texture, label, view, sampler)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	r.groups[k] = g
	return g, nil
}

// passState forwards pass commands, dropping those that repeat the
// current state.
type passState struct {
	pass     gpu.PassEncoder
	pipeline hal.RenderPipeline
	groups   [2]hal.BindGroup
	vertex   hal.Buffer
}

func (s *passState) SetPipeline(p hal.RenderPipeline) {
	if p == s.pipeline && p != nil {
		return
	}
	s.pipeline = p
	s.pass.SetPipeline(p)
}

func (s *passState) SetBindGroup(index uint32, g hal.BindGroup, offsets []uint32) {
	if int(index) < len(s.groups) && len(offsets) == 0 {
		if g == s.groups[index] && g != nil {
			return
		}
		s.groups[index] = g
	}
	s.pass.SetBindGroup(index, g, offsets)
}

func (s *passState) SetVertexBuffer(slot uint32, b hal.Buffer, offset uint64) {
	if slot == 0 && offset == 0 {
		if b == s.vertex && b != nil {
			return
		}
		s.vertex = b
	}
	s.pass.SetVertexBuffer(slot, b, offset)
}

func (s *passState) SetScissorRect(x, y, w, h uint32) { s.pass.SetScissorRect(x, y, w, h) }

func (s *passState) Draw(vc, ic, fv, fi uint32) { s.pass.Draw(vc, ic, fv, fi) }
