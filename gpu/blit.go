// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BlendMode selects how a blit combines with the destination.
type BlendMode uint8

const (
	// BlendReplace overwrites the destination.
	BlendReplace BlendMode = iota
	// BlendPremultiplied composites premultiplied source over destination.
	BlendPremultiplied
)

// Blitter copies a sampled texture onto the render target with a single
// fullscreen triangle.
type Blitter struct {
	device     hal.Device
	mode       BlendMode
	layout     hal.BindGroupLayout
	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewBlitter creates a blit pipeline for format.
func NewBlitter(device hal.Device, format gputypes.TextureFormat, mode BlendMode) (*Blitter, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	b := &Blitter{device: device, mode: mode}
	if err := b.create(format); err != nil {
		b.Destroy()
		return nil, err
	}
	return b, nil
}

func (b *Blitter) create(format gputypes.TextureFormat) error {
	shader, err := CompileShader(b.device, "ui_blit_shader", BlitShader)
	if err != nil {
		return err
	}
	b.shader = shader

	layout, err := b.device.CreateBindGroupLayout(textureLayoutDesc("ui_blit_layout"))
	if err != nil {
		return fmt.Errorf("create blit layout: %w", err)
	}
	b.layout = layout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "ui_blit_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.layout},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	target := gputypes.ColorTargetState{Format: format, WriteMask: gputypes.ColorWriteMaskAll}
	if b.mode == BlendPremultiplied {
		premulBlend := gputypes.BlendStatePremultiplied()
		target.Blend = &premulBlend
	}
	pipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "ui_blit_pipeline",
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets:    []gputypes.ColorTargetState{target},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create blit pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

// Mode returns the blend mode.
func (b *Blitter) Mode() BlendMode { return b.mode }

// Bind creates a bind group for the source view and sampler.
func (b *Blitter) Bind(view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	return NewTextureGroup(b.device, b.layout, "ui_blit_bind", view, sampler)
}

// Record draws the fullscreen triangle sampling group.
func (b *Blitter) Record(rp PassEncoder, group hal.BindGroup) {
	rp.SetPipeline(b.pipeline)
	rp.SetBindGroup(0, group, nil)
	rp.Draw(3, 1, 0, 0)
}

// Destroy releases blit resources.
func (b *Blitter) Destroy() {
	if b == nil || b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyRenderPipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.layout != nil {
		b.device.DestroyBindGroupLayout(b.layout)
		b.layout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}
