// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PipelineKind selects one of the instanced UI pipelines.
type PipelineKind uint8

const (
	// PipelineQuad draws rounded, bordered solid rectangles.
	PipelineQuad PipelineKind = iota
	// PipelineSprite draws textured rectangles.
	PipelineSprite
	// PipelineGlyph draws coverage-masked glyph quads from the atlas.
	PipelineGlyph

	pipelineKinds
)

// String returns the kind name.
func (k PipelineKind) String() string {
	switch k {
	case PipelineQuad:
		return "quad"
	case PipelineSprite:
		return "sprite"
	case PipelineGlyph:
		return "glyph"
	}
	return fmt.Sprintf("PipelineKind(%d)", uint8(k))
}

// Textured reports whether the kind binds a texture at group 1.
func (k PipelineKind) Textured() bool { return k == PipelineSprite || k == PipelineGlyph }

// Stride returns the instance size in bytes.
func (k PipelineKind) Stride() uint32 {
	if k == PipelineQuad {
		return QuadStride
	}
	return SpriteStride
}

func (k PipelineKind) source() string {
	switch k {
	case PipelineSprite:
		return TexturedShader
	case PipelineGlyph:
		return GlyphShader
	}
	return QuadShader
}

// Layouts holds the bind group layouts shared by every UI pipeline so a
// single globals bind group works across pipeline switches.
type Layouts struct {
	device  hal.Device
	Globals hal.BindGroupLayout
	Texture hal.BindGroupLayout
}

// NewLayouts creates the shared bind group layouts.
func NewLayouts(device hal.Device) (*Layouts, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	globals, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ui_globals_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create globals layout: %w", err)
	}
	texture, err := device.CreateBindGroupLayout(textureLayoutDesc("ui_texture_layout"))
	if err != nil {
		device.DestroyBindGroupLayout(globals)
		return nil, fmt.Errorf("create texture layout: %w", err)
	}
	return &Layouts{device: device, Globals: globals, Texture: texture}, nil
}

// Destroy releases both layouts.
func (l *Layouts) Destroy() {
	if l == nil || l.device == nil {
		return
	}
	if l.Texture != nil {
		l.device.DestroyBindGroupLayout(l.Texture)
		l.Texture = nil
	}
	if l.Globals != nil {
		l.device.DestroyBindGroupLayout(l.Globals)
		l.Globals = nil
	}
}

func textureLayoutDesc(label string) *hal.BindGroupLayoutDescriptor {
	return &hal.BindGroupLayoutDescriptor{
		Label: label,
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	}
}

// Pipeline is one compiled instanced render pipeline.
type Pipeline struct {
	device     hal.Device
	kind       PipelineKind
	format     gputypes.TextureFormat
	target     Target
	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
}

// NewPipeline compiles the shader for kind and creates its render pipeline
// for target with premultiplied alpha blending.
func NewPipeline(device hal.Device, layouts *Layouts, kind PipelineKind, target Target) (*Pipeline, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if layouts == nil || kind >= pipelineKinds {
		return nil, fmt.Errorf("gpu: invalid pipeline %s", kind)
	}
	p := &Pipeline{device: device, kind: kind, format: target.Format, target: target}
	if err := p.create(layouts); err != nil {
		p.Destroy()
		return nil, err
	}
	Logger().Debug("gpu: pipeline created", "kind", kind.String(), "format", target.Format, "depth", target.Depth)
	return p, nil
}

// Target describes the attachments a pipeline renders into.
type Target struct {
	Format gputypes.TextureFormat
	// Depth is the depth attachment format; Undefined disables depth.
	Depth gputypes.TextureFormat
	// DepthWrite is set for opaque pipelines. Translucent pipelines test
	// against depth without writing it.
	DepthWrite bool
}

func (t Target) depthState() *hal.DepthStencilState {
	if t.Depth == gputypes.TextureFormatUndefined {
		return nil
	}
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	return &hal.DepthStencilState{
		Format:            t.Depth,
		DepthWriteEnabled: t.DepthWrite,
		DepthCompare:      gputypes.CompareFunctionLessEqual,
		StencilFront:      keep,
		StencilBack:       keep,
	}
}

func (p *Pipeline) create(layouts *Layouts) error {
	label := "ui_" + p.kind.String()
	shader, err := CompileShader(p.device, label+"_shader", p.kind.source())
	if err != nil {
		return err
	}
	p.shader = shader

	groups := []hal.BindGroupLayout{layouts.Globals}
	buffers := quadVertexLayout()
	if p.kind.Textured() {
		groups = append(groups, layouts.Texture)
		buffers = spriteVertexLayout()
	}
	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_pipe_layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", p.kind, err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		DepthStencil: p.target.depthState(),
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline: %w", p.kind, err)
	}
	p.pipeline = pipeline
	return nil
}

// Kind returns the pipeline kind.
func (p *Pipeline) Kind() PipelineKind { return p.kind }

// Format returns the color target format.
func (p *Pipeline) Format() gputypes.TextureFormat { return p.format }

// Target returns the attachment description.
func (p *Pipeline) Target() Target { return p.target }

// Handle returns the underlying render pipeline.
func (p *Pipeline) Handle() hal.RenderPipeline { return p.pipeline }

// Record draws count instances starting at first from buf. Each instance
// expands to six vertices in the vertex shader.
func (p *Pipeline) Record(rp PassEncoder, globals, texture hal.BindGroup, buf hal.Buffer, first, count uint32) {
	if count == 0 {
		return
	}
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, globals, nil)
	if p.kind.Textured() {
		rp.SetBindGroup(1, texture, nil)
	}
	rp.SetVertexBuffer(0, buf, 0)
	rp.Draw(6, count, 0, first)
}

// Destroy releases pipeline resources in reverse creation order.
func (p *Pipeline) Destroy() {
	if p == nil || p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}

// GlobalsBinding is the per-frame uniform buffer and its bind group.
type GlobalsBinding struct {
	device hal.Device
	buffer hal.Buffer
	group  hal.BindGroup
	last   Globals
	valid  bool
}

// NewGlobalsBinding allocates the uniform buffer and binds it.
func NewGlobalsBinding(device hal.Device, layouts *Layouts) (*GlobalsBinding, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ui_globals",
		Size:  GlobalsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create globals buffer: %w", err)
	}
	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "ui_globals_bind",
		Layout: layouts.Globals,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(), Offset: 0, Size: GlobalsSize,
			}},
		},
	})
	if err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("create globals bind group: %w", err)
	}
	return &GlobalsBinding{device: device, buffer: buf, group: group}, nil
}

// Group returns the bind group for slot 0.
func (g *GlobalsBinding) Group() hal.BindGroup { return g.group }

// Update writes the viewport and scale when they changed since the last
// call. It reports whether a write happened. A failed write is retried on
// the next call.
func (g *GlobalsBinding) Update(queue hal.Queue, width, height, scale float32) (bool, error) {
	next := Globals{Viewport: [2]float32{width, height}, Scale: scale}
	if g.valid && next == g.last {
		return false, nil
	}
	if err := queue.WriteBuffer(g.buffer, 0, Bytes([]Globals{next})); err != nil {
		return false, fmt.Errorf("gpu: write globals: %w", err)
	}
	g.last = next
	g.valid = true
	return true, nil
}

// Destroy releases the buffer and bind group.
func (g *GlobalsBinding) Destroy() {
	if g == nil || g.device == nil {
		return
	}
	if g.group != nil {
		g.device.DestroyBindGroup(g.group)
		g.group = nil
	}
	if g.buffer != nil {
		g.device.DestroyBuffer(g.buffer)
		g.buffer = nil
	}
}

// NewTextureGroup binds a texture view and sampler against layout.
func NewTextureGroup(device hal.Device, layout hal.BindGroupLayout, label string, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	group, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: layout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{
				TextureView: view.NativeHandle(),
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s bind group: %w", label, err)
	}
	return group, nil
}
