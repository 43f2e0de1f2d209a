// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// Errors returned by New.
var (
	ErrNilRegistry = errors.New("render: nil plugin registry")
	ErrNilText     = errors.New("render: nil text pipeline")
	ErrNilAtlas    = errors.New("render: nil glyph atlas")
)

// DeviceHandle is the shared device a host application passes in.
type DeviceHandle = gpucontext.DeviceProvider

// Viewport is the surface size in physical pixels and its scale factor.
type Viewport struct {
	Width, Height uint32
	Scale         float32
}

// Empty reports whether the viewport has no pixels.
func (v Viewport) Empty() bool { return v.Width == 0 || v.Height == 0 }

// ScaleFactor returns Scale, or 1 when Scale is not positive.
func (v Viewport) ScaleFactor() float32 {
	if !(v.Scale > 0) {
		return 1
	}
	return v.Scale
}

// Logical returns the viewport in logical pixels.
func (v Viewport) Logical() geom.Size {
	s := v.ScaleFactor()
	return geom.Size{W: float32(v.Width) / s, H: float32(v.Height) / s}
}

// Options configures a Renderer.
type Options struct {
	// Format is the color target format. Undefined uses the device format.
	Format gputypes.TextureFormat
	// DepthFormat is the depth attachment format of the pass Record draws
	// into. Undefined disables depth testing.
	DepthFormat gputypes.TextureFormat
	// InitialCapacity is the starting instance count of each buffer.
	InitialCapacity int
	// Rasterizer renders glyph bitmaps for the atlas. Without one text
	// draws nothing.
	Rasterizer text.Rasterizer
}

// DefaultOptions returns depth-tested rendering with room for 256
// instances per buffer.
func DefaultOptions() Options {
	return Options{
		DepthFormat:     gputypes.TextureFormatDepth24PlusStencil8,
		InitialCapacity: 256,
	}
}

// Capabilities describes what a renderer was configured with.
type Capabilities struct {
	Format      gputypes.TextureFormat
	DepthFormat gputypes.TextureFormat
	AtlasSize   uint32
	AtlasPages  int
	Textures    int
}

// Renderer is the retained UI renderer. See the package documentation for
// the frame model.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	opts   Options

	registry *plugin.Registry
	texts    *text.Pipeline
	pages    []*atlas.Atlas

	layouts  *gpu.Layouts
	globals  *gpu.GlobalsBinding
	samplers *gpu.SamplerCache
	pipes    map[pipeKey]*gpu.Pipeline
	groups   map[groupKey]hal.BindGroup
	textures []hal.TextureView
	owned    map[uint32]ownedTexture

	quads   *gpu.InstanceBuffer[gpu.QuadInstance]
	sprites *gpu.InstanceBuffer[gpu.SpriteInstance]
	glyphs  *gpu.InstanceBuffer[gpu.SpriteInstance]

	nodes   map[tree.NodeID]*nodeCache
	text    map[tree.NodeID]*textEntry
	overlay nodeCache
	ovCmds  []draw.Command
	frame   uint64
	seq     uint32

	// Per-frame scratch, kept to reuse storage.
	list      draw.List
	items     []*item
	batches   []batch
	nextQuads []gpu.QuadInstance
	nextSprts []gpu.SpriteInstance
	nextGlyph []gpu.SpriteInstance
	viewport  Viewport
	stats     FrameStats
}

// New creates a renderer on device. The glyph atlas becomes the first
// atlas page; the renderer creates its texture.
func New(device gpu.Device, registry *plugin.Registry, texts *text.Pipeline, glyphs *atlas.Atlas, opts Options) (*Renderer, error) {
	switch {
	case device.Device == nil:
		return nil, gpu.ErrNilDevice
	case device.Queue == nil:
		return nil, gpu.ErrNilQueue
	case registry == nil:
		return nil, ErrNilRegistry
	case texts == nil:
		return nil, ErrNilText
	case glyphs == nil:
		return nil, ErrNilAtlas
	}
	if opts.Format == gputypes.TextureFormatUndefined {
		opts.Format = device.Format
	}
	if opts.Format == gputypes.TextureFormatUndefined {
		opts.Format = gputypes.TextureFormatBGRA8Unorm
	}
	r := &Renderer{
		device:   device.Device,
		queue:    device.Queue,
		opts:     opts,
		registry: registry,
		texts:    texts,
		pages:    []*atlas.Atlas{glyphs},
		samplers: gpu.NewSamplerCache(device.Device),
		pipes:    make(map[pipeKey]*gpu.Pipeline),
		groups:   make(map[groupKey]hal.BindGroup),
		textures: []hal.TextureView{nil},
		nodes:    make(map[tree.NodeID]*nodeCache),
		text:     make(map[tree.NodeID]*textEntry),
	}
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}
	Logger().Info("render: renderer created",
		"format", opts.Format, "depth", opts.DepthFormat, "atlas", glyphs.Size())
	return r, nil
}

// NewFromProvider creates a renderer on the device of a gpucontext
// provider that exposes its HAL objects.
func NewFromProvider(provider DeviceHandle, registry *plugin.Registry, texts *text.Pipeline, glyphs *atlas.Atlas, opts Options) (*Renderer, error) {
	device, err := gpu.FromProvider(provider)
	if err != nil {
		return nil, err
	}
	return New(device, registry, texts, glyphs, opts)
}

func (r *Renderer) init() error {
	var err error
	if r.layouts, err = gpu.NewLayouts(r.device); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if r.globals, err = gpu.NewGlobalsBinding(r.device, r.layouts); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	n := max(r.opts.InitialCapacity, 1)
	if r.quads, err = gpu.NewInstanceBuffer[gpu.QuadInstance](r.device, "ui_quads", gputypes.BufferUsageVertex, n); err != nil {
		return fmt.Errorf("render: quads: %w", err)
	}
	if r.sprites, err = gpu.NewInstanceBuffer[gpu.SpriteInstance](r.device, "ui_sprites", gputypes.BufferUsageVertex, n); err != nil {
		return fmt.Errorf("render: sprites: %w", err)
	}
	if r.glyphs, err = gpu.NewInstanceBuffer[gpu.SpriteInstance](r.device, "ui_glyphs", gputypes.BufferUsageVertex, n); err != nil {
		return fmt.Errorf("render: glyphs: %w", err)
	}
	if err := r.pages[0].CreateTexture(r.device); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// RegisterTexture makes view drawable by image widgets and returns its
// index. Index 0 is never returned.
func (r *Renderer) RegisterTexture(view hal.TextureView) uint32 {
	r.textures = append(r.textures, view)
	return uint32(len(r.textures) - 1) //nolint:gosec // texture count fits uint32
}

// Capabilities reports the renderer configuration.
func (r *Renderer) Capabilities() Capabilities {
	return Capabilities{
		Format:      r.opts.Format,
		DepthFormat: r.opts.DepthFormat,
		AtlasSize:   r.pages[0].Size(),
		AtlasPages:  len(r.pages),
		Textures:    len(r.textures) - 1,
	}
}

// Atlas returns atlas page i, or nil.
func (r *Renderer) Atlas(i int) *atlas.Atlas {
	if i < 0 || i >= len(r.pages) {
		return nil
	}
	return r.pages[i]
}

// Buffers returns the quad, sprite and glyph instance buffers.
func (r *Renderer) Buffers() (quads *gpu.InstanceBuffer[gpu.QuadInstance], sprites, glyphs *gpu.InstanceBuffer[gpu.SpriteInstance]) {
	return r.quads, r.sprites, r.glyphs
}

// Globals returns the per-frame uniform binding.
func (r *Renderer) Globals() *gpu.GlobalsBinding { return r.globals }

// Forget drops every cached node, so the next Prepare draws the whole
// tree again. Call it after replacing the tree.
func (r *Renderer) Forget() {
	clear(r.nodes)
	for id, e := range r.text {
		r.dropText(e)
		delete(r.text, id)
	}
}

// Destroy releases every GPU resource the renderer created. The device
// and queue are left alone.
func (r *Renderer) Destroy() {
	if r == nil || r.device == nil {
		return
	}
	r.Forget()
	for k, p := range r.pipes {
		p.Destroy()
		delete(r.pipes, k)
	}
	for k, g := range r.groups {
		r.device.DestroyBindGroup(g)
		delete(r.groups, k)
	}
	if r.quads != nil {
		r.quads.Destroy()
	}
	if r.sprites != nil {
		r.sprites.Destroy()
	}
	if r.glyphs != nil {
		r.glyphs.Destroy()
	}
	r.globals.Destroy()
	r.samplers.Destroy()
	r.layouts.Destroy()
	r.destroyTextures()
	for _, p := range r.pages {
		p.Destroy(r.device)
	}
	r.device = nil
}

func samplerDesc(m widget.SamplerMode) gpu.SamplerDesc {
	if m == widget.SamplerNearest {
		return gpu.NearestClamp
	}
	return gpu.LinearClamp
}
