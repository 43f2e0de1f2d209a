// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/tree"
)

// FrameStats describes one Prepare.
type FrameStats struct {
	// Skipped is set when there was nothing to draw and the GPU was left
	// untouched.
	Skipped bool
	// Structural is set when children changed or nodes disappeared, so
	// the instance buffers were rebuilt instead of patched.
	Structural bool

	Nodes       int
	Redrawn     int
	Reused      int
	TextPending int

	Items   int
	Batches int
	Quads   int
	Sprites int
	Glyphs  int

	// Writes is the number of instance buffer writes issued.
	Writes int
	// Rasterized is the number of glyphs packed into the atlas. Nodes
	// whose text needed them are marked GlyphAtlas.
	Rasterized int
	// AtlasUploads is the number of glyph regions uploaded.
	AtlasUploads int
}

// batch is a run of instances drawn with one pipeline, bind group and
// scissor.
type batch struct {
	pipe    pipeKey
	group   groupKey
	scissor geom.Scissor
	first   uint32
	count   uint32
}

// SetOverlay replaces the commands drawn above the tree, in logical
// pixels. The commands are copied and built by the next Prepare at its
// viewport's scale. Nil clears the overlay.
func (r *Renderer) SetOverlay(l *draw.List) {
	clear(r.ovCmds)
	r.ovCmds = r.ovCmds[:0]
	if l != nil {
		r.ovCmds = append(r.ovCmds, l.Commands()...)
	}
}

// Prepare builds and uploads the instances for t. Layout must be current.
// An empty tree or viewport leaves the GPU untouched.
func (r *Renderer) Prepare(t *tree.Tree, vp Viewport) (FrameStats, error) {
	r.frame++
	r.stats = FrameStats{}
	if t == nil || t.Root().IsZero() || vp.Empty() {
		r.stats.Skipped = true
		return r.stats, nil
	}
	if vp != r.viewport {
		// Scale changes invalidate every cached instance; size changes only
		// move scissors, which are recomputed below.
		if vp.ScaleFactor() != r.viewport.ScaleFactor() {
			r.stats.Structural = true
		}
		r.viewport = vp
	}

	clear(r.items)
	r.items = r.items[:0]
	r.seq = 0
	r.walk(t, t.Root(), walkState{})
	r.buildItems(&r.overlay, r.ovCmds, geom.Rect{}, false)
	r.collect(&r.overlay, maxLayer)
	if r.prune() {
		r.stats.Structural = true
	}
	r.pruneText()

	r.sortItems()
	r.buildBatches()
	return r.stats, r.upload()
}

// prune drops caches of nodes not visited this frame. It reports whether
// any were dropped.
func (r *Renderer) prune() bool {
	dropped := false
	for id, nc := range r.nodes {
		if nc.seen != r.frame {
			delete(r.nodes, id)
			dropped = true
		}
	}
	return dropped
}

func (r *Renderer) depth() bool {
	return r.opts.DepthFormat != gputypes.TextureFormatUndefined
}

// cmpZ orders depths, treating NaN as equal to everything.
func cmpZ(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortItems puts opaque items first, front to back, then translucent
// items back to front. Ties fall through to bind group and then paint
// order.
func (r *Renderer) sortItems() {
	depth := r.depth()
	slices.SortStableFunc(r.items, func(a, b *item) int {
		ao, bo := depth && a.pipe.opaque, depth && b.pipe.opaque
		if ao != bo {
			if ao {
				return -1
			}
			return 1
		}
		c := cmpZ(a.z, b.z)
		if ao {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c := cmp.Compare(a.group.order(), b.group.order()); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
}

// buildBatches lays the sorted items out in the next instance arrays and
// groups them.
func (r *Renderer) buildBatches() {
	r.batches = r.batches[:0]
	r.nextQuads = r.nextQuads[:0]
	r.nextSprts = r.nextSprts[:0]
	r.nextGlyph = r.nextGlyph[:0]
	depth := r.depth()
	full := geom.Scissor{W: r.viewport.Width, H: r.viewport.Height}
	s := r.viewport.ScaleFactor()

	for _, it := range r.items {
		sc := full
		if it.hasClip {
			sc = it.clip.Scale(s).ToScissor(r.viewport.Width, r.viewport.Height)
			if sc.W == 0 || sc.H == 0 {
				continue
			}
		}
		pipe := it.pipe
		pipe.opaque = pipe.opaque && depth
		var first, count int
		switch pipe.kind {
		case gpu.PipelineQuad:
			first, count = len(r.nextQuads), 1
			r.nextQuads = append(r.nextQuads, it.quad)
		case gpu.PipelineSprite:
			first, count = len(r.nextSprts), len(it.sprites)
			r.nextSprts = append(r.nextSprts, it.sprites...)
		case gpu.PipelineGlyph:
			first, count = len(r.nextGlyph), len(it.sprites)
			r.nextGlyph = append(r.nextGlyph, it.sprites...)
		}
		if count == 0 {
			continue
		}
		r.stats.Items++
		if n := len(r.batches); n > 0 {
			last := &r.batches[n-1]
			if last.pipe == pipe && last.group == it.group && last.scissor == sc &&
				int(last.first+last.count) == first {
				last.count += uint32(count) //nolint:gosec // instance counts fit uint32
				continue
			}
		}
		r.batches = append(r.batches, batch{
			pipe:    pipe,
			group:   it.group,
			scissor: sc,
			first:   uint32(first), //nolint:gosec // instance counts fit uint32
			count:   uint32(count), //nolint:gosec // instance counts fit uint32
		})
	}
	r.stats.Batches = len(r.batches)
	r.stats.Quads = len(r.nextQuads)
	r.stats.Sprites = len(r.nextSprts)
	r.stats.Glyphs = len(r.nextGlyph)
}

// upload moves the next instance arrays into the buffers and writes
// what changed.
func (r *Renderer) upload() error {
	rebuild := r.stats.Structural
	syncInstances(r.quads, r.nextQuads, rebuild)
	syncInstances(r.sprites, r.nextSprts, rebuild)
	syncInstances(r.glyphs, r.nextGlyph, rebuild)

	for _, up := range []func(hal.Queue) (int, error){r.quads.UploadDirty, r.sprites.UploadDirty, r.glyphs.UploadDirty} {
		n, err := up(r.queue)
		r.stats.Writes += n
		if err != nil {
			return fmt.Errorf("render: upload instances: %w", err)
		}
	}
	for _, p := range r.pages {
		n, err := p.Upload(r.queue)
		r.stats.AtlasUploads += n
		if err != nil {
			return fmt.Errorf("render: upload atlas: %w", err)
		}
	}
	if _, err := r.globals.Update(r.queue, float32(r.viewport.Width), float32(r.viewport.Height), r.viewport.ScaleFactor()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// syncInstances makes b hold next. Structural frames replace everything;
// otherwise only differing slots are marked, plus the grown or shrunk
// tail.
func syncInstances[T comparable](b *gpu.InstanceBuffer[T], next []T, rebuild bool) {
	cur := b.Instances()
	if rebuild || len(cur) == 0 {
		if len(cur) == 0 && len(next) == 0 {
			return
		}
		b.SetInstances(next)
		return
	}
	n := min(len(cur), len(next))
	for i := range n {
		if cur[i] != next[i] {
			b.UpdateInstance(i, next[i])
		}
	}
	switch {
	case len(next) > len(cur):
		b.Append(next[n:]...)
	case len(next) < len(cur):
		b.Truncate(len(next))
	}
}
