// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/tree"
)

// Depth layout: each z-index layer spans zLayer paint positions. Layers
// are clamped to [minLayer, maxLayer] so every z stays inside the range
// the shaders map to depth.
const (
	zLayer   = 1 << 16
	minLayer = -8
	maxLayer = 7

	// maxPages bounds the atlas pages the renderer opens.
	maxPages = 2
)

type pipeKey struct {
	kind gpu.PipelineKind
	// opaque pipelines write depth.
	opaque bool
}

// groupKey identifies the texture bind group of an item. Quads use the
// zero key.
type groupKey struct {
	glyph   bool
	texture uint32 // atlas page for glyphs, registered index for images
	sampler uint8
}

// order is the bind group tie-break used when depths compare equal.
func (g groupKey) order() uint64 {
	var v uint64
	if g.glyph {
		v = 1 << 40
	}
	return v | uint64(g.texture)<<8 | uint64(g.sampler)
}

// item is one sortable draw: a quad or a run of sprites sharing a bind
// group.
type item struct {
	pipe    pipeKey
	group   groupKey
	z       float32
	seq     uint32
	clip    geom.Rect
	hasClip bool
	quad    gpu.QuadInstance
	sprites []gpu.SpriteInstance
}

// setZ stores z in the item and its instances.
func (it *item) setZ(z float32) {
	it.z = z
	it.quad.Z = z
	for i := range it.sprites {
		it.sprites[i].Z = z
	}
}

// nodeCache holds the items last built for a node and the inputs they
// were built from.
type nodeCache struct {
	items   []item
	rect    geom.Rect
	clip    geom.Rect
	hasClip bool
	scale   float32
	seen    uint64
}

func (nc *nodeCache) stale(rect, clip geom.Rect, hasClip bool, scale float32) bool {
	return nc.rect != rect || nc.clip != clip || nc.hasClip != hasClip || nc.scale != scale
}

// walkState is carried down the tree.
type walkState struct {
	offset  geom.Point
	clip    geom.Rect
	hasClip bool
	layer   int32
}

func clampLayer(z int32) int32 { return min(max(z, minLayer), maxLayer) }

// walk visits id and its subtree in paint order.
func (r *Renderer) walk(t *tree.Tree, id tree.NodeID, ws walkState) {
	w, ok := t.Widget(id)
	if !ok {
		return
	}
	st := t.StylePtr(id)
	if st.Display == style.DisplayNone {
		return
	}
	abs, _ := t.Layout(id)
	rect := abs.Translate(ws.offset)
	if st.ZIndex != 0 {
		ws.layer = clampLayer(st.ZIndex)
	}
	r.stats.Nodes++

	flags := t.Flags(id)
	if flags.HasAny(dirty.Children) {
		r.stats.Structural = true
	}
	te, requested := r.ensureText(id, w, abs)
	if te != nil {
		r.collectText(te)
		te.seen = r.frame
		if te.req != 0 {
			r.stats.TextPending++
		}
	}

	scale := r.viewport.ScaleFactor()
	nc := r.nodes[id]
	redraw := nc == nil || flags.IsDirty() || requested ||
		(te != nil && te.fresh) || nc.stale(rect, ws.clip, ws.hasClip, scale)
	if nc == nil {
		nc = &nodeCache{}
		r.nodes[id] = nc
	}
	if redraw {
		packed := r.stats.Rasterized
		c := plugin.RenderContext{
			Context: plugin.Context{Tree: t, Node: id, Widget: w},
			Style:   st,
			Rect:    rect,
			List:    &r.list,
		}
		if te != nil {
			c.Text = te.res
			te.fresh = false
		}
		r.list.Reset()
		r.list.SetClip(ws.clip, ws.hasClip)
		r.registry.Render(&c)
		r.buildItems(nc, r.list.Commands(), ws.clip, ws.hasClip)
		nc.rect, nc.clip, nc.hasClip, nc.scale = rect, ws.clip, ws.hasClip, scale
		r.stats.Redrawn++
		if r.stats.Rasterized > packed {
			t.MarkDirty(id, dirty.GlyphAtlas)
		}
	} else {
		r.stats.Reused++
	}
	if te != nil && te.res != nil {
		te.res.MarkRendered()
	}
	nc.seen = r.frame
	r.collect(nc, ws.layer)

	kids := t.Children(id)
	if len(kids) == 0 {
		return
	}
	if r.registry.Clips(t, id) {
		if ws.hasClip {
			ws.clip = ws.clip.Intersect(rect)
		} else {
			ws.clip = rect
		}
		ws.hasClip = true
	}
	ws.offset = ws.offset.Sub(r.registry.ScrollOffset(t, id))
	for _, c := range kids {
		r.walk(t, c, ws)
	}
}

// collect queues the items of nc for sorting and assigns their depth.
func (r *Renderer) collect(nc *nodeCache, layer int32) {
	base := float32(int64(layer-minLayer) * zLayer)
	for i := range nc.items {
		it := &nc.items[i]
		it.seq = r.seq
		it.setZ(base + float32(r.seq%zLayer))
		r.seq++
		r.items = append(r.items, it)
	}
}

// buildItems converts draw commands to items, replacing the previous
// items of nc.
func (r *Renderer) buildItems(nc *nodeCache, cmds []draw.Command, clip geom.Rect, hasClip bool) {
	nc.items = nc.items[:0]
	s := r.viewport.ScaleFactor()
	for i := range cmds {
		cmd := &cmds[i]
		switch {
		case cmd.HasClip && hasClip:
			cmd.Clip = cmd.Clip.Intersect(clip)
		case hasClip:
			cmd.Clip, cmd.HasClip = clip, true
		}
		if !cmd.Visible() || cmd.Bounds().Empty() {
			continue
		}
		switch cmd.Kind {
		case draw.KindQuad:
			nc.items = append(nc.items, item{
				pipe:    pipeKey{kind: gpu.PipelineQuad, opaque: !cmd.Translucent()},
				clip:    cmd.Clip,
				hasClip: cmd.HasClip,
				quad:    quadInstance(cmd, s),
			})
		case draw.KindImage:
			if cmd.Texture == 0 || int(cmd.Texture) >= len(r.textures) {
				Logger().Debug("render: image with unregistered texture", "texture", cmd.Texture)
				continue
			}
			uv := cmd.UV
			if uv.Empty() {
				uv = geom.R(0, 0, 1, 1)
			}
			// Images may carry alpha in the texture itself, so they never
			// write depth.
			nc.items = append(nc.items, item{
				pipe:    pipeKey{kind: gpu.PipelineSprite},
				group:   groupKey{texture: cmd.Texture, sampler: uint8(cmd.Sampler)},
				clip:    cmd.Clip,
				hasClip: cmd.HasClip,
				sprites: []gpu.SpriteInstance{{
					Rect:  rect4(cmd.Rect.Scale(s)),
					UV:    rect4(uv),
					Color: color4(cmd.Color),
				}},
			})
		case draw.KindText:
			r.buildGlyphs(nc, cmd, s)
		}
	}
}

// buildGlyphs appends one item per atlas page touched by the run.
func (r *Renderer) buildGlyphs(nc *nodeCache, cmd *draw.Command, s float32) {
	origin := cmd.Rect.Min()
	start := len(nc.items)
	for _, g := range cmd.Text.Inner.Glyphs {
		if !(g.W > 0) || !(g.H > 0) {
			continue
		}
		page, e, ok := r.glyph(g)
		if !ok {
			continue
		}
		inst := gpu.SpriteInstance{
			Rect:  rect4(geom.R(origin.X+g.X, origin.Y+g.Y, g.W, g.H).Scale(s)),
			UV:    rect4(e.UV),
			Color: color4(cmd.Color),
		}
		group := groupKey{glyph: true, texture: uint32(page)} //nolint:gosec // page < maxPages
		idx := -1
		for i := start; i < len(nc.items); i++ {
			if nc.items[i].group == group {
				idx = i
				break
			}
		}
		if idx < 0 {
			nc.items = append(nc.items, item{
				pipe:    pipeKey{kind: gpu.PipelineGlyph},
				group:   group,
				clip:    cmd.Clip,
				hasClip: cmd.HasClip,
			})
			idx = len(nc.items) - 1
		}
		nc.items[idx].sprites = append(nc.items[idx].sprites, inst)
	}
}

// glyph finds or rasterizes g, returning its atlas page and entry.
func (r *Renderer) glyph(g text.Glyph) (int, atlas.Entry, bool) {
	for i, p := range r.pages {
		if e, ok := p.Lookup(g.AtlasKey); ok {
			return i, e, true
		}
	}
	if r.opts.Rasterizer == nil {
		return 0, atlas.Entry{}, false
	}
	cov, w, h, ok := r.opts.Rasterizer.Rasterize(g)
	if !ok {
		return 0, atlas.Entry{}, false
	}
	pixels := r.pages[0].Format().Coverage(cov)
	for i, p := range r.pages {
		if e, ok := p.Insert(g.AtlasKey, pixels, w, h); ok {
			r.stats.Rasterized++
			return i, e, true
		}
	}
	if len(r.pages) >= maxPages {
		Logger().Warn("render: glyph dropped, atlas pages exhausted", "pages", len(r.pages), "glyph", g.GlyphID)
		return 0, atlas.Entry{}, false
	}
	page, err := r.addPage()
	if err != nil {
		Logger().Warn("render: atlas page", "err", err)
		return 0, atlas.Entry{}, false
	}
	e, ok := page.Insert(g.AtlasKey, pixels, w, h)
	if ok {
		r.stats.Rasterized++
	}
	return len(r.pages) - 1, e, ok
}

func (r *Renderer) addPage() (*atlas.Atlas, error) {
	first := r.pages[0]
	page, err := atlas.New(first.Size(), first.Format())
	if err != nil {
		return nil, err
	}
	if err := page.CreateTexture(r.device); err != nil {
		return nil, err
	}
	r.pages = append(r.pages, page)
	Logger().Info("render: atlas page added", "pages", len(r.pages), "size", first.Size())
	return page, nil
}

func quadInstance(cmd *draw.Command, s float32) gpu.QuadInstance {
	radius := cmd.ClampedRadius() * s
	return gpu.QuadInstance{
		Rect:        rect4(cmd.Rect.Scale(s)),
		Color:       color4(cmd.Color),
		BorderColor: color4(cmd.BorderColor),
		Radii:       [4]float32{radius, radius, radius, radius},
		BorderWidth: max(cmd.BorderWidth, 0) * s,
	}
}

func rect4(r geom.Rect) [4]float32 { return [4]float32{r.X, r.Y, r.W, r.H} }

func color4(c style.Color) [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }
