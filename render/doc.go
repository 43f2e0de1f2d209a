// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render turns a widget tree into instanced GPU draws.
//
// The renderer RECEIVES a device and queue from the host; it never creates
// its own. Hosts that share a device through gpucontext pass their
// provider to [NewFromProvider].
//
// # Frame
//
// A frame has two halves:
//
//   - [Renderer.Prepare] walks the tree once, propagating scroll offsets
//     and clip rects. Nodes whose dirty flags are clear and whose rect,
//     clip and depth are unchanged reuse the instances built for them last
//     frame; the rest are drawn again through the plugin registry. Every
//     instance is then sorted, grouped into batches and compared with the
//     previous frame so only changed slots are uploaded.
//   - [Renderer.Record] replays the batches into a render pass, setting
//     pipeline, bind group and scissor only where they change.
//
// # Architecture
//
//	             tree.Tree
//	                 │ walk (clip, scroll, depth)
//	                 ▼
//	  plugin.Registry ──▶ draw.Command ──▶ per-node items (cached)
//	                                            │ sort, batch
//	                                            ▼
//	   quads / sprites / glyphs  gpu.InstanceBuffer ── UploadDirty
//	                                            │
//	                                            ▼
//	                                     gpu.PassEncoder
//
// # Ordering
//
// With a depth attachment, opaque quads and images write depth and draw
// front to back, then translucent commands (text, alpha below one, any
// border or radius) draw back to front with depth testing only. Without
// one, everything draws back to front.
//
// # Text
//
// Text widgets are shaped through the text pipeline. [Renderer.RequestText]
// queues requests for changed nodes before the pipeline processes them;
// Prepare collects completed results. A node whose text is not shaped yet
// draws no glyphs and is drawn again once the result arrives. Glyph
// bitmaps are rasterized on first use into the atlas; when it is full a
// second page is opened.
//
// # Thread Safety
//
// Renderer is NOT safe for concurrent use. It belongs to the UI thread.
package render
