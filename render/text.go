// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// textEntry is the shaping state of one text-bearing node.
type textEntry struct {
	spec   widget.TextSpec
	wrap   float32
	bucket int32
	req    text.RequestID
	res    *text.ShapedResult
	// fresh is set when res arrived since the node was last drawn.
	fresh bool
	seen  uint64
}

// RequestText queues shaping for text nodes whose content or width
// changed. Call it after layout and before the text pipeline processes
// pending requests. It returns the number of requests issued.
func (r *Renderer) RequestText(t *tree.Tree) int {
	n := 0
	for id, flags := range t.DirtyNodes() {
		if !flags.HasAny(dirty.TextShaping | dirty.Layout | dirty.Transform) {
			continue
		}
		w, ok := t.Widget(id)
		if !ok {
			continue
		}
		rect, _ := t.Layout(id)
		if _, requested := r.ensureText(id, w, rect); requested {
			n++
		}
	}
	return n
}

// ensureText returns the entry for a Shaped widget, requesting shaping
// when its spec or wrap bucket changed.
func (r *Renderer) ensureText(id tree.NodeID, w widget.Widget, rect geom.Rect) (*textEntry, bool) {
	sh, ok := w.(widget.Shaped)
	if !ok {
		return nil, false
	}
	spec := sh.ShapeInput()
	var wrap float32
	bucket := int32(-1)
	if spec.Wrap {
		wrap = max(rect.W, 0)
		bucket = text.WidthBucket(wrap, r.texts.WidthBucketPx())
	}
	e, ok := r.text[id]
	if ok && e.spec == spec && e.bucket == bucket {
		return e, false
	}
	if !ok {
		e = &textEntry{}
		r.text[id] = e
	}
	r.dropText(e)
	e.spec, e.wrap, e.bucket = spec, wrap, bucket
	if spec.Text != "" {
		e.req = r.texts.RequestShape(spec.Text, spec.FontID, spec.Size, wrap, spec.Wrap)
	}
	// A cache hit completes at once.
	r.collectText(e)
	return e, true
}

// collectText picks up a completed result for e.
func (r *Renderer) collectText(e *textEntry) {
	if e.req == 0 {
		return
	}
	res, ok := r.texts.TakeCompleted(e.req)
	if !ok {
		return
	}
	e.res.Release()
	e.res, e.req, e.fresh = res, 0, true
}

// dropText releases the result and any outstanding request of e.
func (r *Renderer) dropText(e *textEntry) {
	if e.req != 0 {
		r.texts.Cancel(e.req)
		e.req = 0
	}
	e.res.Release()
	e.res = nil
	e.fresh = false
}

// pruneText drops entries of nodes not drawn this frame.
func (r *Renderer) pruneText() {
	for id, e := range r.text {
		if e.seen != r.frame {
			r.dropText(e)
			delete(r.text, id)
		}
	}
}
