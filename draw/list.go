// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package draw

import (
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
)

// List collects commands. Every pushed command inherits the list's
// current clip and z unless it already carries its own clip.
type List struct {
	cmds    []Command
	clips   []clipState
	clip    geom.Rect
	hasClip bool
	z       float32
}

type clipState struct {
	rect geom.Rect
	set  bool
}

// Reset drops every command and the clip stack. The backing storage is
// kept.
func (l *List) Reset() {
	clear(l.cmds)
	l.cmds = l.cmds[:0]
	l.clips = l.clips[:0]
	l.clip = geom.Rect{}
	l.hasClip = false
	l.z = 0
}

// Len returns the number of commands.
func (l *List) Len() int { return len(l.cmds) }

// Commands returns the commands in push order. The slice is owned by the
// list.
func (l *List) Commands() []Command { return l.cmds }

// SetZ sets the depth assigned to subsequent commands.
func (l *List) SetZ(z float32) { l.z = z }

// Clip returns the current clip and whether one is set.
func (l *List) Clip() (geom.Rect, bool) { return l.clip, l.hasClip }

// SetClip replaces the current clip without touching the stack.
func (l *List) SetClip(r geom.Rect, ok bool) { l.clip, l.hasClip = r, ok }

// PushClip intersects the current clip with r.
func (l *List) PushClip(r geom.Rect) {
	l.clips = append(l.clips, clipState{rect: l.clip, set: l.hasClip})
	if l.hasClip {
		r = l.clip.Intersect(r)
	}
	l.clip, l.hasClip = r, true
}

// PopClip restores the clip saved by the matching PushClip.
func (l *List) PopClip() {
	if n := len(l.clips); n > 0 {
		l.clip, l.hasClip = l.clips[n-1].rect, l.clips[n-1].set
		l.clips = l.clips[:n-1]
	}
}

// Push appends c.
func (l *List) Push(c Command) {
	if !c.HasClip && l.hasClip {
		c.Clip, c.HasClip = l.clip, true
	}
	if c.Z == 0 {
		c.Z = l.z
	}
	l.cmds = append(l.cmds, c)
}

// Quad appends a solid quad.
func (l *List) Quad(r geom.Rect, c style.Color) { l.Push(Quad(r, c)) }

// Box appends a quad painted with the style's background, border and
// radius. Nothing is appended when the box has no visible paint.
func (l *List) Box(r geom.Rect, st *style.Style) {
	c := Command{
		Kind:        KindQuad,
		Rect:        r,
		Color:       st.Background,
		BorderColor: st.BorderColor,
		BorderWidth: st.BorderWidth,
		Radius:      st.BorderRadius,
	}
	if c.Visible() {
		l.Push(c)
	}
}

// Outline appends a hollow rectangle of width w.
func (l *List) Outline(r geom.Rect, c style.Color, w float32) {
	l.Push(Command{Kind: KindQuad, Rect: r, BorderColor: c, BorderWidth: w})
}

// Text appends a shaped run.
func (l *List) Text(origin geom.Point, res *text.ShapedResult, c style.Color) {
	if res == nil {
		return
	}
	l.Push(Text(origin, res, c))
}

// Append copies every command of o onto l, keeping their clips.
func (l *List) Append(o *List) {
	l.cmds = append(l.cmds, o.cmds...)
}
