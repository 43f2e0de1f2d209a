// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package event

import (
	"slices"

	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/tree"
)

// Widgets supplies per-kind widget behavior to the dispatcher. State
// setters report whether anything visible changed; the dispatcher then
// marks the node ColorOnly.
type Widgets interface {
	Hover(t *tree.Tree, id tree.NodeID, on bool) bool
	Press(t *tree.Tree, id tree.NodeID, on bool) bool
	Focus(t *tree.Tree, id tree.NodeID, on bool) bool
	// Click activates id and reports whether it wants keyboard focus.
	Click(t *tree.Tree, id tree.NodeID) bool
	Key(t *tree.Tree, id tree.NodeID, k Key) HandleStatus
	Char(t *tree.Tree, id tree.NodeID, r rune) HandleStatus
	// Clips reports whether id clips hit testing to its rect.
	Clips(t *tree.Tree, id tree.NodeID) bool
	// ScrollOffset is the content offset id applies to its children.
	ScrollOffset(t *tree.Tree, id tree.NodeID) geom.Point
}

// Interceptor sees every event before per-widget dispatch. Returning
// Consumed stops widget dispatch for that event.
type Interceptor func(d *Dispatcher, t *tree.Tree, e Event) HandleStatus

// Dispatcher tracks pointer and keyboard state across frames.
type Dispatcher struct {
	Hovered tree.NodeID
	Focused tree.NodeID
	Pressed []tree.NodeID
	Mouse   geom.Point
	Buttons Buttons

	widgets      Widgets
	interceptors []Interceptor
}

// NewDispatcher returns a dispatcher routing widget behavior through w.
// A nil w ignores every widget.
func NewDispatcher(w Widgets) *Dispatcher {
	if w == nil {
		w = nopWidgets{}
	}
	return &Dispatcher{widgets: w}
}

// SetWidgets replaces the widget behavior source.
func (d *Dispatcher) SetWidgets(w Widgets) {
	if w == nil {
		w = nopWidgets{}
	}
	d.widgets = w
}

// AddInterceptor appends fn; interceptors run in registration order.
func (d *Dispatcher) AddInterceptor(fn Interceptor) {
	if fn != nil {
		d.interceptors = append(d.interceptors, fn)
	}
}

// Process dispatches every unconsumed event of b in order.
func (d *Dispatcher) Process(t *tree.Tree, b *Batch) {
	b.Dispatch(func(e Event) HandleStatus { return d.Handle(t, e) })
}

// Handle dispatches a single event.
func (d *Dispatcher) Handle(t *tree.Tree, e Event) HandleStatus {
	d.forgetStale(t)
	d.track(e)

	status := Ignored
	for _, ic := range d.interceptors {
		s := ic(d, t, e)
		if s > status {
			status = s
		}
		if status == Consumed {
			return Consumed
		}
	}

	var s HandleStatus
	switch e := e.(type) {
	case MouseMoved:
		s = d.moveTo(t, e.Pos)
	case MouseButton:
		s = d.button(t, e)
	case Key:
		s = d.key(t, e)
	case Char:
		s = d.char(t, e.Rune)
	case Touch:
		s = d.touch(t, e)
	case Focus:
		if !e.Focused {
			d.releasePress(t)
			d.Buttons = 0
		}
	}
	return max(status, s)
}

// track updates raw input state so interceptors see current values.
func (d *Dispatcher) track(e Event) {
	switch e := e.(type) {
	case MouseMoved:
		d.Mouse = e.Pos
	case MouseButton:
		d.Buttons.set(e.Button, e.Pressed)
	case Touch:
		d.Mouse = e.Pos
	}
}

func (d *Dispatcher) forgetStale(t *tree.Tree) {
	if !d.Hovered.IsZero() && !t.Contains(d.Hovered) {
		d.Hovered = tree.NodeID{}
	}
	if !d.Focused.IsZero() && !t.Contains(d.Focused) {
		d.Focused = tree.NodeID{}
	}
	d.Pressed = slices.DeleteFunc(d.Pressed, func(id tree.NodeID) bool { return !t.Contains(id) })
}

func (d *Dispatcher) moveTo(t *tree.Tree, p geom.Point) HandleStatus {
	hit := d.HitTest(t, p)
	if hit == d.Hovered {
		if hit.IsZero() {
			return Ignored
		}
		return Handled
	}
	if !d.Hovered.IsZero() && d.widgets.Hover(t, d.Hovered, false) {
		t.MarkDirty(d.Hovered, dirty.ColorOnly)
	}
	d.Hovered = hit
	if !hit.IsZero() && d.widgets.Hover(t, hit, true) {
		t.MarkDirty(hit, dirty.ColorOnly)
	}
	return Handled
}

func (d *Dispatcher) button(t *tree.Tree, e MouseButton) HandleStatus {
	if e.Button != ButtonLeft {
		return Ignored
	}
	if e.Pressed {
		if d.Hovered.IsZero() {
			d.SetFocus(t, tree.NodeID{})
			return Ignored
		}
		if !slices.Contains(d.Pressed, d.Hovered) {
			d.Pressed = append(d.Pressed, d.Hovered)
		}
		if d.widgets.Press(t, d.Hovered, true) {
			t.MarkDirty(d.Hovered, dirty.ColorOnly)
		}
		return Handled
	}

	status := Ignored
	if !d.Hovered.IsZero() && slices.Contains(d.Pressed, d.Hovered) {
		target := d.Hovered
		if d.widgets.Click(t, target) {
			d.SetFocus(t, target)
		}
		status = Handled
	}
	d.releasePress(t)
	return status
}

func (d *Dispatcher) releasePress(t *tree.Tree) {
	for _, id := range d.Pressed {
		if d.widgets.Press(t, id, false) {
			t.MarkDirty(id, dirty.ColorOnly)
		}
	}
	d.Pressed = d.Pressed[:0]
}

// SetFocus moves keyboard focus to id; the zero id releases it.
func (d *Dispatcher) SetFocus(t *tree.Tree, id tree.NodeID) {
	if id == d.Focused {
		return
	}
	if !d.Focused.IsZero() && d.widgets.Focus(t, d.Focused, false) {
		t.MarkDirty(d.Focused, dirty.ColorOnly)
	}
	d.Focused = id
	if !id.IsZero() && d.widgets.Focus(t, id, true) {
		t.MarkDirty(id, dirty.ColorOnly)
	}
}

func (d *Dispatcher) key(t *tree.Tree, k Key) HandleStatus {
	if !k.Pressed || d.Focused.IsZero() {
		return Ignored
	}
	if k.Code == KeyEscape && k.Mods == 0 {
		d.SetFocus(t, tree.NodeID{})
		return Handled
	}
	return d.widgets.Key(t, d.Focused, k)
}

func (d *Dispatcher) char(t *tree.Tree, r rune) HandleStatus {
	if d.Focused.IsZero() {
		return Ignored
	}
	return d.widgets.Char(t, d.Focused, r)
}

// touch drives the pointer state machine with the contact point.
func (d *Dispatcher) touch(t *tree.Tree, e Touch) HandleStatus {
	switch e.Phase {
	case TouchStarted:
		d.moveTo(t, e.Pos)
		return d.button(t, MouseButton{Button: ButtonLeft, Pressed: true})
	case TouchMoved:
		return d.moveTo(t, e.Pos)
	case TouchEnded:
		d.moveTo(t, e.Pos)
		return d.button(t, MouseButton{Button: ButtonLeft})
	case TouchCancelled:
		d.releasePress(t)
	}
	return Ignored
}

// HitTest returns the front-most node under p, or the zero id. Children
// are tested last-to-first, scroll offsets shift descendants, and a
// clipping node hides descendants outside its rect.
func (d *Dispatcher) HitTest(t *tree.Tree, p geom.Point) tree.NodeID {
	id, _ := d.hit(t, t.Root(), p, geom.Point{})
	return id
}

func (d *Dispatcher) hit(t *tree.Tree, id tree.NodeID, p, scroll geom.Point) (tree.NodeID, bool) {
	r, ok := t.Layout(id)
	if !ok {
		return tree.NodeID{}, false
	}
	r = r.Translate(geom.Point{}.Sub(scroll))
	inside := r.Contains(p)
	if !inside && d.widgets.Clips(t, id) {
		return tree.NodeID{}, false
	}
	inner := scroll.Add(d.widgets.ScrollOffset(t, id))
	kids := t.Children(id)
	for i := len(kids) - 1; i >= 0; i-- {
		if h, ok := d.hit(t, kids[i], p, inner); ok {
			return h, true
		}
	}
	if inside {
		return id, true
	}
	return tree.NodeID{}, false
}

type nopWidgets struct{}

func (nopWidgets) Hover(*tree.Tree, tree.NodeID, bool) bool        { return false }
func (nopWidgets) Press(*tree.Tree, tree.NodeID, bool) bool        { return false }
func (nopWidgets) Focus(*tree.Tree, tree.NodeID, bool) bool        { return false }
func (nopWidgets) Click(*tree.Tree, tree.NodeID) bool              { return false }
func (nopWidgets) Key(*tree.Tree, tree.NodeID, Key) HandleStatus   { return Ignored }
func (nopWidgets) Char(*tree.Tree, tree.NodeID, rune) HandleStatus { return Ignored }
func (nopWidgets) Clips(*tree.Tree, tree.NodeID) bool              { return false }
func (nopWidgets) ScrollOffset(*tree.Tree, tree.NodeID) geom.Point { return geom.Point{} }
