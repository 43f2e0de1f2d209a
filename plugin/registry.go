// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package plugin maps widget kinds to their behavior.
//
// A [Descriptor] bundles what the engine needs to know about one widget
// kind: how to draw it, how to measure it, whether it clips, and how it
// reacts to input. The [Registry] is the only place kinds are dispatched
// on; the renderer, the layout measurer and the event dispatcher all go
// through it. Plugins register kinds and event interceptors through a
// [Manager].
package plugin

import (
	"errors"
	"fmt"

	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

var (
	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("plugin: kind already registered")
	// ErrEmptyKind is returned for a descriptor without a kind.
	ErrEmptyKind = errors.New("plugin: empty kind")
	// ErrDuplicatePlugin is returned when a plugin type is added twice.
	ErrDuplicatePlugin = errors.New("plugin: plugin already added")
)

// Context addresses the node an event hook runs for.
type Context struct {
	Tree   *tree.Tree
	Node   tree.NodeID
	Widget widget.Widget
}

// Style returns the node style for reading.
func (c *Context) Style() *style.Style { return c.Tree.StylePtr(c.Node) }

// Rect returns the node's absolute rect before scrolling.
func (c *Context) Rect() geom.Rect {
	r, _ := c.Tree.Layout(c.Node)
	return r
}

// RenderContext is passed to a descriptor's Render.
type RenderContext struct {
	Context
	Style *style.Style
	// Rect is the node rect in surface coordinates, scroll applied.
	Rect geom.Rect
	// Text is the node's shaped text, nil until shaping completes.
	Text *text.ShapedResult
	List *draw.List

	shape ShapeFunc
}

// Shape shapes spec synchronously through the shared cache. It is meant
// for secondary labels; a node's primary text arrives in Text.
func (c *RenderContext) Shape(spec widget.TextSpec) (*text.ShapedResult, bool) {
	if c.shape == nil {
		return nil, false
	}
	return c.shape(spec, 0, false)
}

// MeasureContext is passed to a descriptor's Measure.
type MeasureContext struct {
	Context
	Avail layout.Available

	shape ShapeFunc
}

// Shape shapes spec synchronously through the shared cache.
func (c *MeasureContext) Shape(spec widget.TextSpec, wrap float32, hasWrap bool) (text.Inner, bool) {
	if c.shape == nil {
		return text.Inner{}, false
	}
	res, ok := c.shape(spec, wrap, hasWrap)
	if !ok {
		return text.Inner{}, false
	}
	return res.Inner, true
}

// ShapeFunc shapes a text spec, synchronously, through a cache.
type ShapeFunc func(spec widget.TextSpec, wrap float32, hasWrap bool) (*text.ShapedResult, bool)

// Descriptor is the behavior of one widget kind. Every field but Kind is
// optional.
type Descriptor struct {
	Kind widget.Kind

	Render  func(c *RenderContext)
	Measure func(c *MeasureContext) geom.Size

	// Overflow overrides the style's overflow.
	Overflow func(c *Context) (x, y style.Overflow)
	// ClipsChildren forces clipping regardless of overflow.
	ClipsChildren func(c *Context) bool
	// ScrollOffset shifts the node's children.
	ScrollOffset func(c *Context) geom.Point

	OnHover func(c *Context, on bool) bool
	OnPress func(c *Context, on bool) bool
	OnFocus func(c *Context, on bool) bool
	// OnClick reports whether the node takes keyboard focus.
	OnClick func(c *Context) bool
	OnKey   func(c *Context, k event.Key) event.HandleStatus
	OnChar  func(c *Context, r rune) event.HandleStatus
}

// Registry maps widget kinds to descriptors.
//
// Registry is not safe for concurrent use.
type Registry struct {
	descs        map[widget.Kind]*Descriptor
	kinds        []widget.Kind
	interceptors []event.Interceptor
	shape        ShapeFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{descs: make(map[widget.Kind]*Descriptor)}
}

// Register adds d. A kind can be registered once.
func (r *Registry) Register(d Descriptor) error {
	if d.Kind == "" {
		return ErrEmptyKind
	}
	if _, ok := r.descs[d.Kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, d.Kind)
	}
	r.descs[d.Kind] = &d
	r.kinds = append(r.kinds, d.Kind)
	return nil
}

// Lookup returns the descriptor for kind.
func (r *Registry) Lookup(kind widget.Kind) (*Descriptor, bool) {
	d, ok := r.descs[kind]
	return d, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []widget.Kind { return r.kinds }

// AddInterceptor registers a cross-widget event interceptor.
func (r *Registry) AddInterceptor(fn event.Interceptor) {
	if fn != nil {
		r.interceptors = append(r.interceptors, fn)
	}
}

// Interceptors returns the interceptors in registration order.
func (r *Registry) Interceptors() []event.Interceptor { return r.interceptors }

// SetShaper installs the synchronous shaping used by Measure and
// RenderContext.Shape.
func (r *Registry) SetShaper(fn ShapeFunc) { r.shape = fn }

// PipelineShaper adapts a text pipeline and shaper to a ShapeFunc.
func PipelineShaper(p *text.Pipeline, fn text.ShapeFunc) ShapeFunc {
	return func(spec widget.TextSpec, wrap float32, hasWrap bool) (*text.ShapedResult, bool) {
		return p.Shape(spec.Text, spec.FontID, spec.Size, wrap, hasWrap, fn)
	}
}

// Render runs the descriptor of the node in c. Unknown kinds draw
// nothing and report false.
func (r *Registry) Render(c *RenderContext) bool {
	if c.Widget == nil {
		return false
	}
	d, ok := r.descs[c.Widget.Kind()]
	if !ok {
		return false
	}
	if d.Render != nil {
		c.shape = r.shape
		d.Render(c)
	}
	return true
}

func (r *Registry) context(t *tree.Tree, id tree.NodeID) (*Context, *Descriptor, bool) {
	w, ok := t.Widget(id)
	if !ok {
		return nil, nil, false
	}
	d, ok := r.descs[w.Kind()]
	if !ok {
		return nil, nil, false
	}
	return &Context{Tree: t, Node: id, Widget: w}, d, true
}

// Overflow returns the effective overflow of id.
func (r *Registry) Overflow(t *tree.Tree, id tree.NodeID) (x, y style.Overflow) {
	if c, d, ok := r.context(t, id); ok && d.Overflow != nil {
		return d.Overflow(c)
	}
	if st := t.StylePtr(id); st != nil {
		return st.OverflowX, st.OverflowY
	}
	return style.Visible, style.Visible
}
