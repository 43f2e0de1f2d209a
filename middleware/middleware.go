// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package middleware hosts frame hooks that sit around layout and
// rendering.
//
// A Middleware is any named value. The host discovers which hooks it
// takes part in through the optional interfaces below and calls them in
// priority order, highest first; equal priorities keep insertion order.
//
//	events ─► HandleKey ─► Update ─► PreLayout ─► layout ─► PostLayout
//	       ─► PreRender ─► render ─► PostRender (overlay)
//
// Keybinds registered through KeybindHandler are dispatched before any
// KeyEventHandler sees the key.
package middleware

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/tree"
)

// Errors returned by Host.Add.
var (
	ErrNilMiddleware = errors.New("middleware: nil middleware")
	ErrEmptyName     = errors.New("middleware: empty name")
	ErrDuplicateName = errors.New("middleware: duplicate name")
)

// Context is passed to every hook.
type Context struct {
	Tree       *tree.Tree
	Dispatcher *event.Dispatcher
	// Viewport is the logical surface size.
	Viewport geom.Size
	Frame    uint64
	// Shape shapes labels through the engine's text cache. It may be nil.
	Shape plugin.ShapeFunc
}

// Middleware is the base interface.
type Middleware interface {
	Name() string
}

// PreLayout runs before layout. Returning true skips layout this frame.
type PreLayout interface {
	PreLayout(c *Context) (skip bool)
}

// PostLayout runs after layout.
type PostLayout interface {
	PostLayout(c *Context)
}

// PreRender runs before the render walk.
type PreRender interface {
	PreRender(c *Context)
}

// PostRender draws into the overlay, in logical pixels, after the tree.
type PostRender interface {
	PostRender(c *Context, overlay *draw.List)
}

// Updater runs once per frame after events.
type Updater interface {
	Update(c *Context)
}

// KeybindHandler registers keybinds when added to a host. Binds should be
// owned by the middleware name so Remove can drop them.
type KeybindHandler interface {
	Keybinds(r *KeybindRegistry)
}

// KeyEventHandler sees key events no keybind consumed.
type KeyEventHandler interface {
	HandleKey(c *Context, k event.Key) event.HandleStatus
}

type entry struct {
	mw       Middleware
	priority int
}

// Host runs middleware hooks in priority order.
//
// Host is not safe for concurrent use.
type Host struct {
	entries []entry
	keys    KeybindRegistry
	overlay draw.List
}

// NewHost returns an empty host.
func NewHost() *Host { return &Host{} }

// Add inserts mw at priority. Names must be unique.
func (h *Host) Add(mw Middleware, priority int) error {
	if mw == nil {
		return ErrNilMiddleware
	}
	name := mw.Name()
	if name == "" {
		return ErrEmptyName
	}
	if h.Get(name) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	i, _ := slices.BinarySearchFunc(h.entries, priority, func(e entry, p int) int {
		// Descending; ties sort after existing entries.
		if e.priority >= p {
			return -1
		}
		return 1
	})
	h.entries = slices.Insert(h.entries, i, entry{mw: mw, priority: priority})
	if kb, ok := mw.(KeybindHandler); ok {
		kb.Keybinds(&h.keys)
	}
	return nil
}

// Remove drops the middleware called name and its keybinds.
func (h *Host) Remove(name string) bool {
	i := slices.IndexFunc(h.entries, func(e entry) bool { return e.mw.Name() == name })
	if i < 0 {
		return false
	}
	h.entries = slices.Delete(h.entries, i, i+1)
	h.keys.Unregister(name)
	return true
}

// Get returns the middleware called name, or nil.
func (h *Host) Get(name string) Middleware {
	for _, e := range h.entries {
		if e.mw.Name() == name {
			return e.mw
		}
	}
	return nil
}

// Len returns the number of middleware.
func (h *Host) Len() int { return len(h.entries) }

// Names returns the middleware names in call order.
func (h *Host) Names() []string {
	out := make([]string, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.mw.Name()
	}
	return out
}

// Keybinds returns the keybind registry.
func (h *Host) Keybinds() *KeybindRegistry { return &h.keys }

// PreLayout calls every PreLayout hook and reports whether any asked to
// skip layout.
func (h *Host) PreLayout(c *Context) bool {
	skip := false
	for _, e := range h.entries {
		if p, ok := e.mw.(PreLayout); ok && p.PreLayout(c) {
			skip = true
		}
	}
	return skip
}

// PostLayout calls every PostLayout hook.
func (h *Host) PostLayout(c *Context) {
	for _, e := range h.entries {
		if p, ok := e.mw.(PostLayout); ok {
			p.PostLayout(c)
		}
	}
}

// PreRender calls every PreRender hook.
func (h *Host) PreRender(c *Context) {
	for _, e := range h.entries {
		if p, ok := e.mw.(PreRender); ok {
			p.PreRender(c)
		}
	}
}

// PostRender collects this frame's overlay. The list is owned by the host
// and reset on the next call.
func (h *Host) PostRender(c *Context) *draw.List {
	h.overlay.Reset()
	for _, e := range h.entries {
		if p, ok := e.mw.(PostRender); ok {
			p.PostRender(c, &h.overlay)
		}
	}
	return &h.overlay
}

// Update calls every Updater.
func (h *Host) Update(c *Context) {
	for _, e := range h.entries {
		if u, ok := e.mw.(Updater); ok {
			u.Update(c)
		}
	}
}

// HandleKey dispatches a pressed key to keybinds, then to key handlers
// until one consumes it.
func (h *Host) HandleKey(c *Context, k event.Key) event.HandleStatus {
	if k.Pressed && h.keys.Dispatch(c, k.Code, k.Mods) {
		return event.Consumed
	}
	status := event.Ignored
	for _, e := range h.entries {
		kh, ok := e.mw.(KeyEventHandler)
		if !ok {
			continue
		}
		switch kh.HandleKey(c, k) {
		case event.Consumed:
			return event.Consumed
		case event.Handled:
			status = event.Handled
		}
	}
	return status
}

// Interceptor returns a dispatcher interceptor that routes key events
// through HandleKey before widgets see them. base supplies the fields of
// Context the dispatcher does not know.
func (h *Host) Interceptor(base func() Context) event.Interceptor {
	return func(d *event.Dispatcher, t *tree.Tree, e event.Event) event.HandleStatus {
		k, ok := e.(event.Key)
		if !ok {
			return event.Ignored
		}
		var c Context
		if base != nil {
			c = base()
		}
		c.Tree, c.Dispatcher = t, d
		return h.HandleKey(&c, k)
	}
}
