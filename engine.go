// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"maps"

	"github.com/gogpu/gputypes"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/ui/asset"
	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/internal/metrics"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/middleware"
	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/plugin/scroll"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/text/gotext"
	"github.com/gogpu/ui/theme"
	"github.com/gogpu/ui/tree"
)

// ErrCustomShaper is returned by LoadFont when the engine was created
// with WithShaper and has no font registry of its own.
var ErrCustomShaper = errors.New("ui: fonts are managed by the custom shaper")

// FrameStats describes one Frame.
type FrameStats struct {
	render.FrameStats

	// Frame is the number of the frame, starting at 1.
	Frame uint64
	// Events is the number of events processed.
	Events int
	// Layout is the solver report; Layout.Skipped is set when nothing
	// needed layout or a middleware skipped it.
	Layout layout.Metrics
	// Shaped is the number of text requests shaped this frame.
	Shaped int
	// Pruned is the number of shaping results dropped by the periodic prune.
	Pruned int
}

// loadedImage is a loaded image and the texture it was uploaded to.
type loadedImage struct {
	handle  asset.Handle[*image.RGBA]
	texture uint32
	size    geom.Size
}

// Engine runs the retained UI: it owns the widget tree and drives events,
// layout, text shaping and rendering once per Frame.
//
// Engine is not safe for concurrent use. Call every method from the
// thread that owns the device queue, except Queue.
type Engine struct {
	opts options

	tree     *tree.Tree
	plugins  *plugin.Manager
	registry *plugin.Registry
	host     *middleware.Host
	dispatch *event.Dispatcher

	texts    *text.Pipeline
	shape    text.ShapeFunc
	fonts    *gotext.Registry
	renderer *render.Renderer

	assets *asset.Server
	images map[string]*loadedImage

	theme   *theme.Theme
	watcher *theme.Watcher
	metrics *metrics.Collector

	viewport render.Viewport
	queue    updateQueue
	frame    uint64
	closed   bool
	last     FrameStats
}

// New creates an engine drawing with device.
func New(device gpu.Device, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	cfg := o.config

	e := &Engine{
		opts:     o,
		plugins:  plugin.NewManager(nil),
		host:     middleware.NewHost(),
		images:   make(map[string]*loadedImage),
		viewport: o.viewport,
	}
	e.registry = e.plugins.Registry()
	if _, err := plugin.Add(e.plugins, plugin.CorePlugin{}); err != nil {
		return nil, err
	}
	if _, err := plugin.Add(e.plugins, &scroll.Plugin{}); err != nil {
		return nil, err
	}

	solver := layout.NewSolver()
	solver.SetInstrumented(cfg.Instrumented)
	e.tree = tree.New(solver)
	e.tree.SetMeasurer(e.registry)

	e.texts = text.NewPipeline(text.WithWidthBucket(cfg.WidthBucket), text.WithCacheLimit(cfg.CacheLimit))
	rasterizer := o.rasterizer
	if o.shaper != nil {
		e.shape = o.shaper
	} else {
		e.fonts = gotext.NewRegistry()
		e.shape = gotext.NewShaper(e.fonts).Shape
		rasterizer = gotext.NewRasterizer(e.fonts)
	}
	e.registry.SetShaper(plugin.PipelineShaper(e.texts, e.shape))

	format, _ := atlas.ParseFormat(cfg.AtlasFormat)
	glyphs, err := atlas.New(cfg.AtlasSize, format)
	if err != nil {
		return nil, fmt.Errorf("ui: %w", err)
	}
	ropts := render.DefaultOptions()
	ropts.InitialCapacity = cfg.InitialCapacity
	ropts.Rasterizer = rasterizer
	if !cfg.Depth {
		ropts.DepthFormat = gputypes.TextureFormatUndefined
	}
	if e.renderer, err = render.New(device, e.registry, e.texts, glyphs, ropts); err != nil {
		return nil, err
	}

	for _, p := range o.middleware {
		if err := e.host.Add(p.mw, p.priority); err != nil {
			e.renderer.Destroy()
			return nil, err
		}
	}

	e.dispatch = event.NewDispatcher(e.registry)
	e.dispatch.AddInterceptor(e.intercept)
	e.dispatch.AddInterceptor(e.host.Interceptor(e.context))
	e.dispatch.AddInterceptor(e.pluginIntercept)

	e.assets = asset.NewServer(o.assets)
	e.assets.RegisterImageLoaders()
	e.assets.RegisterFontLoaders()
	e.assets.OnUnload(e.unloadImage)

	e.theme = theme.Light()
	if cfg.Theme != "" {
		th, err := theme.Load(cfg.Theme)
		if err != nil {
			e.renderer.Destroy()
			return nil, err
		}
		e.theme = th
		if e.watcher, err = theme.Watch(cfg.Theme); err != nil {
			Logger().Warn("ui: theme reload disabled", "path", cfg.Theme, "err", err)
		}
	}
	if cfg.Instrumented {
		e.metrics = metrics.New()
	}

	Logger().Info("ui: engine created",
		"viewport", e.viewport, "atlas", cfg.AtlasSize, "format", format, "depth", cfg.Depth)
	return e, nil
}

// NewFromProvider creates an engine on the device of a gpucontext
// provider that exposes its HAL objects.
func NewFromProvider(provider render.DeviceHandle, opts ...Option) (*Engine, error) {
	device, err := gpu.FromProvider(provider)
	if err != nil {
		return nil, err
	}
	return New(device, opts...)
}

// AddPlugin builds p into e and returns the handle that gates the
// builder methods needing it.
func AddPlugin[P plugin.Plugin](e *Engine, p P) (plugin.Handle[P], error) {
	return plugin.Add(e.plugins, p)
}

// Tree returns the widget tree.
func (e *Engine) Tree() *tree.Tree { return e.tree }

// Plugins returns the plugin manager.
func (e *Engine) Plugins() *plugin.Manager { return e.plugins }

// Dispatcher returns the event dispatcher.
func (e *Engine) Dispatcher() *event.Dispatcher { return e.dispatch }

// Host returns the middleware host.
func (e *Engine) Host() *middleware.Host { return e.host }

// Renderer returns the renderer.
func (e *Engine) Renderer() *render.Renderer { return e.renderer }

// Texts returns the text shaping pipeline.
func (e *Engine) Texts() *text.Pipeline { return e.texts }

// Viewport returns the current surface size.
func (e *Engine) Viewport() render.Viewport { return e.viewport }

// Theme returns the active theme.
func (e *Engine) Theme() *theme.Theme { return e.theme }

// Closed reports whether a Close event was received.
func (e *Engine) Closed() bool { return e.closed }

// LastFrame returns the statistics of the previous Frame.
func (e *Engine) LastFrame() FrameStats { return e.last }

// Metrics returns the prometheus collector of the engine, or nil when
// instrumentation is off.
func (e *Engine) Metrics() prometheus.Collector {
	if e.metrics == nil {
		return nil
	}
	return e.metrics
}

// Resize sets the surface size in physical pixels. A scale of zero keeps
// the current one.
func (e *Engine) Resize(width, height uint32, scale float32) {
	e.viewport.Width, e.viewport.Height = width, height
	if scale > 0 {
		e.viewport.Scale = scale
	}
}

// SetTheme applies th to the tree. New nodes mounted later are themed
// too. Only changed colors are marked, so a theme switch is paint-only.
func (e *Engine) SetTheme(th *theme.Theme) {
	if th == nil {
		return
	}
	e.theme = th
	n := th.Apply(e.tree)
	Logger().Debug("ui: theme applied", "theme", th.Name, "nodes", n)
}

// Queue schedules fn to run against the tree at the start of the next
// Frame, after events. It is safe to call from any goroutine.
func (e *Engine) Queue(fn func(t *tree.Tree)) { e.queue.push(fn) }

// SetText queues a text change of the widget registered as name.
func (e *Engine) SetText(name tree.WidgetID, s string) {
	e.Queue(func(t *tree.Tree) { t.UpdateTextByID(name, s) })
}

// Frame runs one frame: events, queued updates, middleware, layout, text
// shaping and render preparation. When pass is not nil the frame is
// recorded into it.
func (e *Engine) Frame(batch *event.Batch, pass gpu.PassEncoder) (FrameStats, error) {
	return e.FrameContext(context.Background(), batch, pass)
}

// FrameContext is Frame with a context bounding parallel text shaping.
func (e *Engine) FrameContext(ctx context.Context, batch *event.Batch, pass gpu.PassEncoder) (FrameStats, error) {
	e.frame++
	st := FrameStats{Frame: e.frame}

	e.pollTheme()
	if batch != nil {
		st.Events = batch.Len()
		e.dispatch.Process(e.tree, batch)
	}
	e.queue.run(e.tree)

	c := e.context()
	e.host.Update(&c)
	e.remeasureText()

	if e.host.PreLayout(&c) {
		st.Layout = layout.Metrics{Skipped: true}
	} else {
		st.Layout = e.tree.ComputeLayout(e.viewport.Logical())
	}
	e.host.PostLayout(&c)

	e.renderer.RequestText(e.tree)
	var err error
	if st.Shaped, err = e.shapePending(ctx); err != nil {
		return st, err
	}

	e.host.PreRender(&c)
	e.renderer.SetOverlay(e.host.PostRender(&c))

	rs, err := e.renderer.Prepare(e.tree, e.viewport)
	if err != nil {
		return st, err
	}
	st.FrameStats = rs
	if pass != nil {
		if err := e.renderer.Record(pass, e.viewport); err != nil {
			return st, err
		}
	}
	e.tree.ClearDirtyFlags()

	if cfg := e.opts.config; cfg.PruneEvery > 0 && e.frame%uint64(cfg.PruneEvery) == 0 {
		st.Pruned = e.texts.PruneCache(cfg.PruneBelow)
		if st.Pruned > 0 {
			Logger().Debug("ui: pruned shaping cache", "entries", st.Pruned)
		}
	}
	if e.metrics != nil {
		e.metrics.Observe(e.snapshot(st))
	}
	e.last = st
	return st, nil
}

// Destroy stops the theme watcher and releases every GPU resource the
// engine created.
func (e *Engine) Destroy() {
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			Logger().Warn("ui: theme watcher close", "err", err)
		}
		e.watcher = nil
	}
	for _, im := range maps.Clone(e.images) {
		im.handle.Release()
	}
	e.renderer.Destroy()
}

// context returns the middleware context of the current frame.
func (e *Engine) context() middleware.Context {
	return middleware.Context{
		Tree:       e.tree,
		Dispatcher: e.dispatch,
		Viewport:   e.viewport.Logical(),
		Frame:      e.frame,
		Shape:      plugin.PipelineShaper(e.texts, e.shape),
	}
}

// intercept tracks the window events the engine owns and lets them
// continue to the other interceptors.
func (e *Engine) intercept(_ *event.Dispatcher, _ *tree.Tree, ev event.Event) event.HandleStatus {
	switch ev := ev.(type) {
	case event.Resized:
		e.Resize(uint32(max(ev.Size.W, 0)), uint32(max(ev.Size.H, 0)), 0)
	case event.ScaleFactorChanged:
		if ev.Scale > 0 {
			e.viewport.Scale = ev.Scale
		}
	case event.ThemeChanged:
		if e.opts.config.Theme == "" {
			if ev.Dark {
				e.SetTheme(theme.Dark())
			} else {
				e.SetTheme(theme.Light())
			}
		}
	case event.Close:
		e.closed = true
	}
	return event.Ignored
}

// pluginIntercept runs the interceptors of every plugin, including
// plugins added after New.
func (e *Engine) pluginIntercept(d *event.Dispatcher, t *tree.Tree, ev event.Event) event.HandleStatus {
	for _, fn := range e.registry.Interceptors() {
		if s := fn(d, t, ev); s != event.Ignored {
			return s
		}
	}
	return event.Ignored
}

// pollTheme applies a reloaded theme file.
func (e *Engine) pollTheme() {
	if e.watcher == nil {
		return
	}
	if th, ok := e.watcher.Poll(); ok {
		Logger().Info("ui: theme reloaded", "theme", th.Name)
		e.SetTheme(th)
	}
}

// remeasureText invalidates layout for measured nodes whose new text
// changed their intrinsic size. Text changes mark TextShaping only, so a
// label that keeps its size is redrawn without a relayout.
func (e *Engine) remeasureText() {
	var ids []tree.NodeID
	for id, f := range e.tree.DirtyNodes() {
		if f.HasAny(dirty.TextShaping) && !f.HasAny(dirty.Layout) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		e.tree.Remeasure(id)
	}
}

// shapePending shapes every queued text request.
func (e *Engine) shapePending(ctx context.Context) (int, error) {
	if e.texts.Pending() == 0 {
		return 0, nil
	}
	if n := e.opts.config.ShapeWorkers; n > 1 {
		done, err := e.texts.ProcessPendingParallel(ctx, e.shape, n)
		if err != nil {
			return done, fmt.Errorf("ui: shaping: %w", err)
		}
		return done, nil
	}
	return e.texts.ProcessPending(e.shape), nil
}

// snapshot gathers the metrics state of the frame just finished.
func (e *Engine) snapshot(st FrameStats) metrics.Snapshot {
	s := metrics.Snapshot{
		Layout: st.Layout,
		Text:   e.texts.Stats(),
		Render: st.FrameStats,
	}
	for i := 0; ; i++ {
		a := e.renderer.Atlas(i)
		if a == nil {
			break
		}
		s.Atlas = append(s.Atlas, a.Stats())
	}
	quads, sprites, glyphs := e.renderer.Buffers()
	s.Buffers = map[string]gpu.BufferStats{
		"quads":   quads.Stats(),
		"sprites": sprites.Stats(),
		"glyphs":  glyphs.Stats(),
	}
	return s
}
