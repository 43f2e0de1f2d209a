// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"io/fs"

	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/middleware"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/text"
)

// Option configures an Engine during creation.
//
// Example:
//
//	// Defaults: 1024px R8 atlas, depth testing, Go Regular text
//	e, err := ui.New(device)
//
//	// Settings from a file plus a debug overlay
//	cfg, _ := ui.LoadConfig("ui.toml")
//	e, err := ui.New(device, append(cfg.Options(),
//	    ui.WithMiddleware(middleware.NewInspector(), 100))...)
type Option func(*options)

// options holds optional configuration for Engine creation.
type options struct {
	config     Config
	viewport   render.Viewport
	shaper     text.ShapeFunc
	rasterizer text.Rasterizer
	middleware []prioritized
	assets     fs.FS
}

type prioritized struct {
	mw       middleware.Middleware
	priority int
}

// defaultOptions returns the default engine options.
func defaultOptions() options {
	return options{
		config:   DefaultConfig(),
		viewport: render.Viewport{Width: 800, Height: 600, Scale: 1},
	}
}

// WithViewport sets the initial surface size in physical pixels and its
// scale factor.
func WithViewport(width, height uint32, scale float32) Option {
	return func(o *options) {
		o.viewport = render.Viewport{Width: width, Height: height, Scale: scale}
	}
}

// WithAtlas sets the glyph atlas page size and format.
func WithAtlas(size uint32, format atlas.Format) Option {
	return func(o *options) {
		o.config.AtlasSize = size
		o.config.AtlasFormat = format.String()
	}
}

// WithWidthBucket sets the wrap width quantum of shaping cache keys.
func WithWidthBucket(px float32) Option {
	return func(o *options) { o.config.WidthBucket = px }
}

// WithCacheLimit caps the shaping cache. Zero means unbounded.
func WithCacheLimit(n int) Option {
	return func(o *options) { o.config.CacheLimit = n }
}

// WithPrune prunes shaping results rendered fewer than below times, every
// that many frames. every = 0 disables pruning.
func WithPrune(every int, below uint32) Option {
	return func(o *options) {
		o.config.PruneEvery = every
		o.config.PruneBelow = below
	}
}

// WithInitialCapacity sets the starting instance count of each buffer.
func WithInitialCapacity(n int) Option {
	return func(o *options) { o.config.InitialCapacity = n }
}

// WithShapeWorkers shapes text on n goroutines when n > 1.
func WithShapeWorkers(n int) Option {
	return func(o *options) { o.config.ShapeWorkers = n }
}

// WithDepth enables or disables the depth attachment.
func WithDepth(on bool) Option {
	return func(o *options) { o.config.Depth = on }
}

// WithThemeFile loads the theme at path and reloads it when it changes.
func WithThemeFile(path string) Option {
	return func(o *options) { o.config.Theme = path }
}

// WithInstrumentation turns on solver timing and per-frame metrics.
func WithInstrumentation(on bool) Option {
	return func(o *options) { o.config.Instrumented = on }
}

// WithShaper replaces the built-in Go Regular shaper and rasterizer.
// A nil rasterizer leaves glyphs undrawn.
func WithShaper(fn text.ShapeFunc, r text.Rasterizer) Option {
	return func(o *options) {
		o.shaper = fn
		o.rasterizer = r
	}
}

// WithMiddleware installs mw at priority. Higher priorities run first.
func WithMiddleware(mw middleware.Middleware, priority int) Option {
	return func(o *options) {
		o.middleware = append(o.middleware, prioritized{mw: mw, priority: priority})
	}
}

// WithAssets sets the file system images and fonts are loaded from.
func WithAssets(fsys fs.FS) Option {
	return func(o *options) { o.assets = fsys }
}
