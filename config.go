// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ui/atlas"
)

// ErrInvalidConfig is wrapped by every Config validation error.
var ErrInvalidConfig = errors.New("ui: invalid config")

// Config is the file form of the engine options:
//
//	atlas_size = 1024
//	width_bucket = 8.0
//	theme = "themes/midnight.toml"
//	instrumented = true
type Config struct {
	// AtlasSize is the side of each glyph atlas page; a power of two.
	AtlasSize uint32 `toml:"atlas_size"`
	// AtlasFormat is "r8", "rgba8" or "bgra8".
	AtlasFormat string `toml:"atlas_format"`
	// WidthBucket is the wrap width quantum for shaping cache keys.
	WidthBucket float32 `toml:"width_bucket"`
	// CacheLimit caps the shaping cache; zero means unbounded.
	CacheLimit int `toml:"cache_limit"`
	// PruneEvery runs a shaping cache prune every that many frames; zero
	// disables pruning.
	PruneEvery int `toml:"prune_every"`
	// PruneBelow is the render count under which cached results are pruned.
	PruneBelow uint32 `toml:"prune_below"`
	// InitialCapacity is the starting instance count of each buffer.
	InitialCapacity int `toml:"initial_capacity"`
	// ShapeWorkers shapes text on that many goroutines when above one.
	ShapeWorkers int `toml:"shape_workers"`
	// Depth enables the depth attachment for opaque batches.
	Depth bool `toml:"depth"`
	// Theme is a theme file to load and watch.
	Theme string `toml:"theme"`
	// Instrumented turns on solver timing and per-frame metrics.
	Instrumented bool `toml:"instrumented"`
}

// DefaultConfig returns the configuration New uses without options.
func DefaultConfig() Config {
	return Config{
		AtlasSize:       1024,
		AtlasFormat:     "r8",
		WidthBucket:     8,
		CacheLimit:      4096,
		PruneEvery:      120,
		PruneBelow:      1,
		InitialCapacity: 256,
		ShapeWorkers:    1,
		Depth:           true,
	}
}

// ParseConfig decodes TOML over DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	c := DefaultConfig()
	if err := toml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("ui: config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses the config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ui: config: %w", err)
	}
	c, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks that every field is usable.
func (c Config) Validate() error {
	if c.AtlasSize == 0 || c.AtlasSize&(c.AtlasSize-1) != 0 {
		return fmt.Errorf("%w: atlas_size %d is not a power of two", ErrInvalidConfig, c.AtlasSize)
	}
	if _, err := atlas.ParseFormat(c.AtlasFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case !(c.WidthBucket > 0):
		return fmt.Errorf("%w: width_bucket %v", ErrInvalidConfig, c.WidthBucket)
	case c.CacheLimit < 0:
		return fmt.Errorf("%w: cache_limit %d", ErrInvalidConfig, c.CacheLimit)
	case c.PruneEvery < 0:
		return fmt.Errorf("%w: prune_every %d", ErrInvalidConfig, c.PruneEvery)
	case c.InitialCapacity < 1:
		return fmt.Errorf("%w: initial_capacity %d", ErrInvalidConfig, c.InitialCapacity)
	case c.ShapeWorkers < 1:
		return fmt.Errorf("%w: shape_workers %d", ErrInvalidConfig, c.ShapeWorkers)
	}
	return nil
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) { return toml.Marshal(c) }

// Options converts c to engine options.
func (c Config) Options() []Option {
	format, _ := atlas.ParseFormat(c.AtlasFormat)
	opts := []Option{
		WithAtlas(c.AtlasSize, format),
		WithWidthBucket(c.WidthBucket),
		WithCacheLimit(c.CacheLimit),
		WithPrune(c.PruneEvery, c.PruneBelow),
		WithInitialCapacity(c.InitialCapacity),
		WithShapeWorkers(c.ShapeWorkers),
		WithDepth(c.Depth),
		WithInstrumentation(c.Instrumented),
	}
	if c.Theme != "" {
		opts = append(opts, WithThemeFile(c.Theme))
	}
	return opts
}
