// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/ui/atlas"
)

func TestParseConfigDefaults(t *testing.T) {
	c, err := ParseConfig(nil)
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if c != DefaultConfig() {
		t.Errorf("empty config = %+v, want defaults", c)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	c, err := ParseConfig([]byte(`
atlas_size = 2048
atlas_format = "rgba8"
width_bucket = 4.0
shape_workers = 4
depth = false
instrumented = true
`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}
	if c.AtlasSize != 2048 || c.AtlasFormat != "rgba8" || c.WidthBucket != 4 {
		t.Errorf("atlas/bucket = %+v", c)
	}
	if c.ShapeWorkers != 4 || c.Depth || !c.Instrumented {
		t.Errorf("flags = %+v", c)
	}
	if c.CacheLimit != DefaultConfig().CacheLimit {
		t.Errorf("unset cache_limit = %d, want default", c.CacheLimit)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		invalid bool
	}{
		{"syntax", `atlas_size = `, false},
		{"wrong type", `atlas_size = "big"`, false},
		{"atlas not power of two", `atlas_size = 1000`, true},
		{"unknown format", `atlas_format = "rgb565"`, true},
		{"zero bucket", `width_bucket = 0.0`, true},
		{"negative cache", `cache_limit = -1`, true},
		{"negative prune", `prune_every = -5`, true},
		{"zero capacity", `initial_capacity = 0`, true},
		{"zero workers", `shape_workers = 0`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ui.toml")
	if err := os.WriteFile(path, []byte("cache_limit = 16\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil || c.CacheLimit != 16 {
		t.Fatalf("LoadConfig = %+v, %v", c, err)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file accepted")
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	want := DefaultConfig()
	want.Theme = "themes/dark.toml"
	data, err := want.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParseConfig(data)
	if err != nil || got != want {
		t.Errorf("round trip = %+v, %v", got, err)
	}
}

func TestConfigOptions(t *testing.T) {
	c := DefaultConfig()
	c.AtlasSize = 512
	c.AtlasFormat = atlas.FormatRGBA8.String()
	c.PruneEvery = 0
	c.Theme = "t.toml"

	o := defaultOptions()
	for _, opt := range c.Options() {
		opt(&o)
	}
	if o.config != c {
		t.Errorf("options config = %+v, want %+v", o.config, c)
	}
}

func TestOptions(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{
		WithViewport(1280, 720, 2),
		WithAtlas(4096, atlas.FormatBGRA8),
		WithShapeWorkers(3),
		WithShaper(monoShaper, nil),
		WithMiddleware(&freezeLayout{}, 5),
	} {
		opt(&o)
	}
	if o.viewport.Logical().W != 640 {
		t.Errorf("viewport = %+v", o.viewport)
	}
	if o.config.AtlasSize != 4096 || o.config.AtlasFormat != "bgra8" || o.config.ShapeWorkers != 3 {
		t.Errorf("config = %+v", o.config)
	}
	if o.shaper == nil || o.rasterizer != nil {
		t.Error("shaper option not applied")
	}
	if len(o.middleware) != 1 || o.middleware[0].priority != 5 {
		t.Errorf("middleware = %+v", o.middleware)
	}
}
