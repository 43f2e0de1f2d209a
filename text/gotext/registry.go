// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gotext shapes text with go-text/typesetting (HarfBuzz) and
// rasterizes glyph coverage with golang.org/x/image.
//
// Usage:
//
//	reg := gotext.NewRegistry()
//	shaper := gotext.NewShaper(reg)
//	pipeline.ProcessPending(shaper.Shape)
//
// Both Shaper and Rasterizer are safe for concurrent use.
package gotext

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// DefaultFontID is the ID of the built-in Go Regular font.
const DefaultFontID uint32 = 0

// DefaultFontName is the registry name of the built-in font.
const DefaultFontName = "Go Regular"

// Errors returned by Registry.
var (
	ErrEmptyFontData = errors.New("gotext: empty font data")
	ErrDuplicateFont = errors.New("gotext: font name already registered")
)

// Font is a parsed font. The go-text font drives shaping; the sfnt font
// supplies metrics and outlines.
type Font struct {
	ID   uint32
	Name string

	shape   *font.Font
	outline *sfnt.Font
}

// Metrics are vertical font metrics at a pixel size.
type Metrics struct {
	Ascent     float32
	Descent    float32
	LineHeight float32
}

func (f *Font) metrics(buf *sfnt.Buffer, px float32) Metrics {
	m, err := f.outline.Metrics(buf, toFixed(px), xfont.HintingNone)
	if err != nil {
		return Metrics{Ascent: px * 0.8, Descent: px * 0.2, LineHeight: px * 1.2}
	}
	lm := Metrics{
		Ascent:     fromFixed(m.Ascent),
		Descent:    fromFixed(m.Descent),
		LineHeight: fromFixed(m.Height),
	}
	if lm.LineHeight < lm.Ascent+lm.Descent {
		lm.LineHeight = lm.Ascent + lm.Descent
	}
	return lm
}

// Registry maps font names to IDs.
type Registry struct {
	mu     sync.RWMutex
	fonts  []*Font
	byName map[string]uint32
}

// NewRegistry creates a registry holding the Go Regular font as
// DefaultFontID.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]uint32)}
	if _, err := r.Register(DefaultFontName, goregular.TTF); err != nil {
		// goregular is embedded and always parses.
		panic(fmt.Sprintf("gotext: parse built-in font: %v", err))
	}
	return r
}

// Register parses data as TrueType/OpenType and returns its ID.
func (r *Registry) Register(name string, data []byte) (uint32, error) {
	if len(data) == 0 {
		return 0, ErrEmptyFontData
	}
	r.mu.RLock()
	_, dup := r.byName[name]
	r.mu.RUnlock()
	if dup {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateFont, name)
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("gotext: parse %q: %w", name, err)
	}
	outline, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("gotext: parse outlines of %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateFont, name)
	}
	id := uint32(len(r.fonts)) //nolint:gosec // font count is small
	r.fonts = append(r.fonts, &Font{ID: id, Name: name, shape: face.Font, outline: outline})
	r.byName[name] = id
	Logger().Info("gotext: font registered", "name", name, "id", id)
	return id, nil
}

// Lookup returns the ID registered under name.
func (r *Registry) Lookup(name string) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	return id, ok
}

// Font returns the font with id.
func (r *Registry) Font(id uint32) (*Font, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(id) >= len(r.fonts) {
		return nil, false
	}
	return r.fonts[id], true
}

// Len returns the number of registered fonts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fonts)
}

// toFixed converts a pixel size to 26.6 fixed point.
func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
