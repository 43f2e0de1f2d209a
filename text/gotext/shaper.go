// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gotext

import (
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/text"
)

// Shaper shapes text with HarfBuzz. Paragraphs are split on '\n', each
// paragraph is split into bidi runs, and runs are broken into words that
// are placed greedily when a wrap width is given.
type Shaper struct {
	reg  *Registry
	lang language.Language

	// HarfbuzzShaper and sfnt.Buffer carry mutable state; pool them so
	// concurrent Shape calls each get their own.
	shapers sync.Pool
	buffers sync.Pool
}

// NewShaper creates a shaper over reg.
func NewShaper(reg *Registry) *Shaper {
	return &Shaper{
		reg:     reg,
		lang:    language.NewLanguage("en"),
		shapers: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
		buffers: sync.Pool{New: func() any { return &sfnt.Buffer{} }},
	}
}

// Registry returns the font registry.
func (s *Shaper) Registry() *Registry { return s.reg }

// Shape implements text.ShapeFunc.
func (s *Shaper) Shape(str string, fontID uint32, px, wrap float32, hasWrap bool) text.Inner {
	f, ok := s.reg.Font(fontID)
	if !ok {
		Logger().Warn("gotext: unknown font", "font", fontID)
		return text.Inner{}
	}
	if !(px > 0) || math.IsInf(float64(px), 0) {
		return text.Inner{}
	}

	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)
	hb := s.shapers.Get().(*shaping.HarfbuzzShaper)
	defer s.shapers.Put(hb)

	m := f.metrics(buf, px)
	lb := lineBuilder{
		metrics: m,
		wrap:    wrap,
		hasWrap: hasWrap && wrap > 0,
	}
	face := font.NewFace(f.shape)

	for _, para := range strings.Split(str, "\n") {
		for _, run := range bidiRuns(para) {
			runes := []rune(run.text)
			for _, w := range splitWords(runes) {
				out := hb.Shape(shaping.Input{
					Text:      runes,
					RunStart:  w.start,
					RunEnd:    w.end,
					Direction: run.dir,
					Face:      face,
					Size:      toFixed(px),
					Script:    detectScript(runes[w.start:w.end]),
					Language:  s.lang,
				})
				lb.place(s.convert(f, buf, out.Glyphs, px), w.trailing)
			}
		}
		lb.newline()
	}
	return lb.finish()
}

// convert turns go-text glyphs into positioned glyph boxes relative to the
// pen position at the start of the word.
func (s *Shaper) convert(f *Font, buf *sfnt.Buffer, glyphs []shaping.Glyph, px float32) []placed {
	out := make([]placed, 0, len(glyphs))
	ppem := toFixed(px)
	bucket := text.SizeBucket(px)
	var x float32
	for _, g := range glyphs {
		gid := uint32(g.GlyphID)
		p := placed{
			glyph: text.Glyph{
				AtlasKey: atlas.GlyphKey(f.ID, gid, bucket),
				GlyphID:  gid,
				FontID:   f.ID,
				Size:     px,
				Advance:  fromFixed(g.Advance),
			},
			x: x + fromFixed(g.XOffset),
			y: -fromFixed(g.YOffset),
		}
		b, _, err := f.outline.GlyphBounds(buf, sfnt.GlyphIndex(gid), ppem, xfont.HintingNone)
		if err == nil {
			minX := float32(b.Min.X.Floor())
			minY := float32(b.Min.Y.Floor())
			p.glyph.W = float32(b.Max.X.Ceil()) - minX
			p.glyph.H = float32(b.Max.Y.Ceil()) - minY
			p.bx, p.by = minX, minY
		}
		out = append(out, p)
		x += p.glyph.Advance
	}
	return out
}

// placed is a glyph with its offset inside a word and the bitmap bearing
// relative to the baseline.
type placed struct {
	glyph  text.Glyph
	x, y   float32
	bx, by float32
}

// lineBuilder places words onto lines.
type lineBuilder struct {
	metrics Metrics
	wrap    float32
	hasWrap bool

	glyphs []text.Glyph
	lines  int
	x      float32
	width  float32

	// trailing is the advance of whitespace ending the current line.
	trailing float32
}

func (b *lineBuilder) place(word []placed, trailing bool) {
	var adv float32
	for _, p := range word {
		adv += p.glyph.Advance
	}
	visible := adv
	if trailing && len(word) > 0 {
		visible -= word[len(word)-1].glyph.Advance
	}
	if b.hasWrap && b.x > 0 && b.x+visible > b.wrap {
		b.newline()
	}

	baseline := float32(b.lines)*b.metrics.LineHeight + b.metrics.Ascent
	for _, p := range word {
		if p.glyph.W <= 0 || p.glyph.H <= 0 {
			continue
		}
		g := p.glyph
		g.X = b.x + p.x + p.bx
		g.Y = baseline + p.y + p.by
		b.glyphs = append(b.glyphs, g)
	}
	b.x += adv
	if trailing {
		b.trailing = adv - visible
	} else {
		b.trailing = 0
	}
	if w := b.x - b.trailing; w > b.width {
		b.width = w
	}
}

func (b *lineBuilder) newline() {
	b.lines++
	b.x = 0
	b.trailing = 0
}

func (b *lineBuilder) finish() text.Inner {
	lines := b.lines
	if lines == 0 {
		lines = 1
	}
	return text.Inner{
		Bounds:   geom.Size{W: b.width, H: float32(lines) * b.metrics.LineHeight},
		Glyphs:   b.glyphs,
		Baseline: b.metrics.Ascent,
	}
}

// run is a directional run of a paragraph.
type run struct {
	text string
	dir  di.Direction
}

// bidiRuns splits a paragraph into runs in visual order. Paragraphs
// without right-to-left characters come back as a single LTR run.
func bidiRuns(para string) []run {
	if para == "" {
		return nil
	}
	if !hasRTL(para) {
		return []run{{text: para, dir: di.DirectionLTR}}
	}
	p := bidi.Paragraph{}
	if _, err := p.SetString(para, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return []run{{text: para, dir: di.DirectionLTR}}
	}
	ordering, err := p.Order()
	if err != nil {
		return []run{{text: para, dir: di.DirectionLTR}}
	}
	runs := make([]run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		r := ordering.Run(i)
		dir := di.DirectionLTR
		if r.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		runs = append(runs, run{text: r.String(), dir: dir})
	}
	return runs
}

func hasRTL(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Hebrew, unicode.Arabic, unicode.Syriac, unicode.Thaana, unicode.Nko) {
			return true
		}
	}
	return false
}

// word is a rune range [start, end). trailing reports whether the last
// rune is a space.
type word struct {
	start, end int
	trailing   bool
}

// splitWords breaks runes after each space so every word keeps its
// trailing space.
func splitWords(runes []rune) []word {
	var words []word
	start := 0
	for i, r := range runes {
		if r == ' ' || r == '\t' {
			words = append(words, word{start: start, end: i + 1, trailing: true})
			start = i + 1
		}
	}
	if start < len(runes) {
		words = append(words, word{start: start, end: len(runes)})
	}
	return words
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsSpace(r) {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
