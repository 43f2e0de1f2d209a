// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package theme provides color themes, their TOML form and hot reload.
//
// A theme file may name a base palette and override any field:
//
//	base = "dark"
//	name = "midnight"
//	accent = "#ff7a3d"
//	font_size = 15
//
// Applying a theme to a tree only changes paint, so it never triggers
// layout or shaping.
package theme

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// Errors returned by Parse and Load.
var (
	ErrUnknownBase = errors.New("theme: unknown base")
	ErrInvalid     = errors.New("theme: invalid")
)

// Theme is a named palette plus text size and corner radius defaults.
type Theme struct {
	Name       string      `toml:"name"`
	Background style.Color `toml:"background"`
	Surface    style.Color `toml:"surface"`
	Text       style.Color `toml:"text"`
	Accent     style.Color `toml:"accent"`
	Hover      style.Color `toml:"hover"`
	Pressed    style.Color `toml:"pressed"`
	Border     style.Color `toml:"border"`
	FontSize   float32     `toml:"font_size"`
	Radius     float32     `toml:"radius"`
}

// Light returns the default light theme.
func Light() *Theme {
	return &Theme{
		Name:       "light",
		Background: style.Hex(0xfafafa),
		Surface:    style.Hex(0xe0e0e0),
		Text:       style.Hex(0x1a1a1a),
		Accent:     style.Hex(0x3d7eff),
		Hover:      style.Hex(0xd0d0d0),
		Pressed:    style.Hex(0xb0b0b0),
		Border:     style.Hex(0xc4c4c4),
		FontSize:   16,
		Radius:     4,
	}
}

// Dark returns the default dark theme.
func Dark() *Theme {
	return &Theme{
		Name:       "dark",
		Background: style.Hex(0x1e1e1e),
		Surface:    style.Hex(0x2d2d2d),
		Text:       style.Hex(0xe8e8e8),
		Accent:     style.Hex(0x5b9bff),
		Hover:      style.Hex(0x3a3a3a),
		Pressed:    style.Hex(0x4a4a4a),
		Border:     style.Hex(0x454545),
		FontSize:   16,
		Radius:     4,
	}
}

// Base returns the built-in theme called name.
func Base(name string) (*Theme, bool) {
	switch strings.ToLower(name) {
	case "", "light":
		return Light(), true
	case "dark":
		return Dark(), true
	}
	return nil, false
}

// Parse decodes a theme from TOML. Fields the document leaves out keep
// the values of its base, light by default.
func Parse(data []byte) (*Theme, error) {
	var head struct {
		Base string `toml:"base"`
	}
	if err := toml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	th, ok := Base(head.Base)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBase, head.Base)
	}
	if err := toml.Unmarshal(data, th); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	return th, nil
}

// Load reads and parses the theme file at path.
func Load(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	th, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Logger().Info("theme: loaded", "path", path, "name", th.Name)
	return th, nil
}

// Validate checks the sizes of th.
func (th *Theme) Validate() error {
	switch {
	case th.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalid)
	case !(th.FontSize > 0):
		return fmt.Errorf("%w: font_size %v", ErrInvalid, th.FontSize)
	case th.Radius < 0:
		return fmt.Errorf("%w: radius %v", ErrInvalid, th.Radius)
	}
	return nil
}

// Marshal encodes th as TOML.
func (th *Theme) Marshal() ([]byte, error) { return toml.Marshal(th) }

// slot is one themed color of a widget and the value the theme gives it.
type slot struct {
	p *style.Color
	v style.Color
}

// slots lists the themed colors of w. Unknown widgets have none.
func (th *Theme) slots(w widget.Widget) []slot {
	switch w := w.(type) {
	case *widget.Text:
		return []slot{{&w.TextColor, th.Text}}
	case *widget.Button:
		return []slot{
			{&w.Background, th.Surface},
			{&w.HoverColor, th.Hover},
			{&w.PressColor, th.Pressed},
			{&w.TextColor, th.Text},
		}
	case *widget.TextInput:
		return []slot{
			{&w.Background, th.Background},
			{&w.TextColor, th.Text},
			{&w.FocusColor, th.Accent},
		}
	case *widget.Tooltip:
		return []slot{
			{&w.Background, th.Text.WithAlpha(0.9)},
			{&w.TextColor, th.Background},
		}
	}
	return nil
}

// Apply paints every widget of t with th and sets the root background
// and button radii. Nodes whose colors already match are left clean. It
// returns the number of nodes changed.
func (th *Theme) Apply(t *tree.Tree) int {
	n := 0
	root := t.Root()
	t.Walk(func(id tree.NodeID, _ int) bool {
		changed := false
		if w, ok := t.Widget(id); ok {
			slots := th.slots(w)
			for _, s := range slots {
				if *s.p != s.v {
					changed = true
					break
				}
			}
			if changed {
				t.WidgetMut(id, dirty.ColorOnly, func(widget.Widget) {
					for _, s := range slots {
						*s.p = s.v
					}
				})
			}
			if w.Kind() == widget.KindButton || w.Kind() == widget.KindTextInput {
				if t.UpdateStyle(id, func(s *style.Style) {
					s.BorderRadius = th.Radius
					s.BorderColor = th.Border
				}) {
					changed = true
				}
			}
		}
		if id == root && t.UpdateStyle(id, func(s *style.Style) { s.Background = th.Background }) {
			changed = true
		}
		if changed {
			n++
		}
		return true
	})
	return n
}
