// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plugin

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/gogpu/ui/dirty"
	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// monoShaper lays out runes on a single line, each half the font size
// wide.
func monoShaper(s string, fontID uint32, px, _ float32, _ bool) text.Inner {
	var in text.Inner
	x := float32(0)
	for _, r := range s {
		in.Glyphs = append(in.Glyphs, text.Glyph{GlyphID: uint32(r), FontID: fontID, Size: px, X: x, W: px / 2, H: px, Advance: px / 2})
		x += px / 2
	}
	in.Bounds = geom.Size{W: x, H: px * 1.25}
	in.Baseline = px
	return in
}

func newCore(t *testing.T) (*Manager, *text.Pipeline) {
	t.Helper()
	m := NewManager(nil)
	if _, err := Add(m, CorePlugin{}); err != nil {
		t.Fatalf("Add(core) failed: %v", err)
	}
	p := text.NewPipeline()
	m.Registry().SetShaper(PipelineShaper(p, monoShaper))
	return m, p
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Descriptor{}); !errors.Is(err, ErrEmptyKind) {
		t.Errorf("empty kind err = %v", err)
	}
	if err := r.Register(Descriptor{Kind: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(Descriptor{Kind: "x"}); !errors.Is(err, ErrDuplicateKind) {
		t.Errorf("duplicate err = %v", err)
	}
	if got := r.Kinds(); len(got) != 1 || got[0] != "x" {
		t.Errorf("kinds = %v", got)
	}
}

type otherPlugin struct{ built int }

func (*otherPlugin) Name() string { return "other" }

func (p *otherPlugin) Build(r *Registry) error {
	p.built++
	return r.Register(Descriptor{Kind: "other"})
}

func TestManagerHandles(t *testing.T) {
	m, _ := newCore(t)
	if Has[*otherPlugin](m) {
		t.Fatal("plugin present before Add")
	}
	if _, ok := HandleFor[*otherPlugin](m); ok {
		t.Error("handle issued for missing plugin")
	}
	var zero Handle[*otherPlugin]
	if zero.In(m) {
		t.Error("handle accepted before Add")
	}
	if s := unsafe.Sizeof(zero); s != 0 {
		t.Errorf("handle size = %d, want 0", s)
	}

	p := &otherPlugin{}
	h, err := Add(m, p)
	if err != nil {
		t.Fatal(err)
	}
	if !h.In(m) || !zero.In(m) {
		t.Error("handle rejected after Add")
	}
	if h.In(NewManager(nil)) || h.In(nil) {
		t.Error("handle accepted by a manager without the plugin")
	}
	if _, err := Add(m, &otherPlugin{}); !errors.Is(err, ErrDuplicatePlugin) {
		t.Errorf("second Add err = %v", err)
	}
	if p.built != 1 {
		t.Errorf("built %d times", p.built)
	}
	if got, ok := Get[*otherPlugin](m); !ok || got != p {
		t.Error("Get returned the wrong plugin")
	}
	if len(m.Plugins()) != 2 {
		t.Errorf("plugins = %d", len(m.Plugins()))
	}
}

func TestCoreRegistersBuiltins(t *testing.T) {
	m, _ := newCore(t)
	for _, k := range []widget.Kind{
		widget.KindContainer, widget.KindRow, widget.KindColumn, widget.KindText,
		widget.KindButton, widget.KindTextInput, widget.KindImage, widget.KindTooltip,
	} {
		if _, ok := m.Registry().Lookup(k); !ok {
			t.Errorf("kind %s not registered", k)
		}
	}
	if m.Registry().Measures(widget.KindContainer) {
		t.Error("container has an intrinsic size")
	}
}

func TestMeasureUsesShaper(t *testing.T) {
	m, _ := newCore(t)
	tr := tree.New(nil)
	tr.SetMeasurer(m.Registry())
	root := tr.InsertRoot(&widget.Column{})
	tr.UpdateStyle(root, func(s *style.Style) { s.AlignItems = style.AlignStart })
	label, _ := tr.InsertChild(root, widget.NewText("abcd", 20))
	btn, _ := tr.InsertChild(root, widget.NewButton("ok"))
	tr.ComputeLayout(geom.Size{W: 400, H: 300})

	if r, _ := tr.Layout(label); r.W != 40 || r.H != 25 {
		t.Errorf("text = %+v, want 40x25", r)
	}
	// "ok" at 16px: 16 wide plus 2*12 padding; 20 tall plus 2*6.
	if r, _ := tr.Layout(btn); r.W != 40 || r.H != 32 {
		t.Errorf("button = %+v, want 40x32", r)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	m, _ := newCore(t)
	tr := tree.New(nil)
	id := tr.InsertRoot(unknown{})
	var l draw.List
	c := &RenderContext{Context: Context{Tree: tr, Node: id, Widget: unknown{}}, Style: tr.StylePtr(id), List: &l}
	if m.Registry().Render(c) {
		t.Error("unknown kind rendered")
	}
	if l.Len() != 0 {
		t.Error("unknown kind emitted commands")
	}
	if m.Registry().Hover(tr, id, true) || m.Registry().Clips(tr, id) {
		t.Error("unknown kind handled input")
	}
}

type unknown struct{}

func (unknown) Kind() widget.Kind { return "unknown" }

func TestButtonRenderFollowsState(t *testing.T) {
	m, _ := newCore(t)
	tr := tree.New(nil)
	b := widget.NewButton("OK")
	id := tr.InsertRoot(b)
	render := func() draw.Command {
		var l draw.List
		m.Registry().Render(&RenderContext{
			Context: Context{Tree: tr, Node: id, Widget: b},
			Style:   tr.StylePtr(id),
			Rect:    geom.R(0, 0, 80, 30),
			List:    &l,
		})
		if l.Len() == 0 {
			t.Fatal("button emitted nothing")
		}
		return l.Commands()[0]
	}
	if got := render().Color; got != b.Background {
		t.Errorf("idle color = %v", got)
	}
	m.Registry().Hover(tr, id, true)
	if got := render().Color; got != b.HoverColor {
		t.Errorf("hover color = %v", got)
	}
}

// TestHoverThroughRegistry moves the pointer over a button with the real
// dispatcher and registry.
func TestHoverThroughRegistry(t *testing.T) {
	m, _ := newCore(t)
	tr := tree.New(nil)
	tr.SetMeasurer(m.Registry())
	root := tr.InsertRoot(&widget.Container{})
	tr.UpdateStyle(root, func(s *style.Style) {
		s.Width = style.PxC(800)
		s.Height = style.PxC(600)
	})
	b := widget.NewButton("OK")
	btn, _ := tr.InsertChild(root, b)
	tr.UpdateStyle(btn, func(s *style.Style) {
		s.Position = style.Absolute
		s.Inset.Left = style.Px(100)
		s.Inset.Top = style.Px(100)
		s.Width = style.PxC(80)
		s.Height = style.PxC(30)
	})
	tr.ComputeLayout(geom.Size{W: 800, H: 600})
	tr.ClearDirtyFlags()

	d := event.NewDispatcher(m.Registry())
	d.Process(tr, event.NewBatch(event.MouseMoved{Pos: geom.Pt(140, 115)}))
	if !b.Hovered {
		t.Fatal("button not hovered")
	}
	if got := tr.Flags(btn); got != dirty.ColorOnly {
		t.Errorf("flags = %v, want ColorOnly", got)
	}
	if tr.AnyDirty(dirty.Layout) {
		t.Error("hover caused layout")
	}
}

func TestTextInputKeys(t *testing.T) {
	m, _ := newCore(t)
	tr := tree.New(nil)
	in := widget.NewTextInput("name")
	id := tr.InsertRoot(in)
	tr.ClearDirtyFlags()
	r := m.Registry()

	for _, ch := range "héllo" {
		r.Char(tr, id, ch)
	}
	if in.Value != "héllo" {
		t.Fatalf("value = %q", in.Value)
	}
	if !tr.Flags(id).HasAny(dirty.TextShaping) {
		t.Error("typing did not mark TextShaping")
	}
	tr.ClearDirtyFlags()

	r.Key(tr, id, event.Key{Code: event.KeyLeft, Pressed: true})
	if got := tr.Flags(id); got != dirty.ColorOnly {
		t.Errorf("cursor move flags = %v", got)
	}
	r.Key(tr, id, event.Key{Code: event.KeyHome, Pressed: true})
	r.Key(tr, id, event.Key{Code: event.KeyDelete, Pressed: true})
	if in.Value != "éllo" {
		t.Errorf("after delete = %q", in.Value)
	}
	var submitted string
	in.OnSubmit = func(s string) { submitted = s }
	if s := r.Key(tr, id, event.Key{Code: event.KeyEnter, Pressed: true}); s != event.Consumed || submitted != "éllo" {
		t.Errorf("enter = %v, submitted %q", s, submitted)
	}
	if s := r.Key(tr, id, event.Key{Code: event.KeyF5, Pressed: true}); s != event.Ignored {
		t.Errorf("F5 = %v", s)
	}
}

func TestTextInputCursorRendering(t *testing.T) {
	m, p := newCore(t)
	tr := tree.New(nil)
	in := widget.NewTextInput("")
	in.Value, in.Cursor, in.Focused = "ab", 1, true
	id := tr.InsertRoot(in)
	res, _ := p.Shape("ab", 0, widget.DefaultFontSize, 0, false, monoShaper)

	var l draw.List
	m.Registry().Render(&RenderContext{
		Context: Context{Tree: tr, Node: id, Widget: in},
		Style:   tr.StylePtr(id),
		Rect:    geom.R(10, 10, 200, 30),
		Text:    res,
		List:    &l,
	})
	cmds := l.Commands()
	if len(cmds) != 3 {
		t.Fatalf("commands = %d, want background, text, cursor", len(cmds))
	}
	if cmds[0].BorderColor != in.FocusColor {
		t.Error("focused border not drawn")
	}
	// One 8px glyph before the cursor.
	if got := cmds[2].Rect.X; got != 10+inputPadX+8 {
		t.Errorf("cursor x = %v", got)
	}
}
