// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package middleware

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/gogpu/ui/draw"
	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// probe records the hooks it sees into a shared log.
type probe struct {
	name string
	log  *[]string
	skip bool
	key  event.HandleStatus
}

func (p *probe) Name() string { return p.name }

func (p *probe) PreLayout(*Context) bool {
	*p.log = append(*p.log, p.name+".pre")
	return p.skip
}

func (p *probe) PostLayout(*Context) { *p.log = append(*p.log, p.name+".post") }

func (p *probe) PreRender(*Context) { *p.log = append(*p.log, p.name+".render") }

func (p *probe) Update(*Context) { *p.log = append(*p.log, p.name+".update") }

func (p *probe) PostRender(_ *Context, l *draw.List) {
	l.Quad(geom.R(0, 0, 1, 1), style.White)
}

func (p *probe) HandleKey(*Context, event.Key) event.HandleStatus {
	*p.log = append(*p.log, p.name+".key")
	return p.key
}

func TestHostPriorityOrder(t *testing.T) {
	var log []string
	h := NewHost()
	for _, m := range []struct {
		name string
		pri  int
	}{{"low", 0}, {"high", 10}, {"mid", 5}, {"mid2", 5}} {
		if err := h.Add(&probe{name: m.name, log: &log}, m.pri); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"high", "mid", "mid2", "low"}
	if got := h.Names(); !slices.Equal(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	h.PostLayout(&Context{})
	if !slices.Equal(log, []string{"high.post", "mid.post", "mid2.post", "low.post"}) {
		t.Errorf("post layout order = %v", log)
	}
}

func TestHostAddErrors(t *testing.T) {
	h := NewHost()
	var log []string
	if err := h.Add(nil, 0); !errors.Is(err, ErrNilMiddleware) {
		t.Errorf("nil err = %v", err)
	}
	if err := h.Add(&probe{log: &log}, 0); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty err = %v", err)
	}
	h.Add(&probe{name: "a", log: &log}, 0)
	if err := h.Add(&probe{name: "a", log: &log}, 1); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate err = %v", err)
	}
	if !h.Remove("a") || h.Remove("a") || h.Len() != 0 {
		t.Error("Remove did not drop exactly once")
	}
}

func TestPreLayoutSkipRunsEveryHook(t *testing.T) {
	var log []string
	h := NewHost()
	h.Add(&probe{name: "a", log: &log, skip: true}, 1)
	h.Add(&probe{name: "b", log: &log}, 0)
	if !h.PreLayout(&Context{}) {
		t.Error("skip not reported")
	}
	if len(log) != 2 {
		t.Errorf("hooks run = %v, want both", log)
	}
	h.Remove("a")
	if h.PreLayout(&Context{}) {
		t.Error("skip reported without a skipping hook")
	}
}

func TestPostRenderResetsOverlay(t *testing.T) {
	var log []string
	h := NewHost()
	h.Add(&probe{name: "a", log: &log}, 0)
	h.Add(&probe{name: "b", log: &log}, 0)
	if l := h.PostRender(&Context{}); l.Len() != 2 {
		t.Errorf("overlay = %d commands, want 2", l.Len())
	}
	if l := h.PostRender(&Context{}); l.Len() != 2 {
		t.Errorf("second overlay = %d commands, want 2", l.Len())
	}
}

func TestKeybindPriorityFirstConsumerWins(t *testing.T) {
	var r KeybindRegistry
	var got []string
	bind := func(name string, consume bool) Bind {
		return func(*Context) bool {
			got = append(got, name)
			return consume
		}
	}
	r.Register(event.KeyS, event.ModCtrl, "low", bind("low", true), 0)
	r.Register(event.KeyS, event.ModCtrl, "high", bind("high", false), 10)
	r.Register(event.KeyS, event.ModCtrl, "mid", bind("mid", true), 5)
	r.Register(event.KeyS, 0, "plain", bind("plain", true), 50)

	if !r.Dispatch(&Context{}, event.KeyS, event.ModCtrl) {
		t.Fatal("not consumed")
	}
	if !slices.Equal(got, []string{"high", "mid"}) {
		t.Errorf("calls = %v, want high then mid", got)
	}
	if owners := r.Owners(event.KeyS, event.ModCtrl); !slices.Equal(owners, []string{"high", "mid", "low"}) {
		t.Errorf("owners = %v", owners)
	}
	if r.Dispatch(&Context{}, event.KeyS, event.ModCtrl|event.ModShift) {
		t.Error("extra modifier matched")
	}
	if n := r.Unregister("mid"); n != 1 || r.Len() != 3 {
		t.Errorf("Unregister = %d, len %d", n, r.Len())
	}
}

func TestRegisterChord(t *testing.T) {
	var r KeybindRegistry
	hit := false
	if err := r.RegisterChord("Ctrl+Shift+P", "palette", func(*Context) bool { hit = true; return true }, 0); err != nil {
		t.Fatal(err)
	}
	if !r.Dispatch(&Context{}, event.KeyP, event.ModCtrl|event.ModShift) || !hit {
		t.Error("chord did not dispatch")
	}
	if err := r.RegisterChord("Hyper+P", "x", func(*Context) bool { return true }, 0); !errors.Is(err, ErrBadChord) {
		t.Errorf("bad chord err = %v", err)
	}
}

func TestHandleKeyKeybindsFirst(t *testing.T) {
	var log []string
	h := NewHost()
	h.Add(&probe{name: "a", log: &log, key: event.Handled}, 0)
	h.Keybinds().Register(event.KeyQ, 0, "app", func(*Context) bool { return true }, 0)

	if s := h.HandleKey(&Context{}, event.Key{Code: event.KeyQ, Pressed: true}); s != event.Consumed {
		t.Errorf("keybind status = %v", s)
	}
	if len(log) != 0 {
		t.Errorf("handlers saw a consumed key: %v", log)
	}
	if s := h.HandleKey(&Context{}, event.Key{Code: event.KeyQ}); s != event.Handled {
		t.Errorf("release status = %v, want Handled", s)
	}
}

func newTree(t *testing.T) (*tree.Tree, tree.NodeID) {
	t.Helper()
	tr := tree.New(nil)
	root := tr.InsertRoot(&widget.Column{})
	tr.UpdateStyle(root, func(s *style.Style) { s.AlignItems = style.AlignStart })
	btn, _ := tr.InsertChild(root, widget.NewButton("Save"))
	tr.UpdateStyle(btn, func(s *style.Style) {
		s.Width, s.Height = style.PxC(80), style.PxC(30)
	})
	tr.Register("save", btn)
	tr.ComputeLayout(geom.Size{W: 200, H: 200})
	return tr, btn
}

func TestInspectorToggleAndDraw(t *testing.T) {
	tr, btn := newTree(t)
	h := NewHost()
	in := NewInspector()
	if err := h.Add(in, 0); err != nil {
		t.Fatal(err)
	}
	d := event.NewDispatcher(nil)
	d.AddInterceptor(h.Interceptor(nil))

	shaped := 0
	shape := func(widget.TextSpec, float32, bool) (*text.ShapedResult, bool) {
		shaped++
		return &text.ShapedResult{Inner: text.Inner{Bounds: geom.Size{W: 40, H: 14}}}, true
	}
	c := &Context{Tree: tr, Dispatcher: d, Shape: shape}
	if l := h.PostRender(c); l.Len() != 0 {
		t.Fatal("disabled inspector drew")
	}

	d.Process(tr, event.NewBatch(
		event.Key{Code: event.KeyF12, Pressed: true},
		event.MouseMoved{Pos: geom.Pt(10, 10)},
	))
	if !in.Enabled {
		t.Fatal("F12 did not enable the inspector")
	}
	if d.Hovered != btn {
		t.Fatalf("hovered = %v, want the button", d.Hovered)
	}
	l := h.PostRender(c)
	// Root outline, button outline, label background and label text.
	if l.Len() != 4 || shaped != 1 {
		t.Fatalf("overlay = %d commands, shaped %d", l.Len(), shaped)
	}
	if got := l.Commands()[1].Rect; got != geom.R(0, 0, 80, 30) {
		t.Errorf("outline = %+v", got)
	}
	// No room above the button, so the label sits below it.
	if got := l.Commands()[2].Rect.Y; got != 30 {
		t.Errorf("label y = %v, want 30", got)
	}
}

func TestInspectorDescribe(t *testing.T) {
	tr, btn := newTree(t)
	in := NewInspector()
	if got := in.Describe(tr, btn); got != `#save button 80x30 "Save"` {
		t.Errorf("label = %q", got)
	}
	in.MaxLabel = 12
	got := in.Describe(tr, btn)
	if runewidth.StringWidth(got) > 12 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncated = %q", got)
	}
}
