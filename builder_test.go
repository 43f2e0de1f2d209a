// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"errors"
	"testing"

	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/plugin/dock"
	"github.com/gogpu/ui/plugin/scroll"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/theme"
	"github.com/gogpu/ui/widget"
)

func TestMountBuildsTree(t *testing.T) {
	h := newHarness(t)
	b := h.e.Builder()
	root, err := h.e.Mount(b.Column(
		b.Text("title").ID("title"),
		b.Row(b.Button("ok", nil), b.TextInput("name")).Gap(4),
		b.Tooltip("hint"),
	).Padding(8))
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	tr := h.e.Tree()
	if tr.Len() != 6 || tr.Root() != root {
		t.Fatalf("len %d, root %v", tr.Len(), tr.Root())
	}
	kids := tr.Children(root)
	if len(kids) != 3 || len(tr.Children(kids[1])) != 2 {
		t.Fatalf("children = %v", kids)
	}
	if st, _ := tr.Style(root); st.Padding.Top != style.Px(8) {
		t.Errorf("padding = %v", st.Padding.Top)
	}
	if st, _ := tr.Style(kids[1]); st.Gap != style.Px(4) {
		t.Errorf("gap = %v", st.Gap)
	}
	if id, ok := tr.Lookup("title"); !ok || id != kids[0] {
		t.Errorf("title lookup = %v, %v", id, ok)
	}
	w, _ := tr.Widget(kids[0])
	if got := w.(*widget.Text).TextColor; got != theme.Light().Text {
		t.Errorf("mounted text not themed: %v", got)
	}
}

func TestMountRejectsDuplicateIDs(t *testing.T) {
	h := newHarness(t)
	b := h.e.Builder()
	_, err := h.e.Mount(b.Column(b.Text("a").ID("x"), b.Text("b").ID("x")))
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err = %v, want ErrDuplicateID", err)
	}
	if h.e.Tree().Len() != 0 {
		t.Error("failed Mount changed the tree")
	}
}

func TestAppend(t *testing.T) {
	h := newHarness(t)
	b := h.e.Builder()
	root, err := h.e.Mount(b.Column(b.Text("first").ID("first")))
	if err != nil {
		t.Fatal(err)
	}
	h.frame(t)

	id, err := h.e.Append(root, b.Button("more", nil).ID("more"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if got := h.e.Tree().Children(root); len(got) != 2 || got[1] != id {
		t.Errorf("children = %v", got)
	}
	if st := h.frame(t); !st.Structural || st.Layout.Skipped {
		t.Errorf("append frame = %+v", st)
	}

	if _, err := h.e.Append(root, b.Text("dup").ID("first")); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("duplicate append err = %v", err)
	}
	h.e.Tree().Remove(id)
	if _, err := h.e.Append(id, b.Text("orphan")); !errors.Is(err, ErrStaleParent) {
		t.Errorf("stale parent err = %v", err)
	}
}

func TestDockNeedsHandle(t *testing.T) {
	h := newHarness(t)
	b := h.e.Builder()
	var zero plugin.Handle[*dock.Plugin]
	_, err := h.e.Mount(b.Tabs(zero, []string{"a"}, b.Text("pane")))
	if !errors.Is(err, ErrPluginMissing) {
		t.Fatalf("err = %v, want ErrPluginMissing", err)
	}

	hd, err := AddPlugin(h.e, &dock.Plugin{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.e.Mount(b.Tabs(hd, []string{"a"}, b.Text("x"), b.Text("y"))); err == nil {
		t.Error("title count mismatch accepted")
	}

	root, err := h.e.Mount(b.Tabs(hd, []string{"one", "two"}, b.Text("first"), b.Text("second")))
	if err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	kids := h.e.Tree().Children(root)
	if st, _ := h.e.Tree().Style(kids[1]); st.Display != style.DisplayNone {
		t.Error("inactive tab visible")
	}
	h.frame(t)

	split, err := h.e.Mount(b.Splitter(hd, 0.25, b.Text("l"), b.Text("r")))
	if err != nil {
		t.Fatal(err)
	}
	h.frame(t)
	left, _ := h.e.Tree().Layout(h.e.Tree().Children(split)[0])
	if left.W >= 200 {
		t.Errorf("left pane width = %v, want a quarter split", left.W)
	}
}

func TestScrollViewTargetsContainer(t *testing.T) {
	h := newHarness(t)
	b := h.e.Builder()
	root, err := h.e.Mount(b.ScrollView(b.Text("a"), b.Text("b")))
	if err != nil {
		t.Fatal(err)
	}
	kids := h.e.Tree().Children(root)
	if len(kids) != 2 {
		t.Fatalf("children = %d", len(kids))
	}
	w, _ := h.e.Tree().Widget(kids[1])
	bar, ok := w.(*scroll.Scrollbar)
	if !ok || bar.Target != kids[0] {
		t.Errorf("scrollbar = %#v, want target %v", w, kids[0])
	}
	if w, _ := h.e.Tree().Widget(kids[0]); w.Kind() != scroll.KindContainer {
		t.Errorf("first child kind = %v", w.Kind())
	}
	if h.frame(t).Nodes != 5 {
		t.Error("scroll view not drawn")
	}
}

func TestMountForgetsOldTree(t *testing.T) {
	h := newHarness(t)
	h.counter(t)
	h.frame(t)
	b := h.e.Builder()
	if _, err := h.e.Mount(b.Column(b.Text("fresh"))); err != nil {
		t.Fatal(err)
	}
	if _, ok := h.e.Tree().Lookup("counter"); ok {
		t.Error("old id survived Mount")
	}
	st := h.frame(t)
	if st.Nodes != 2 || st.Reused != 0 {
		t.Errorf("frame after mount = %+v", st)
	}
}
