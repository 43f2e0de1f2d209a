// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"testing"

	"github.com/gogpu/ui/geom"
)

func TestResolveScenario(t *testing.T) {
	ctx := NewContext(geom.Size{W: 1280, H: 720}).WithParent(640)
	tests := []struct {
		name string
		c    Constraint
		want float32
	}{
		{"clamp", Clamp(PxC(100), PercentC(50), PxC(200)), 200},
		{"min", Min(PercentC(50), PxC(400)), 320},
		{"calc", Calc(PercentC(100), OpSub, PxC(40)), 600},
		{"vw", Vw(80), 1024},
		{"vh", Vh(50), 360},
		{"vmin", Vmin(10), 72},
		{"vmax", Vmax(10), 128},
		{"max", Max(PxC(10), PercentC(10)), 64},
		{"mul", Calc(PxC(3), OpMul, PxC(4)), 12},
		{"div", Calc(PxC(12), OpDiv, PxC(4)), 3},
		{"add", Calc(Len(Px(1)), OpAdd, Len(Percent(10))), 65},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.c, ctx)
			if !ok || got != tt.want {
				t.Errorf("Resolve(%v) = %v, %v; want %v", tt.c, got, ok, tt.want)
			}
		})
	}
}

func TestResolveUnresolvable(t *testing.T) {
	ctx := NewContext(geom.Size{W: 800, H: 600})
	tests := []struct {
		name string
		c    Constraint
	}{
		{"auto", Constraint{}},
		{"percent without parent", PercentC(50)},
		{"calc with percent leaf", Calc(PercentC(100), OpSub, PxC(40))},
		{"clamp with percent", Clamp(PxC(0), PercentC(50), PxC(10))},
		{"min all unresolvable", Min(PercentC(10), Len(Auto()))},
		{"empty max", Max()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Resolve(tt.c, ctx); ok {
				t.Errorf("Resolve(%v) should be unresolvable", tt.c)
			}
		})
	}
}

func TestMinIgnoresUnresolvableLeaves(t *testing.T) {
	ctx := NewContext(geom.Size{W: 800, H: 600})
	got, ok := Resolve(Min(PercentC(10), PxC(40), Vw(10)), ctx)
	if !ok || got != 40 {
		t.Errorf("Min = %v, %v; want 40", got, ok)
	}
}

func TestCanResolveMirrorsResolve(t *testing.T) {
	leaves := []Constraint{
		{}, PxC(5), PercentC(50), Vw(10), Vh(10), Vmin(5), Vmax(5),
	}
	var all []Constraint
	all = append(all, leaves...)
	for _, a := range leaves {
		for _, b := range leaves {
			all = append(all,
				Calc(a, OpAdd, b), Calc(a, OpDiv, b),
				Min(a, b), Max(a, b), Min(), Clamp(a, b, a), Clamp(PxC(1), a, b))
		}
	}
	ctxs := []ResolveContext{
		NewContext(geom.Size{W: 800, H: 600}),
		NewContext(geom.Size{W: 800, H: 600}).WithParent(300),
		NewContext(geom.Size{}),
	}
	for _, ctx := range ctxs {
		for _, c := range all {
			_, ok := Resolve(c, ctx)
			if CanResolve(c, ctx) != ok {
				t.Errorf("CanResolve(%v, %+v) = %v, Resolve ok = %v", c, ctx, !ok, ok)
			}
		}
	}
}

func TestConstraintEqualAndLength(t *testing.T) {
	a := Clamp(PxC(1), PercentC(2), Vw(3))
	b := Clamp(PxC(1), PercentC(2), Vw(3))
	if !a.Equal(b) {
		t.Error("structurally equal constraints differ")
	}
	if a.Equal(Clamp(PxC(1), PercentC(2), Vw(4))) {
		t.Error("different constraints compare equal")
	}
	if l, ok := PxC(4).AsLength(); !ok || l != Px(4) {
		t.Errorf("AsLength = %v, %v", l, ok)
	}
	if _, ok := Vw(4).AsLength(); ok {
		t.Error("Vw is not a plain length")
	}
	if !(Constraint{}).IsAuto() || !Auto().IsAuto() {
		t.Error("zero values must be auto")
	}
}

func TestLayoutHashSeparatesPaint(t *testing.T) {
	var s Style
	s.Width = PxC(100)
	layout, paint := s.LayoutHash(), s.PaintHash()

	s.Background = Hex(0xff0000)
	s.BorderRadius = 4
	if s.LayoutHash() != layout {
		t.Error("paint change altered layout hash")
	}
	if s.PaintHash() == paint {
		t.Error("paint change did not alter paint hash")
	}

	s.Padding = All(Px(8))
	if s.LayoutHash() == layout {
		t.Error("padding change did not alter layout hash")
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#fff", White},
		{"000000", Black},
		{"#ff000080", Color{1, 0, 0, 128.0 / 255}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseHex(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseHex("#12"); err == nil {
		t.Error("expected error for short input")
	}
}

func TestOverflowClips(t *testing.T) {
	for _, o := range []Overflow{Hidden, Scroll, OverflowAuto} {
		if !o.Clips() {
			t.Errorf("%v should clip", o)
		}
	}
	if Visible.Clips() {
		t.Error("visible must not clip")
	}
}

func TestColorText(t *testing.T) {
	for _, s := range []string{"#3d7eff", "#ff000080"} {
		var c Color
		if err := c.UnmarshalText([]byte(s)); err != nil {
			t.Fatalf("UnmarshalText(%q) failed: %v", s, err)
		}
		if got := c.Hex(); got != s {
			t.Errorf("Hex() = %q, want %q", got, s)
		}
	}
	var c Color
	if err := c.UnmarshalText([]byte("blue")); err == nil {
		t.Error("expected error for a color name")
	}
}
