// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package geom

import (
	"math"
	"testing"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", R(0, 0, 100, 100), R(50, 50, 100, 100), R(50, 50, 50, 50)},
		{"inside", R(0, 0, 100, 100), R(10, 10, 20, 20), R(10, 10, 20, 20)},
		{"disjoint", R(0, 0, 10, 10), R(20, 20, 5, 5), R(20, 20, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := R(100, 100, 80, 30)
	if !r.Contains(Pt(140, 115)) {
		t.Error("point inside should be contained")
	}
	if r.Contains(Pt(180, 115)) {
		t.Error("right edge is exclusive")
	}
	if !r.ContainsRect(R(110, 110, 10, 10)) {
		t.Error("ContainsRect inner")
	}
	if r.ContainsRect(R(90, 110, 20, 10)) {
		t.Error("ContainsRect overhanging")
	}
}

func TestToScissor(t *testing.T) {
	tests := []struct {
		name   string
		r      Rect
		vw, vh uint32
		want   Scissor
	}{
		{"round outward", R(10.4, 20.6, 5.2, 5.2), 100, 100, Scissor{10, 20, 6, 6}},
		{"clamp to viewport", R(-5, -5, 200, 50), 100, 100, Scissor{0, 0, 100, 45}},
		{"offscreen", R(150, 150, 10, 10), 100, 100, Scissor{100, 100, 0, 0}},
		{"nan", R(float32(math.NaN()), 0, 10, 10), 100, 100, Scissor{0, 0, 0, 10}},
		{"zero viewport", R(0, 0, 10, 10), 0, 0, Scissor{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.ToScissor(tt.vw, tt.vh); got != tt.want {
				t.Errorf("ToScissor = %+v, want %+v", got, tt.want)
			}
		})
	}
}
