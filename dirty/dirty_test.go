// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dirty

import (
	"math/rand"
	"slices"
	"testing"
)

func TestFlagsHelpers(t *testing.T) {
	f := ColorOnly | Transform
	if !f.IsDirty() {
		t.Error("IsDirty")
	}
	if !f.HasAll(Paint) {
		t.Error("HasAll(Paint)")
	}
	if f.HasAny(Layout | TextShaping) {
		t.Error("HasAny should be false")
	}
	if !f.PaintOnly() {
		t.Error("PaintOnly")
	}
	if (f | Layout).PaintOnly() {
		t.Error("Layout is not paint-only")
	}
	if None.IsDirty() {
		t.Error("None is clean")
	}
	if !Full.HasAll(Layout | TextShaping | GlyphAtlas | ColorOnly | Transform | Children) {
		t.Error("Full must contain every flag")
	}
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		f    Flags
		want string
	}{
		{None, "NONE"},
		{Layout, "LAYOUT"},
		{ColorOnly | TextShaping, "TEXT_SHAPING|COLOR_ONLY"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func collect(d *Ranges) []Range {
	return slices.Collect(d.All())
}

func TestRangesMergeScenario(t *testing.T) {
	orders := [][]Range{
		{{10, 20}, {30, 40}, {50, 60}},
		{{50, 60}, {10, 20}, {30, 40}},
		{{30, 40}, {50, 60}, {10, 20}},
	}
	for _, order := range orders {
		var d Ranges
		for _, r := range order {
			d.Mark(r.Start, r.End)
		}
		if d.Len() != 3 {
			t.Fatalf("Len = %d, want 3", d.Len())
		}
		d.Mark(15, 55)
		got := collect(&d)
		if len(got) != 1 || got[0] != (Range{10, 60}) {
			t.Errorf("ranges = %v, want [{10 60}]", got)
		}
		if d.TotalCount() != 50 {
			t.Errorf("TotalCount = %d, want 50", d.TotalCount())
		}
	}
}

func TestRangesAdjacentMerge(t *testing.T) {
	var d Ranges
	d.Mark(0, 5)
	d.Mark(5, 10)
	if got := collect(&d); len(got) != 1 || got[0] != (Range{0, 10}) {
		t.Errorf("adjacent = %v", got)
	}
	d.Mark(12, 14)
	d.Mark(10, 12)
	if got := collect(&d); len(got) != 1 || got[0] != (Range{0, 14}) {
		t.Errorf("bridge = %v", got)
	}
}

func TestRangesDegenerate(t *testing.T) {
	var d Ranges
	d.Mark(5, 5)
	d.Mark(9, 3)
	if !d.IsEmpty() {
		t.Errorf("degenerate marks should be ignored, got %v", collect(&d))
	}
}

func TestRangesStatsAndContains(t *testing.T) {
	var d Ranges
	d.Mark(0, 2)
	d.Mark(10, 14)
	n, total, avg := d.Stats()
	if n != 2 || total != 6 || avg != 3 {
		t.Errorf("Stats = (%d, %d, %v)", n, total, avg)
	}
	for _, i := range []int{0, 1, 10, 13} {
		if !d.Contains(i) {
			t.Errorf("Contains(%d) = false", i)
		}
	}
	for _, i := range []int{2, 9, 14} {
		if d.Contains(i) {
			t.Errorf("Contains(%d) = true", i)
		}
	}
	d.Clip(12)
	if got := collect(&d); got[len(got)-1] != (Range{10, 12}) {
		t.Errorf("Clip = %v", got)
	}
	d.Clear()
	if !d.IsEmpty() {
		t.Error("Clear")
	}
}

func TestRangesMarkAll(t *testing.T) {
	var d Ranges
	d.MarkAll(slices.Values([]Range{{0, 1}, {1, 2}, {4, 5}}))
	if got := collect(&d); len(got) != 2 {
		t.Errorf("MarkAll = %v", got)
	}
}

// TestRangesInvariant checks sortedness, separation and union equality
// against a bitmap over random inputs.
func TestRangesInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		var d Ranges
		var want [128]bool
		for k := 0; k < 20; k++ {
			s := rng.Intn(128)
			e := rng.Intn(129)
			d.Mark(s, e)
			for i := s; i < e; i++ {
				want[i] = true
			}
		}
		got := collect(&d)
		for i, r := range got {
			if r.Len() <= 0 {
				t.Fatalf("empty range %v", r)
			}
			if i > 0 && got[i-1].End >= r.Start {
				t.Fatalf("ranges overlap or touch: %v", got)
			}
		}
		var have [128]bool
		for _, r := range got {
			for i := r.Start; i < r.End; i++ {
				have[i] = true
			}
		}
		if have != want {
			t.Fatalf("union mismatch: %v", got)
		}
	}
}
