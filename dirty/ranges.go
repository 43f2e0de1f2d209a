// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package dirty

import (
	"iter"
	"sort"
)

// Range is a half-open interval [Start, End) of element indices.
type Range struct {
	Start, End int
}

// Len returns the number of elements covered.
func (r Range) Len() int { return r.End - r.Start }

// Ranges is a sorted set of non-overlapping, non-adjacent ranges.
//
// Marking merges overlapping and adjacent intervals, so after any sequence
// of operations every stored range has positive length and ranges are
// strictly separated by at least one clean element.
type Ranges struct {
	ranges []Range
}

// Mark adds [start, end). Empty and inverted inputs are ignored.
func (d *Ranges) Mark(start, end int) {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return
	}

	// First range that could touch [start, end): its End >= start.
	lo := sort.Search(len(d.ranges), func(i int) bool { return d.ranges[i].End >= start })
	// First range strictly after: its Start > end.
	hi := lo
	for hi < len(d.ranges) && d.ranges[hi].Start <= end {
		hi++
	}

	if lo == hi {
		d.ranges = append(d.ranges, Range{})
		copy(d.ranges[lo+1:], d.ranges[lo:])
		d.ranges[lo] = Range{Start: start, End: end}
		return
	}

	merged := Range{Start: min(start, d.ranges[lo].Start), End: max(end, d.ranges[hi-1].End)}
	d.ranges[lo] = merged
	d.ranges = append(d.ranges[:lo+1], d.ranges[hi:]...)
}

// MarkOne marks the single element i.
func (d *Ranges) MarkOne(i int) { d.Mark(i, i+1) }

// MarkAll marks every range produced by seq.
func (d *Ranges) MarkAll(seq iter.Seq[Range]) {
	for r := range seq {
		d.Mark(r.Start, r.End)
	}
}

// Clear removes all ranges, keeping the backing storage.
func (d *Ranges) Clear() { d.ranges = d.ranges[:0] }

// Len returns the number of ranges.
func (d *Ranges) Len() int { return len(d.ranges) }

// IsEmpty reports whether nothing is marked.
func (d *Ranges) IsEmpty() bool { return len(d.ranges) == 0 }

// At returns the i-th range.
func (d *Ranges) At(i int) Range { return d.ranges[i] }

// All iterates ranges in ascending order.
func (d *Ranges) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for _, r := range d.ranges {
			if !yield(r) {
				return
			}
		}
	}
}

// Contains reports whether element i is marked.
func (d *Ranges) Contains(i int) bool {
	k := sort.Search(len(d.ranges), func(j int) bool { return d.ranges[j].End > i })
	return k < len(d.ranges) && d.ranges[k].Start <= i
}

// TotalCount returns the number of marked elements.
func (d *Ranges) TotalCount() int {
	n := 0
	for _, r := range d.ranges {
		n += r.Len()
	}
	return n
}

// Stats returns the range count, marked element count and mean range size.
func (d *Ranges) Stats() (ranges, total int, avg float32) {
	ranges = len(d.ranges)
	total = d.TotalCount()
	if ranges > 0 {
		avg = float32(total) / float32(ranges)
	}
	return ranges, total, avg
}

// Clip drops everything at or beyond n.
func (d *Ranges) Clip(n int) {
	for len(d.ranges) > 0 {
		last := &d.ranges[len(d.ranges)-1]
		if last.Start >= n {
			d.ranges = d.ranges[:len(d.ranges)-1]
			continue
		}
		if last.End > n {
			last.End = n
		}
		return
	}
}
