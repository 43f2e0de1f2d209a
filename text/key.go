// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package text turns strings into positioned glyph runs through a
// request/complete pipeline with a bucketed shaping cache.
//
// Callers enqueue work with [Pipeline.RequestShape] and pick results up
// later with [Pipeline.TakeCompleted]. Nothing in the API assumes that
// requests complete in order, so shaping may move to worker goroutines
// without changing callers.
//
// Cache keys bucket the font size to 0.1px and the wrap width to
// [WidthBucketPx]. A result shaped for a 402px wrap width may therefore
// serve a request for 404px.
package text

import (
	"hash/fnv"
	"math"
)

// WidthBucketPx is the default wrap-width bucket size in pixels.
const WidthBucketPx = 8

// ShapeKey identifies a shaped result in the cache.
type ShapeKey struct {
	FontID      uint32
	SizeBucket  uint32
	TextHash    uint64
	WidthBucket int32
	// NoWrap marks requests without a wrap width. They form their own
	// bucket, distinct from every finite width.
	NoWrap bool
}

// NewShapeKey computes the key for a request. bucketPx <= 0 selects
// [WidthBucketPx].
func NewShapeKey(text string, fontID uint32, size, wrap float32, hasWrap bool, bucketPx float32) ShapeKey {
	k := ShapeKey{
		FontID:     fontID,
		SizeBucket: SizeBucket(size),
		TextHash:   hashString(text),
		NoWrap:     !hasWrap,
	}
	if hasWrap {
		k.WidthBucket = WidthBucket(wrap, bucketPx)
	}
	return k
}

// SizeBucket rounds a font size to tenths of a pixel.
func SizeBucket(size float32) uint32 {
	if !(size > 0) || math.IsInf(float64(size), 0) {
		return 0
	}
	return uint32(math.Round(float64(size) * 10))
}

// WidthBucket returns round(width / bucketPx).
func WidthBucket(width, bucketPx float32) int32 {
	if bucketPx <= 0 {
		bucketPx = WidthBucketPx
	}
	if math.IsNaN(float64(width)) {
		return 0
	}
	b := math.Round(float64(width) / float64(bucketPx))
	switch {
	case b > math.MaxInt32:
		return math.MaxInt32
	case b < math.MinInt32:
		return math.MinInt32
	}
	return int32(b)
}

// hashString computes FNV-1a hash of a string.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // fnv.Write never returns an error
	return h.Sum64()
}
