// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu holds the GPU-side building blocks of the UI renderer:
// instance buffers with partial uploads, per-frame ring and staging
// buffers, a shared sampler cache, a blit pipeline and the WGSL shaders.
//
// Everything here talks to the device through github.com/gogpu/wgpu/hal.
// The package never creates a device or queue; callers pass them in.
//
// Instance types must be fixed-size structs without pointers whose size is
// a multiple of four bytes, because their memory is uploaded as-is.
package gpu

import (
	"errors"
	"math/bits"
)

// Errors returned by the package.
var (
	ErrNilDevice      = errors.New("gpu: nil device")
	ErrNilQueue       = errors.New("gpu: nil queue")
	ErrDestroyed      = errors.New("gpu: resource destroyed")
	ErrInvalidSize    = errors.New("gpu: invalid size")
	ErrShaderCompile  = errors.New("gpu: shader compilation failed")
	ErrFeatureMissing = errors.New("gpu: required feature missing")
)

// NextPow2 returns the smallest power of two >= n. NextPow2(0) is 1.
func NextPow2(n uint64) uint64 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(n-1)
}

// alignUp rounds n up to a multiple of align. align must be a power of two.
func alignUp(n, align uint64) uint64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) &^ (align - 1)
}
