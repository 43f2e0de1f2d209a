// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/common.wgsl
var commonWGSL string

//go:embed shaders/quad.wgsl
var quadWGSL string

//go:embed shaders/textured.wgsl
var texturedWGSL string

//go:embed shaders/glyph.wgsl
var glyphWGSL string

//go:embed shaders/blit.wgsl
var blitWGSL string

// Shader sources with the shared prelude applied.
var (
	QuadShader     = commonWGSL + "\n" + quadWGSL
	TexturedShader = commonWGSL + "\n" + texturedWGSL
	GlyphShader    = commonWGSL + "\n" + glyphWGSL
	BlitShader     = blitWGSL
)

// validated remembers sources naga has already accepted.
var validated sync.Map // map[uint64]struct{}

// ValidateWGSL runs source through the naga compiler.
func ValidateWGSL(source string) error {
	h := fnv.New64a()
	_, _ = h.Write([]byte(source))
	key := h.Sum64()
	if _, ok := validated.Load(key); ok {
		return nil
	}
	if _, err := naga.Compile(source); err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	validated.Store(key, struct{}{})
	return nil
}

// CompileShader validates source and creates a shader module.
func CompileShader(device hal.Device, label, source string) (hal.ShaderModule, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if err := ValidateWGSL(source); err != nil {
		return nil, fmt.Errorf("gpu: %s: %w", label, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create shader module %s: %w", label, err)
	}
	return module, nil
}
