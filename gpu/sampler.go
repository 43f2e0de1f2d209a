// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// SamplerDesc describes a sampler.
type SamplerDesc struct {
	AddressMode  gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	LodMinClamp  float32
	LodMaxClamp  float32
}

// SamplerKey identifies a sampler in the cache. Float fields are stored as
// bit patterns so NaN and signed zeros compare deterministically.
type SamplerKey struct {
	AddressMode  gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	LodMinBits   uint32
	LodMaxBits   uint32
}

// Key returns the cache key of d.
func (d SamplerDesc) Key() SamplerKey {
	return SamplerKey{
		AddressMode:  d.AddressMode,
		MagFilter:    d.MagFilter,
		MinFilter:    d.MinFilter,
		MipmapFilter: d.MipmapFilter,
		LodMinBits:   math.Float32bits(d.LodMinClamp),
		LodMaxBits:   math.Float32bits(d.LodMaxClamp),
	}
}

// Preset samplers.
var (
	LinearClamp   = preset(gputypes.FilterModeLinear, gputypes.AddressModeClampToEdge)
	LinearRepeat  = preset(gputypes.FilterModeLinear, gputypes.AddressModeRepeat)
	LinearMirror  = preset(gputypes.FilterModeLinear, gputypes.AddressModeMirrorRepeat)
	NearestClamp  = preset(gputypes.FilterModeNearest, gputypes.AddressModeClampToEdge)
	NearestRepeat = preset(gputypes.FilterModeNearest, gputypes.AddressModeRepeat)
	NearestMirror = preset(gputypes.FilterModeNearest, gputypes.AddressModeMirrorRepeat)
)

func preset(filter gputypes.FilterMode, address gputypes.AddressMode) SamplerDesc {
	return SamplerDesc{
		AddressMode:  address,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
		LodMaxClamp:  32,
	}
}

// SamplerCache shares samplers between pipelines. It is the one structure
// in the renderer that may be used from several goroutines.
type SamplerCache struct {
	device hal.Device

	mu       sync.RWMutex
	samplers map[SamplerKey]hal.Sampler
	created  uint64
}

// NewSamplerCache creates an empty cache.
func NewSamplerCache(device hal.Device) *SamplerCache {
	return &SamplerCache{device: device, samplers: make(map[SamplerKey]hal.Sampler)}
}

// Get returns the sampler for d, creating it on first use.
func (c *SamplerCache) Get(d SamplerDesc) (hal.Sampler, error) {
	key := d.Key()

	c.mu.RLock()
	s, ok := c.samplers[key]
	c.mu.RUnlock()
	if ok {
		return s, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.samplers[key]; ok {
		return s, nil
	}
	if c.device == nil {
		return nil, ErrNilDevice
	}
	s, err := c.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "ui_sampler",
		AddressModeU: d.AddressMode,
		AddressModeV: d.AddressMode,
		AddressModeW: d.AddressMode,
		MagFilter:    d.MagFilter,
		MinFilter:    d.MinFilter,
		MipmapFilter: d.MipmapFilter,
		LodMinClamp:  d.LodMinClamp,
		LodMaxClamp:  d.LodMaxClamp,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler: %w", err)
	}
	c.samplers[key] = s
	c.created++
	return s, nil
}

// Len returns the number of cached samplers.
func (c *SamplerCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.samplers)
}

// Created returns how many samplers the cache has created.
func (c *SamplerCache) Created() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.created
}

// Destroy releases every sampler.
func (c *SamplerCache) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, s := range c.samplers {
		if c.device != nil {
			c.device.DestroySampler(s)
		}
		delete(c.samplers, k)
	}
}
