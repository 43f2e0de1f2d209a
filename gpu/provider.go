// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device bundles the HAL device, queue and target format the UI renders
// with.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
	Format gputypes.TextureFormat
}

// halProvider is implemented by providers that expose HAL objects.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// FromProvider extracts HAL access from a shared device provider. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func FromProvider(provider gpucontext.DeviceProvider) (Device, error) {
	if provider == nil {
		return Device{}, ErrNilDevice
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return Device{}, fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return Device{}, fmt.Errorf("gpu: provider HalDevice is not hal.Device: %w", ErrNilDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return Device{}, fmt.Errorf("gpu: provider HalQueue is not hal.Queue: %w", ErrNilQueue)
	}
	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return Device{Device: device, Queue: queue, Format: format}, nil
}
