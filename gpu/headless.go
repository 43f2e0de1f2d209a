// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"
)

// Headless is a device on the noop backend. Every call succeeds and
// nothing is drawn, which is enough to drive the full frame pipeline in
// tools and on machines without a GPU.
type Headless struct {
	Device
	release func()
}

// OpenHeadless opens a noop device rendering to BGRA8.
func OpenHeadless() (*Headless, error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: headless instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("gpu: headless backend has no adapters")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: headless open: %w", err)
	}
	Logger().Info("gpu: headless device opened")
	return &Headless{
		Device: Device{Device: open.Device, Queue: open.Queue, Format: gputypes.TextureFormatBGRA8Unorm},
		release: func() {
			open.Device.Destroy()
			instance.Destroy()
		},
	}, nil
}

// Close destroys the device.
func (h *Headless) Close() {
	if h.release != nil {
		h.release()
		h.release = nil
	}
}
