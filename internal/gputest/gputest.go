// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gputest provides a no-op GPU device and a queue that records
// writes, for tests that exercise real HAL calls without hardware.
package gputest

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// NoopDevice opens a device on the noop backend. Cleanup is registered
// with t.
func NoopDevice(t testing.TB) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		t.Fatal("noop backend returned no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// BufferWrite is one recorded WriteBuffer call.
type BufferWrite struct {
	Buffer hal.Buffer
	Offset uint64
	Data   []byte
}

// TextureWrite is one recorded WriteTexture call.
type TextureWrite struct {
	Origin      hal.Origin3D
	Size        hal.Extent3D
	BytesPerRow uint32
	Len         int
}

// RecordingQueue forwards to an inner queue and records every write.
// While Fail is set, writes are refused with Fail and not recorded.
type RecordingQueue struct {
	hal.Queue

	Buffers  []BufferWrite
	Textures []TextureWrite
	Fail     error
}

// NewRecordingQueue wraps q.
func NewRecordingQueue(q hal.Queue) *RecordingQueue {
	return &RecordingQueue{Queue: q}
}

// WriteBuffer records the write and forwards it.
func (q *RecordingQueue) WriteBuffer(buffer hal.Buffer, offset uint64, data []byte) error {
	if q.Fail != nil {
		return q.Fail
	}
	q.Buffers = append(q.Buffers, BufferWrite{Buffer: buffer, Offset: offset, Data: append([]byte(nil), data...)})
	if q.Queue != nil {
		return q.Queue.WriteBuffer(buffer, offset, data)
	}
	return nil
}

// WriteTexture records the write and forwards it.
func (q *RecordingQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	if q.Fail != nil {
		return q.Fail
	}
	w := TextureWrite{Len: len(data)}
	if dst != nil {
		w.Origin = dst.Origin
	}
	if size != nil {
		w.Size = *size
	}
	if layout != nil {
		w.BytesPerRow = layout.BytesPerRow
	}
	q.Textures = append(q.Textures, w)
	if q.Queue != nil {
		return q.Queue.WriteTexture(dst, data, layout, size)
	}
	return nil
}

// WritesTo returns the recorded buffer writes that targeted buf.
func (q *RecordingQueue) WritesTo(buf hal.Buffer) []BufferWrite {
	var out []BufferWrite
	for _, w := range q.Buffers {
		if w.Buffer == buf {
			out = append(out, w)
		}
	}
	return out
}

// Reset forgets recorded writes.
func (q *RecordingQueue) Reset() {
	q.Buffers = q.Buffers[:0]
	q.Textures = q.Textures[:0]
}
