// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RingInstanceBuffer owns one InstanceBuffer per frame in flight and
// rotates between them, so a frame never overwrites a buffer the GPU may
// still be reading.
type RingInstanceBuffer[T any] struct {
	frames []*InstanceBuffer[T]
	index  int
}

// NewRingInstanceBuffer creates frames buffers of initialCap elements.
func NewRingInstanceBuffer[T any](device hal.Device, label string, usage gputypes.BufferUsage, initialCap, frames int) (*RingInstanceBuffer[T], error) {
	if frames < 1 {
		return nil, fmt.Errorf("%w: %d frames", ErrInvalidSize, frames)
	}
	r := &RingInstanceBuffer[T]{frames: make([]*InstanceBuffer[T], 0, frames)}
	for i := 0; i < frames; i++ {
		b, err := NewInstanceBuffer[T](device, fmt.Sprintf("%s_%d", label, i), usage, initialCap)
		if err != nil {
			r.Destroy()
			return nil, err
		}
		r.frames = append(r.frames, b)
	}
	return r, nil
}

// Current returns the buffer of the current frame.
func (r *RingInstanceBuffer[T]) Current() *InstanceBuffer[T] { return r.frames[r.index] }

// Index returns the current frame index.
func (r *RingInstanceBuffer[T]) Index() int { return r.index }

// Frames returns the number of frames in flight.
func (r *RingInstanceBuffer[T]) Frames() int { return len(r.frames) }

// Advance moves to the next frame's buffer and returns it.
func (r *RingInstanceBuffer[T]) Advance() *InstanceBuffer[T] {
	r.index = (r.index + 1) % len(r.frames)
	return r.frames[r.index]
}

// Destroy releases every frame buffer.
func (r *RingInstanceBuffer[T]) Destroy() {
	for _, b := range r.frames {
		b.Destroy()
	}
}

// Allocation is a sub-range of a RingBuffer.
type Allocation struct {
	Offset uint64
	Size   uint64
}

// RingBuffer is one GPU buffer split into per-frame regions. Allocations
// are bump-allocated inside the current frame's region.
type RingBuffer struct {
	device    hal.Device
	buf       hal.Buffer
	frameSize uint64
	frames    int
	frame     int
	cursor    uint64
}

// NewRingBuffer creates a ring of frames regions of frameSize bytes each.
func NewRingBuffer(device hal.Device, label string, usage gputypes.BufferUsage, frameSize uint64, frames int) (*RingBuffer, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if frameSize == 0 || frames < 1 {
		return nil, fmt.Errorf("%w: frame size %d, %d frames", ErrInvalidSize, frameSize, frames)
	}
	frameSize = alignUp(frameSize, 256)
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  frameSize * uint64(frames),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create ring buffer: %w", err)
	}
	return &RingBuffer{device: device, buf: buf, frameSize: frameSize, frames: frames}, nil
}

// Buffer returns the GPU buffer.
func (r *RingBuffer) Buffer() hal.Buffer { return r.buf }

// FrameSize returns the byte size of one frame region.
func (r *RingBuffer) FrameSize() uint64 { return r.frameSize }

// Frame returns the current frame index.
func (r *RingBuffer) Frame() int { return r.frame }

// Allocate reserves size bytes aligned to align inside the current frame.
// It returns false when the frame region is exhausted.
func (r *RingBuffer) Allocate(size, align uint64) (Allocation, bool) {
	if size == 0 {
		return Allocation{}, false
	}
	if align == 0 || align&(align-1) != 0 {
		align = 4
	}
	off := alignUp(r.cursor, align)
	if off+size > r.frameSize || off+size < off {
		return Allocation{}, false
	}
	r.cursor = off + size
	return Allocation{Offset: uint64(r.frame)*r.frameSize + off, Size: size}, true //nolint:gosec // frame is non-negative
}

// Write uploads data into an allocation. Data beyond the allocation is
// dropped.
func (r *RingBuffer) Write(queue hal.Queue, a Allocation, data []byte) error {
	if queue == nil || len(data) == 0 {
		return nil
	}
	if uint64(len(data)) > a.Size {
		data = data[:a.Size]
	}
	if err := queue.WriteBuffer(r.buf, a.Offset, data); err != nil {
		return fmt.Errorf("gpu: ring write at %d: %w", a.Offset, err)
	}
	return nil
}

// NextFrame advances to the next frame region and resets its cursor.
func (r *RingBuffer) NextFrame() {
	r.frame = (r.frame + 1) % r.frames
	r.cursor = 0
}

// Destroy releases the GPU buffer.
func (r *RingBuffer) Destroy() {
	if r.buf != nil {
		r.device.DestroyBuffer(r.buf)
		r.buf = nil
	}
}

// StagingBuffer is a pooled upload buffer.
type StagingBuffer struct {
	Buffer hal.Buffer
	Size   uint64
}

// StagingPool recycles upload buffers.
type StagingPool struct {
	device  hal.Device
	free    []StagingBuffer
	created uint64
	reused  uint64
}

// NewStagingPool creates an empty pool.
func NewStagingPool(device hal.Device) *StagingPool {
	return &StagingPool{device: device}
}

// Allocate returns the smallest pooled buffer with room for size bytes, or
// creates one of NextPow2(size) bytes.
func (p *StagingPool) Allocate(size uint64) (StagingBuffer, error) {
	if size == 0 {
		return StagingBuffer{}, fmt.Errorf("%w: staging size 0", ErrInvalidSize)
	}
	best := -1
	for i, b := range p.free {
		if b.Size >= size && (best < 0 || b.Size < p.free[best].Size) {
			best = i
		}
	}
	if best >= 0 {
		b := p.free[best]
		p.free = append(p.free[:best], p.free[best+1:]...)
		p.reused++
		return b, nil
	}
	if p.device == nil {
		return StagingBuffer{}, ErrNilDevice
	}
	n := NextPow2(size)
	buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "ui_staging",
		Size:  n,
		Usage: gputypes.BufferUsageMapWrite | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return StagingBuffer{}, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	p.created++
	return StagingBuffer{Buffer: buf, Size: n}, nil
}

// Recycle returns b to the pool.
func (p *StagingPool) Recycle(b StagingBuffer) {
	if b.Buffer == nil {
		return
	}
	p.free = append(p.free, b)
}

// Pooled returns the number of idle buffers.
func (p *StagingPool) Pooled() int { return len(p.free) }

// Counts returns how many buffers were created and reused.
func (p *StagingPool) Counts() (created, reused uint64) { return p.created, p.reused }

// Destroy releases every pooled buffer.
func (p *StagingPool) Destroy() {
	for _, b := range p.free {
		if p.device != nil {
			p.device.DestroyBuffer(b.Buffer)
		}
	}
	p.free = nil
}
