// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/dirty"
)

// BufferStats reports instance buffer usage.
type BufferStats struct {
	Len           int
	Capacity      int
	DirtyRanges   int
	DirtyElements int
	Writes        uint64
	BytesWritten  uint64
	BufferBytes   uint64
	Grows         uint64
}

// Utilization returns Len as a percentage of Capacity.
func (s BufferStats) Utilization() float32 {
	if s.Capacity == 0 {
		return 0
	}
	return float32(s.Len) / float32(s.Capacity) * 100
}

// InstanceBuffer pairs a CPU slice of instances with a GPU buffer and
// tracks which elements changed since the last upload.
//
// Setters only touch CPU state. Growing past the capacity picks the next
// power of two and marks every element dirty; the GPU buffer is
// reallocated by the next upload.
type InstanceBuffer[T any] struct {
	device hal.Device
	label  string
	usage  gputypes.BufferUsage

	buf       hal.Buffer
	bufCap    int // capacity of buf in elements
	capacity  int // requested capacity in elements
	instances []T
	dirty     dirty.Ranges

	writes       uint64
	bytesWritten uint64
	grows        uint64
	destroyed    bool
}

// NewInstanceBuffer creates an instance buffer with room for initialCap
// elements. CopyDst is always added to usage.
func NewInstanceBuffer[T any](device hal.Device, label string, usage gputypes.BufferUsage, initialCap int) (*InstanceBuffer[T], error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	var zero T
	if sz := unsafe.Sizeof(zero); sz == 0 || sz%4 != 0 {
		return nil, fmt.Errorf("%w: element size %d is not a positive multiple of 4", ErrInvalidSize, sz)
	}
	if initialCap < 1 {
		initialCap = 1
	}
	b := &InstanceBuffer[T]{
		device:   device,
		label:    label,
		usage:    usage | gputypes.BufferUsageCopyDst,
		capacity: int(NextPow2(uint64(initialCap))), //nolint:gosec // capacity fits int
	}
	if err := b.realloc(); err != nil {
		return nil, err
	}
	return b, nil
}

// ElementSize returns sizeof(T).
func (b *InstanceBuffer[T]) ElementSize() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// Len returns the number of instances.
func (b *InstanceBuffer[T]) Len() int { return len(b.instances) }

// Capacity returns the capacity in elements.
func (b *InstanceBuffer[T]) Capacity() int { return b.capacity }

// Instances returns the CPU instances. The slice is owned by the buffer.
func (b *InstanceBuffer[T]) Instances() []T { return b.instances }

// Buffer returns the GPU buffer.
func (b *InstanceBuffer[T]) Buffer() hal.Buffer { return b.buf }

// Dirty returns the pending dirty ranges.
func (b *InstanceBuffer[T]) Dirty() *dirty.Ranges { return &b.dirty }

// SetInstances replaces the contents and marks everything dirty.
func (b *InstanceBuffer[T]) SetInstances(v []T) {
	b.reserve(len(v))
	b.instances = append(b.instances[:0], v...)
	b.dirty.Clear()
	b.dirty.Mark(0, len(b.instances))
}

// UpdateRange overwrites elements starting at start. Data past the current
// length is dropped.
func (b *InstanceBuffer[T]) UpdateRange(start int, data []T) {
	if start < 0 || start >= len(b.instances) || len(data) == 0 {
		return
	}
	n := copy(b.instances[start:], data)
	b.dirty.Mark(start, start+n)
}

// UpdateInstance overwrites one element.
func (b *InstanceBuffer[T]) UpdateInstance(i int, v T) {
	if i < 0 || i >= len(b.instances) {
		return
	}
	b.instances[i] = v
	b.dirty.MarkOne(i)
}

// Append adds elements and marks them dirty.
func (b *InstanceBuffer[T]) Append(v ...T) {
	if len(v) == 0 {
		return
	}
	start := len(b.instances)
	b.reserve(start + len(v))
	b.instances = append(b.instances, v...)
	b.dirty.Mark(start, len(b.instances))
}

// Truncate shortens the buffer to n elements.
func (b *InstanceBuffer[T]) Truncate(n int) {
	if n < 0 || n >= len(b.instances) {
		return
	}
	b.instances = b.instances[:n]
	b.dirty.Clip(n)
}

// UploadDirty writes each dirty range with one WriteBuffer at
// start*sizeof(T), then clears the ranges. It returns the number of
// writes issued. When a write fails the ranges stay dirty, so the next
// call writes them again.
func (b *InstanceBuffer[T]) UploadDirty(queue hal.Queue) (int, error) {
	if err := b.prepareUpload(queue); err != nil {
		return 0, err
	}
	if b.dirty.IsEmpty() {
		return 0, nil
	}
	size := b.ElementSize()
	n := 0
	for r := range b.dirty.All() {
		data := bytesOf(b.instances[r.Start:r.End])
		if err := queue.WriteBuffer(b.buf, uint64(r.Start)*size, data); err != nil { //nolint:gosec // Start is non-negative
			return n, fmt.Errorf("gpu: write %s [%d,%d): %w", b.label, r.Start, r.End, err)
		}
		b.writes++
		b.bytesWritten += uint64(len(data))
		n++
	}
	b.dirty.Clear()
	return n, nil
}

// UploadAll writes every element with a single WriteBuffer and clears the
// dirty ranges.
func (b *InstanceBuffer[T]) UploadAll(queue hal.Queue) error {
	if err := b.prepareUpload(queue); err != nil {
		return err
	}
	if len(b.instances) == 0 {
		b.dirty.Clear()
		return nil
	}
	data := bytesOf(b.instances)
	if err := queue.WriteBuffer(b.buf, 0, data); err != nil {
		return fmt.Errorf("gpu: write %s: %w", b.label, err)
	}
	b.dirty.Clear()
	b.writes++
	b.bytesWritten += uint64(len(data))
	return nil
}

// Stats returns usage counters.
func (b *InstanceBuffer[T]) Stats() BufferStats {
	ranges, total, _ := b.dirty.Stats()
	return BufferStats{
		Len:           len(b.instances),
		Capacity:      b.capacity,
		DirtyRanges:   ranges,
		DirtyElements: total,
		Writes:        b.writes,
		BytesWritten:  b.bytesWritten,
		BufferBytes:   uint64(b.bufCap) * b.ElementSize(), //nolint:gosec // bufCap is non-negative
		Grows:         b.grows,
	}
}

// Destroy releases the GPU buffer.
func (b *InstanceBuffer[T]) Destroy() {
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
		b.buf = nil
	}
	b.destroyed = true
}

func (b *InstanceBuffer[T]) reserve(n int) {
	if n <= b.capacity {
		return
	}
	b.capacity = int(NextPow2(uint64(n))) //nolint:gosec // n is positive
	b.grows++
	// The GPU buffer is replaced on upload; everything must be rewritten.
	b.dirty.Mark(0, len(b.instances))
	Logger().Debug("gpu: instance buffer grow", "label", b.label, "capacity", b.capacity)
}

func (b *InstanceBuffer[T]) prepareUpload(queue hal.Queue) error {
	if b.destroyed {
		return ErrDestroyed
	}
	if queue == nil {
		return ErrNilQueue
	}
	if b.bufCap < b.capacity {
		if err := b.realloc(); err != nil {
			return err
		}
		b.dirty.Mark(0, len(b.instances))
	}
	return nil
}

func (b *InstanceBuffer[T]) realloc() error {
	size := alignUp(uint64(b.capacity)*b.ElementSize(), 4) //nolint:gosec // capacity is positive
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  size,
		Usage: b.usage,
	})
	if err != nil {
		return fmt.Errorf("gpu: create %s buffer: %w", b.label, err)
	}
	if b.buf != nil {
		b.device.DestroyBuffer(b.buf)
	}
	b.buf = buf
	b.bufCap = b.capacity
	return nil
}

// bytesOf views a slice of plain structs as bytes.
func bytesOf[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// Bytes returns the byte view of v used for uploads.
func Bytes[T any](v []T) []byte { return bytesOf(v) }
