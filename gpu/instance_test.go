// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/ui/internal/gputest"
)

type testInstance struct {
	A, B, C, D float32
}

func inst(v float32) testInstance { return testInstance{A: v, B: v + 1, C: v + 2, D: v + 3} }

// applyWrites replays recorded writes onto a shadow copy of GPU memory.
func applyWrites(shadow []byte, writes []gputest.BufferWrite) []byte {
	for _, w := range writes {
		end := int(w.Offset) + len(w.Data)
		if end > len(shadow) {
			grown := make([]byte, end)
			copy(grown, shadow)
			shadow = grown
		}
		copy(shadow[w.Offset:], w.Data)
	}
	return shadow
}

func newTestBuffer(t *testing.T, initialCap int) (*InstanceBuffer[testInstance], *gputest.RecordingQueue) {
	t.Helper()
	device, queue := gputest.NoopDevice(t)
	b, err := NewInstanceBuffer[testInstance](device, "test_instances", gputypes.BufferUsageVertex, initialCap)
	if err != nil {
		t.Fatalf("NewInstanceBuffer failed: %v", err)
	}
	t.Cleanup(b.Destroy)
	return b, gputest.NewRecordingQueue(queue)
}

func TestNewInstanceBufferRejectsBadSizes(t *testing.T) {
	device, _ := gputest.NoopDevice(t)
	if _, err := NewInstanceBuffer[[3]byte](device, "odd", gputypes.BufferUsageVertex, 4); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("3-byte element: err = %v, want ErrInvalidSize", err)
	}
	if _, err := NewInstanceBuffer[testInstance](nil, "nil", gputypes.BufferUsageVertex, 4); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device: err = %v, want ErrNilDevice", err)
	}
}

func TestInstanceBufferCapacityIsPow2(t *testing.T) {
	b, _ := newTestBuffer(t, 5)
	if b.Capacity() != 8 {
		t.Errorf("Capacity = %d, want 8", b.Capacity())
	}
	if b.ElementSize() != 16 {
		t.Errorf("ElementSize = %d, want 16", b.ElementSize())
	}
}

func TestInstanceBufferPartialUpload(t *testing.T) {
	b, q := newTestBuffer(t, 16)

	initial := make([]testInstance, 10)
	for i := range initial {
		initial[i] = inst(float32(i * 10))
	}
	b.SetInstances(initial)
	n, err := b.UploadDirty(q)
	if err != nil {
		t.Fatalf("UploadDirty failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("first upload writes = %d, want 1", n)
	}
	q.Reset()

	b.UpdateInstance(2, inst(200))
	b.UpdateInstance(3, inst(300))
	b.UpdateInstance(7, inst(700))
	n, err = b.UploadDirty(q)
	if err != nil {
		t.Fatalf("UploadDirty failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("writes = %d, want 2", n)
	}
	w := q.WritesTo(b.Buffer())
	if w[0].Offset != 2*16 || len(w[0].Data) != 2*16 {
		t.Errorf("first write offset=%d len=%d, want 32/32", w[0].Offset, len(w[0].Data))
	}
	if w[1].Offset != 7*16 || len(w[1].Data) != 16 {
		t.Errorf("second write offset=%d len=%d, want 112/16", w[1].Offset, len(w[1].Data))
	}
	if !b.Dirty().IsEmpty() {
		t.Error("dirty ranges not cleared after upload")
	}
}

func TestInstanceBufferFailedUploadStaysDirty(t *testing.T) {
	b, q := newTestBuffer(t, 16)
	b.SetInstances([]testInstance{inst(0), inst(1), inst(2), inst(3)})
	if _, err := b.UploadDirty(q); err != nil {
		t.Fatalf("UploadDirty failed: %v", err)
	}
	b.UpdateInstance(1, inst(10))
	b.UpdateInstance(3, inst(30))

	lost := errors.New("device lost")
	q.Fail = lost
	if _, err := b.UploadDirty(q); !errors.Is(err, lost) {
		t.Fatalf("UploadDirty error = %v, want the queue error", err)
	}
	if got := b.Dirty().TotalCount(); got != 2 {
		t.Fatalf("dirty count = %d after a failed upload, want 2", got)
	}
	if err := b.UploadAll(q); !errors.Is(err, lost) {
		t.Fatalf("UploadAll error = %v, want the queue error", err)
	}
	if b.Dirty().IsEmpty() {
		t.Fatal("UploadAll cleared ranges it did not write")
	}

	q.Fail = nil
	q.Reset()
	n, err := b.UploadDirty(q)
	if err != nil || n != 2 {
		t.Fatalf("retry = %d, %v, want 2 writes", n, err)
	}
	if !b.Dirty().IsEmpty() {
		t.Error("ranges left after a successful retry")
	}
}

// After any sequence of edits followed by an upload, GPU memory equals the
// CPU instances.
func TestInstanceBufferShadowMatches(t *testing.T) {
	b, q := newTestBuffer(t, 4)
	var shadow []byte

	steps := []func(){
		func() { b.SetInstances([]testInstance{inst(1), inst(2), inst(3)}) },
		func() { b.UpdateInstance(1, inst(20)) },
		func() { b.Append(inst(4), inst(5), inst(6)) }, // grows past 4
		func() { b.UpdateRange(2, []testInstance{inst(30), inst(40)}) },
		func() { b.Truncate(4) },
		func() { b.UpdateInstance(0, inst(100)); b.UpdateInstance(3, inst(400)) },
	}
	for i, step := range steps {
		step()
		if _, err := b.UploadDirty(q); err != nil {
			t.Fatalf("step %d: UploadDirty failed: %v", i, err)
		}
		if b.Stats().Grows > 0 && i == 2 {
			// A grow replaces the buffer; replay onto a fresh shadow.
			shadow = nil
		}
		shadow = applyWrites(shadow, q.WritesTo(b.Buffer()))
		q.Reset()

		want := Bytes(b.Instances())
		if !bytes.Equal(shadow[:len(want)], want) {
			t.Fatalf("step %d: GPU shadow differs from CPU instances", i)
		}
	}
}

func TestInstanceBufferGrowRewritesEverything(t *testing.T) {
	b, q := newTestBuffer(t, 2)
	b.SetInstances([]testInstance{inst(1), inst(2)})
	if _, err := b.UploadDirty(q); err != nil {
		t.Fatal(err)
	}
	q.Reset()

	b.Append(inst(3))
	if b.Capacity() != 4 {
		t.Errorf("Capacity = %d, want 4", b.Capacity())
	}
	if _, err := b.UploadDirty(q); err != nil {
		t.Fatal(err)
	}
	total := 0
	for _, w := range q.WritesTo(b.Buffer()) {
		total += len(w.Data)
	}
	if total != 3*16 {
		t.Errorf("bytes written after grow = %d, want 48", total)
	}
	if s := b.Stats(); s.Grows != 1 || s.BufferBytes != 4*16 {
		t.Errorf("stats = %+v, want 1 grow and 64 buffer bytes", s)
	}
}

func TestInstanceBufferOutOfRangeIgnored(t *testing.T) {
	b, q := newTestBuffer(t, 4)
	b.SetInstances([]testInstance{inst(1)})
	if _, err := b.UploadDirty(q); err != nil {
		t.Fatal(err)
	}
	b.UpdateInstance(-1, inst(9))
	b.UpdateInstance(5, inst(9))
	b.UpdateRange(3, []testInstance{inst(9)})
	if !b.Dirty().IsEmpty() {
		t.Error("out-of-range updates marked dirty ranges")
	}
}

func TestInstanceBufferUploadAll(t *testing.T) {
	b, q := newTestBuffer(t, 4)
	b.SetInstances([]testInstance{inst(1), inst(2)})
	b.UpdateInstance(0, inst(5))
	if err := b.UploadAll(q); err != nil {
		t.Fatal(err)
	}
	if got := len(q.WritesTo(b.Buffer())); got != 1 {
		t.Errorf("writes = %d, want 1", got)
	}
	if !b.Dirty().IsEmpty() {
		t.Error("UploadAll did not clear dirty ranges")
	}
}

func TestInstanceBufferDestroyed(t *testing.T) {
	b, q := newTestBuffer(t, 4)
	b.Destroy()
	if _, err := b.UploadDirty(q); !errors.Is(err, ErrDestroyed) {
		t.Errorf("err = %v, want ErrDestroyed", err)
	}
	if _, err := b.UploadDirty(nil); err == nil {
		t.Error("nil queue accepted")
	}
}

func TestRingInstanceBufferRotates(t *testing.T) {
	device, _ := gputest.NoopDevice(t)
	r, err := NewRingInstanceBuffer[testInstance](device, "ring", gputypes.BufferUsageVertex, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	first := r.Current()
	if r.Advance() == first {
		t.Error("Advance returned the same buffer")
	}
	r.Advance()
	if r.Advance() != first || r.Index() != 0 {
		t.Errorf("ring did not wrap after %d frames", r.Frames())
	}
	if _, err := NewRingInstanceBuffer[testInstance](device, "ring", gputypes.BufferUsageVertex, 4, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("0 frames: err = %v, want ErrInvalidSize", err)
	}
}

func TestRingBufferAllocate(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	r, err := NewRingBuffer(device, "uniforms", gputypes.BufferUsageUniform, 300, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Destroy()

	if r.FrameSize() != 512 {
		t.Fatalf("FrameSize = %d, want 512", r.FrameSize())
	}
	a, ok := r.Allocate(100, 256)
	if !ok || a.Offset != 0 {
		t.Fatalf("first alloc = %+v ok=%v", a, ok)
	}
	b, ok := r.Allocate(100, 256)
	if !ok || b.Offset != 256 {
		t.Fatalf("second alloc = %+v ok=%v, want offset 256", b, ok)
	}
	if _, ok := r.Allocate(100, 256); ok {
		t.Error("allocation past frame end succeeded")
	}

	q := gputest.NewRecordingQueue(queue)
	if err := r.Write(q, b, make([]byte, 200)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w := q.WritesTo(r.Buffer()); len(w) != 1 || len(w[0].Data) != 100 {
		t.Errorf("write not clamped to allocation: %+v", w)
	}

	r.NextFrame()
	c, ok := r.Allocate(16, 4)
	if !ok || c.Offset != 512 {
		t.Errorf("frame 1 alloc = %+v, want offset 512", c)
	}
	r.NextFrame()
	if r.Frame() != 0 {
		t.Errorf("Frame = %d, want 0 after wrap", r.Frame())
	}
}

func TestStagingPoolReuse(t *testing.T) {
	device, _ := gputest.NoopDevice(t)
	p := NewStagingPool(device)
	defer p.Destroy()

	a, err := p.Allocate(1000)
	if err != nil {
		t.Fatal(err)
	}
	if a.Size != 1024 {
		t.Errorf("Size = %d, want 1024", a.Size)
	}
	big, err := p.Allocate(5000)
	if err != nil {
		t.Fatal(err)
	}
	p.Recycle(big)
	p.Recycle(a)

	got, err := p.Allocate(600)
	if err != nil {
		t.Fatal(err)
	}
	if got.Size != 1024 {
		t.Errorf("reused size = %d, want smallest fit 1024", got.Size)
	}
	created, reused := p.Counts()
	if created != 2 || reused != 1 || p.Pooled() != 1 {
		t.Errorf("created=%d reused=%d pooled=%d, want 2/1/1", created, reused, p.Pooled())
	}
	if _, err := p.Allocate(0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero size: err = %v", err)
	}
}

func TestNextPow2(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {5, 8}, {1024, 1024}, {1025, 2048},
	}
	for _, tt := range tests {
		if got := NextPow2(tt.in); got != tt.want {
			t.Errorf("NextPow2(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
