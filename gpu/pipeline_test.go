// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"strings"
	"testing"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/internal/gputest"
)

func TestInstanceLayoutsMatchStructs(t *testing.T) {
	if got := unsafe.Sizeof(QuadInstance{}); got != QuadStride {
		t.Errorf("sizeof(QuadInstance) = %d, want %d", got, QuadStride)
	}
	if got := unsafe.Sizeof(SpriteInstance{}); got != SpriteStride {
		t.Errorf("sizeof(SpriteInstance) = %d, want %d", got, SpriteStride)
	}
	if got := unsafe.Sizeof(Globals{}); got != GlobalsSize {
		t.Errorf("sizeof(Globals) = %d, want %d", got, GlobalsSize)
	}
	if got := unsafe.Offsetof(QuadInstance{}.BorderWidth); got != 64 {
		t.Errorf("BorderWidth offset = %d, want 64", got)
	}
	if got := unsafe.Offsetof(SpriteInstance{}.Z); got != 48 {
		t.Errorf("Z offset = %d, want 48", got)
	}
}

func TestShaderSourcesIncludePrelude(t *testing.T) {
	for name, src := range map[string]string{"quad": QuadShader, "sprite": TexturedShader, "glyph": GlyphShader} {
		if !strings.Contains(src, "fn to_clip") || !strings.Contains(src, "fn vs_main") {
			t.Errorf("%s shader missing prelude or entry point", name)
		}
	}
	if strings.Contains(BlitShader, "globals") {
		t.Error("blit shader should not bind globals")
	}
}

func TestShadersCompile(t *testing.T) {
	for _, src := range []string{QuadShader, TexturedShader, GlyphShader, BlitShader} {
		if err := ValidateWGSL(src); err != nil {
			if strings.Contains(err.Error(), "not yet implemented") || strings.Contains(err.Error(), "not supported") {
				t.Skipf("Skipping: naga feature not yet implemented: %v", err)
			}
			t.Fatalf("ValidateWGSL failed: %v", err)
		}
	}
}

func TestValidateWGSLRejectsGarbage(t *testing.T) {
	if err := ValidateWGSL("fn broken( {"); !errors.Is(err, ErrShaderCompile) {
		t.Errorf("err = %v, want ErrShaderCompile", err)
	}
}

func newPipelines(t *testing.T) (hal.Device, *Layouts, map[PipelineKind]*Pipeline) {
	t.Helper()
	device, _ := gputest.NoopDevice(t)
	layouts, err := NewLayouts(device)
	if err != nil {
		t.Fatalf("NewLayouts failed: %v", err)
	}
	t.Cleanup(layouts.Destroy)
	out := make(map[PipelineKind]*Pipeline)
	for _, kind := range []PipelineKind{PipelineQuad, PipelineSprite, PipelineGlyph} {
		p, err := NewPipeline(device, layouts, kind, Target{Format: gputypes.TextureFormatBGRA8Unorm})
		if errors.Is(err, ErrShaderCompile) {
			t.Skipf("Skipping: shader compiler rejected %s: %v", kind, err)
		}
		if err != nil {
			t.Fatalf("NewPipeline(%s) failed: %v", kind, err)
		}
		t.Cleanup(p.Destroy)
		out[kind] = p
	}
	return device, layouts, out
}

type recordedCall struct {
	op   string
	args []uint32
}

type fakePass struct {
	calls []recordedCall
}

func (f *fakePass) SetPipeline(hal.RenderPipeline) { f.calls = append(f.calls, recordedCall{op: "pipeline"}) }
func (f *fakePass) SetBindGroup(index uint32, _ hal.BindGroup, _ []uint32) {
	f.calls = append(f.calls, recordedCall{op: "bind", args: []uint32{index}})
}
func (f *fakePass) SetVertexBuffer(slot uint32, _ hal.Buffer, _ uint64) {
	f.calls = append(f.calls, recordedCall{op: "vertex", args: []uint32{slot}})
}
func (f *fakePass) SetScissorRect(x, y, w, h uint32) {
	f.calls = append(f.calls, recordedCall{op: "scissor", args: []uint32{x, y, w, h}})
}
func (f *fakePass) Draw(vc, ic, fv, fi uint32) {
	f.calls = append(f.calls, recordedCall{op: "draw", args: []uint32{vc, ic, fv, fi}})
}

func TestPipelineRecord(t *testing.T) {
	_, _, pipes := newPipelines(t)

	var rp fakePass
	pipes[PipelineQuad].Record(&rp, nil, nil, nil, 4, 3)
	if len(rp.calls) != 4 {
		t.Fatalf("quad calls = %d, want 4 (no texture group)", len(rp.calls))
	}
	draw := rp.calls[3]
	if draw.op != "draw" || draw.args[0] != 6 || draw.args[1] != 3 || draw.args[3] != 4 {
		t.Errorf("draw = %+v, want 6 vertices, 3 instances from 4", draw)
	}

	rp = fakePass{}
	pipes[PipelineGlyph].Record(&rp, nil, nil, nil, 0, 1)
	if len(rp.calls) != 5 || rp.calls[2].op != "bind" || rp.calls[2].args[0] != 1 {
		t.Errorf("glyph calls = %+v, want texture group at slot 1", rp.calls)
	}

	rp = fakePass{}
	pipes[PipelineSprite].Record(&rp, nil, nil, nil, 0, 0)
	if len(rp.calls) != 0 {
		t.Error("empty draw recorded commands")
	}
}

func TestGlobalsBindingSkipsUnchanged(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	layouts, err := NewLayouts(device)
	if err != nil {
		t.Fatal(err)
	}
	defer layouts.Destroy()
	g, err := NewGlobalsBinding(device, layouts)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Destroy()

	q := gputest.NewRecordingQueue(queue)
	if ok, err := g.Update(q, 800, 600, 1); !ok || err != nil {
		t.Errorf("first update = %v, %v", ok, err)
	}
	if ok, _ := g.Update(q, 800, 600, 1); ok {
		t.Error("unchanged update wrote")
	}
	if ok, _ := g.Update(q, 1024, 600, 1); !ok {
		t.Error("resize skipped")
	}
	if len(q.Buffers) != 2 || len(q.Buffers[0].Data) != GlobalsSize {
		t.Errorf("writes = %d, want 2 of %d bytes", len(q.Buffers), GlobalsSize)
	}

	q.Fail = errors.New("device lost")
	if ok, err := g.Update(q, 640, 480, 2); ok || !errors.Is(err, q.Fail) {
		t.Errorf("failed update = %v, %v", ok, err)
	}
	q.Fail = nil
	if ok, err := g.Update(q, 640, 480, 2); !ok || err != nil {
		t.Errorf("retried update = %v, %v, want a write", ok, err)
	}
}

func TestPipelineKindString(t *testing.T) {
	if PipelineGlyph.String() != "glyph" || !PipelineGlyph.Textured() || PipelineQuad.Textured() {
		t.Error("unexpected kind metadata")
	}
	if PipelineQuad.Stride() != QuadStride || PipelineSprite.Stride() != SpriteStride {
		t.Error("unexpected strides")
	}
	if _, err := NewPipeline(nil, nil, PipelineQuad, Target{Format: gputypes.TextureFormatBGRA8Unorm}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("nil device: err = %v", err)
	}
}

func TestBlitterRecord(t *testing.T) {
	device, _ := gputest.NoopDevice(t)
	b, err := NewBlitter(device, gputypes.TextureFormatBGRA8Unorm, BlendPremultiplied)
	if errors.Is(err, ErrShaderCompile) {
		t.Skipf("Skipping: shader compiler rejected blit: %v", err)
	}
	if err != nil {
		t.Fatalf("NewBlitter failed: %v", err)
	}
	defer b.Destroy()

	var rp fakePass
	b.Record(&rp, nil)
	last := rp.calls[len(rp.calls)-1]
	if last.op != "draw" || last.args[0] != 3 || last.args[1] != 1 {
		t.Errorf("blit draw = %+v, want 3 vertices", last)
	}
	if b.Mode() != BlendPremultiplied {
		t.Error("mode lost")
	}
}

type fakeProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (fakeProvider) Device() gpucontext.Device { return nil }
func (fakeProvider) Queue() gpucontext.Queue { return nil }
func (fakeProvider) Adapter() gpucontext.Adapter { return nil }
func (fakeProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (fakeProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }
func (p fakeProvider) HalDevice() any { return p.device }
func (p fakeProvider) HalQueue() any  { return p.queue }

func TestFromProvider(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	d, err := FromProvider(fakeProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("FromProvider failed: %v", err)
	}
	if d.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm default", d.Format)
	}
	if _, err := FromProvider(fakeProvider{}); !errors.Is(err, ErrNilDevice) {
		t.Errorf("missing device: err = %v", err)
	}
}

func TestTargetDepthState(t *testing.T) {
	if (Target{Format: gputypes.TextureFormatBGRA8Unorm}).depthState() != nil {
		t.Error("depth state without a depth format")
	}
	ds := Target{
		Format:     gputypes.TextureFormatBGRA8Unorm,
		Depth:      gputypes.TextureFormatDepth24PlusStencil8,
		DepthWrite: true,
	}.depthState()
	if ds == nil {
		t.Fatal("nil depth state")
	}
	if !ds.DepthWriteEnabled || ds.DepthCompare != gputypes.CompareFunctionLessEqual {
		t.Errorf("depth state = %+v", ds)
	}
}
