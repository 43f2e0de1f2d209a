// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package atlas

import (
	"errors"
	"testing"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/internal/gputest"
)

func pixels(w, h uint32, f Format) []byte {
	return make([]byte, w*h*f.BytesPerPixel())
}

func TestNewRejectsNonPowerOfTwo(t *testing.T) {
	for _, size := range []uint32{0, 3, 100, 1000} {
		if _, err := New(size, FormatR8); !errors.Is(err, ErrSizeNotPowerOfTwo) {
			t.Errorf("New(%d) error = %v, want ErrSizeNotPowerOfTwo", size, err)
		}
	}
	if _, err := New(1024, FormatR8); err != nil {
		t.Fatalf("New(1024) error = %v", err)
	}
}

func TestInsertPlacement(t *testing.T) {
	a, err := New(256, FormatR8)
	if err != nil {
		t.Fatal(err)
	}

	ea, ok := a.Insert(KeyFromString("A"), pixels(64, 64, FormatR8), 64, 64)
	if !ok {
		t.Fatal("insert A failed")
	}
	if ea.Rect != (Rect{X: 0, Y: 0, W: 64, H: 64}) {
		t.Errorf("A rect = %+v, want (0,0,64,64)", ea.Rect)
	}
	if ea.UV != geom.R(0, 0, 0.25, 0.25) {
		t.Errorf("A uv = %+v, want (0,0,0.25,0.25)", ea.UV)
	}

	eb, ok := a.Insert(KeyFromString("B"), pixels(32, 32, FormatR8), 32, 32)
	if !ok {
		t.Fatal("insert B failed")
	}
	if eb.Rect.Overlaps(ea.Rect) {
		t.Errorf("B %+v overlaps A %+v", eb.Rect, ea.Rect)
	}

	empty, filled, split := a.root.count()
	pending := len(a.Pending())

	again, ok := a.Insert(KeyFromString("A"), pixels(64, 64, FormatR8), 64, 64)
	if !ok || again != ea {
		t.Errorf("duplicate insert = %+v, %v, want %+v", again, ok, ea)
	}
	e2, f2, s2 := a.root.count()
	if e2 != empty || f2 != filled || s2 != split {
		t.Errorf("packer changed on duplicate insert: (%d,%d,%d) -> (%d,%d,%d)", empty, filled, split, e2, f2, s2)
	}
	if got := len(a.Pending()); got != pending {
		t.Errorf("pending = %d after duplicate, want %d", got, pending)
	}
	if got := a.Stats().Entries; got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}

func TestInsertNeverOverlaps(t *testing.T) {
	a, _ := New(512, FormatR8)
	sizes := [][2]uint32{{40, 12}, {7, 90}, {128, 128}, {33, 33}, {200, 10}, {5, 5}, {64, 31}, {17, 200}}
	var placed []Rect
	for i := 0; i < 40; i++ {
		s := sizes[i%len(sizes)]
		e, ok := a.Insert(Key(i+1), pixels(s[0], s[1], FormatR8), s[0], s[1])
		if !ok {
			continue
		}
		if e.Rect.X+e.Rect.W > 512 || e.Rect.Y+e.Rect.H > 512 {
			t.Fatalf("entry %d outside atlas: %+v", i, e.Rect)
		}
		for _, p := range placed {
			if e.Rect.Overlaps(p) {
				t.Fatalf("entry %d %+v overlaps %+v", i, e.Rect, p)
			}
		}
		placed = append(placed, e.Rect)
	}
	if len(placed) == 0 {
		t.Fatal("nothing placed")
	}
}

func TestInsertFull(t *testing.T) {
	a, _ := New(64, FormatR8)
	if _, ok := a.Insert(1, pixels(64, 64, FormatR8), 64, 64); !ok {
		t.Fatal("first insert failed")
	}
	if _, ok := a.Insert(2, pixels(1, 1, FormatR8), 1, 1); ok {
		t.Error("insert into full atlas succeeded")
	}
	if _, ok := a.Insert(3, pixels(128, 8, FormatR8), 128, 8); ok {
		t.Error("oversized insert succeeded")
	}
	if got := a.Stats().Rejected; got != 2 {
		t.Errorf("rejected = %d, want 2", got)
	}
	if got := a.Stats().Utilization(); got != 100 {
		t.Errorf("utilization = %v, want 100", got)
	}
}

func TestInsertShortPixels(t *testing.T) {
	a, _ := New(64, FormatRGBA8)
	if _, ok := a.Insert(1, make([]byte, 16), 4, 4); ok {
		t.Error("insert with short pixel slice succeeded")
	}
	if _, ok := a.Insert(1, make([]byte, 64), 4, 4); !ok {
		t.Error("insert with exact rgba pixel slice failed")
	}
}

func TestCoverage(t *testing.T) {
	cov := []byte{0x00, 0x80, 0xff}
	tests := []struct {
		format Format
		want   []byte
	}{
		{FormatR8, cov},
		{FormatRGBA8, []byte{0, 0, 0, 0, 0x80, 0x80, 0x80, 0x80, 0xff, 0xff, 0xff, 0xff}},
		{FormatBGRA8, []byte{0, 0, 0, 0, 0x80, 0x80, 0x80, 0x80, 0xff, 0xff, 0xff, 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got := tt.format.Coverage(cov)
			if string(got) != string(tt.want) {
				t.Errorf("Coverage = %v, want %v", got, tt.want)
			}
			a, _ := New(64, tt.format)
			if _, ok := a.Insert(1, got, 3, 1); !ok {
				t.Error("expanded coverage rejected by the atlas")
			}
		})
	}
}

func TestInsertZeroArea(t *testing.T) {
	a, _ := New(64, FormatR8)
	e, ok := a.Insert(9, nil, 0, 10)
	if !ok || e.Rect.Area() != 0 {
		t.Fatalf("zero-area insert = %+v, %v", e, ok)
	}
	if len(a.Pending()) != 0 {
		t.Error("zero-area insert queued an upload")
	}
	if _, ok := a.Lookup(9); !ok {
		t.Error("zero-area entry not found")
	}
}

func TestUpload(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	rec := gputest.NewRecordingQueue(queue)

	a, _ := New(128, FormatRGBA8)
	a.Insert(1, pixels(10, 4, FormatRGBA8), 10, 4)
	a.Insert(2, pixels(3, 3, FormatRGBA8), 3, 3)

	if n, err := a.Upload(rec); n != 0 || err != nil {
		t.Fatalf("upload without texture = %d, %v", n, err)
	}
	if err := a.CreateTexture(device); err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer a.Destroy(device)

	if n, err := a.Upload(rec); n != 2 || err != nil {
		t.Fatalf("upload = %d, %v, want 2 regions", n, err)
	}
	if len(rec.Textures) != 2 {
		t.Fatalf("recorded %d texture writes, want 2", len(rec.Textures))
	}
	w := rec.Textures[0]
	if w.BytesPerRow != 40 || w.Size.Width != 10 || w.Size.Height != 4 || w.Len != 160 {
		t.Errorf("first write = %+v, want 40 bytes/row 10x4 len 160", w)
	}
	if len(a.Pending()) != 0 {
		t.Error("pending not cleared")
	}
	if n, _ := a.Upload(rec); n != 0 {
		t.Errorf("second upload wrote %d regions", n)
	}
	if got := a.Stats().Uploads; got != 2 {
		t.Errorf("uploads = %d, want 2", got)
	}
}

func TestUploadFailureKeepsPending(t *testing.T) {
	device, queue := gputest.NoopDevice(t)
	rec := gputest.NewRecordingQueue(queue)
	a, _ := New(128, FormatR8)
	if err := a.CreateTexture(device); err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	defer a.Destroy(device)
	a.Insert(1, pixels(4, 4, FormatR8), 4, 4)
	a.Insert(2, pixels(2, 2, FormatR8), 2, 2)

	lost := errors.New("device lost")
	rec.Fail = lost
	n, err := a.Upload(rec)
	if !errors.Is(err, lost) || n != 0 {
		t.Fatalf("failed upload = %d, %v, want 0 and the queue error", n, err)
	}
	if len(a.Pending()) != 2 {
		t.Fatalf("pending = %d after a failed upload, want 2", len(a.Pending()))
	}

	rec.Fail = nil
	if n, err := a.Upload(rec); n != 2 || err != nil {
		t.Fatalf("retry = %d, %v, want 2 regions", n, err)
	}
	if len(a.Pending()) != 0 || a.Stats().Uploads != 2 {
		t.Errorf("pending = %d, uploads = %d", len(a.Pending()), a.Stats().Uploads)
	}
}

func TestCreateTextureNilDevice(t *testing.T) {
	a, _ := New(64, FormatR8)
	if err := a.CreateTexture(nil); !errors.Is(err, ErrNilDevice) {
		t.Errorf("CreateTexture(nil) = %v, want ErrNilDevice", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatR8, FormatRGBA8, FormatBGRA8} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFormat("rgb565"); err == nil {
		t.Error("ParseFormat accepted unknown format")
	}
}

func TestGlyphKeyDistinct(t *testing.T) {
	seen := map[Key]bool{}
	for font := uint32(0); font < 3; font++ {
		for g := uint32(0); g < 50; g++ {
			for b := uint32(100); b < 103; b++ {
				k := GlyphKey(font, g, b)
				if seen[k] {
					t.Fatalf("collision at font=%d glyph=%d bucket=%d", font, g, b)
				}
				seen[k] = true
			}
		}
	}
}
