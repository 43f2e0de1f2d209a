// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/widget"
)

func TestUploadImage(t *testing.T) {
	f := newFixture(t, DefaultOptions(), 64)
	f.queue.Reset()

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	id, err := f.r.UploadImage(img, "icon")
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if id == 0 || f.r.Capabilities().Textures != 1 {
		t.Fatalf("texture %d, capabilities %+v", id, f.r.Capabilities())
	}
	if len(f.queue.Textures) != 1 {
		t.Fatalf("texture writes = %d, want 1", len(f.queue.Textures))
	}
	if w := f.queue.Textures[0]; w.BytesPerRow != 16 || w.Len != 32 || w.Size.Width != 4 || w.Size.Height != 2 {
		t.Errorf("write = %+v", w)
	}

	f.tree.InsertRoot(widget.NewImage(id, geom.Size{W: 4, H: 2}))
	if stats := f.frame(t); stats.Sprites != 1 {
		t.Errorf("sprites = %d, want 1", stats.Sprites)
	}

	if !f.r.ReleaseTexture(id) || f.r.ReleaseTexture(id) {
		t.Error("ReleaseTexture did not release exactly once")
	}
	if _, err := f.r.UploadImage(image.NewRGBA(image.Rectangle{}), "empty"); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("empty image err = %v", err)
	}
}
