// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/gpu"
)

// ErrEmptyImage is returned by UploadImage for images without pixels.
var ErrEmptyImage = errors.New("render: empty image")

// ownedTexture is a texture the renderer created and must destroy.
type ownedTexture struct {
	tex  hal.Texture
	view hal.TextureView
}

// UploadImage creates an RGBA texture holding img, writes its pixels and
// registers it for image widgets. img must start at the origin, as
// asset.ToRGBA returns it.
func (r *Renderer) UploadImage(img *image.RGBA, label string) (uint32, error) {
	if r.device == nil {
		return 0, gpu.ErrNilDevice
	}
	b := img.Bounds()
	if b.Empty() {
		return 0, ErrEmptyImage
	}
	w, h := uint32(b.Dx()), uint32(b.Dy()) //nolint:gosec // image bounds are non-negative
	format := gputypes.TextureFormatRGBA8Unorm
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("render: create texture %s: %w", label, err)
	}
	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(tex)
		return 0, fmt.Errorf("render: create texture view %s: %w", label, err)
	}
	err = r.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, Aspect: gputypes.TextureAspectAll},
		img.Pix,
		&hal.ImageDataLayout{BytesPerRow: uint32(img.Stride), RowsPerImage: h}, //nolint:gosec // stride is positive
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		r.device.DestroyTextureView(view)
		r.device.DestroyTexture(tex)
		return 0, fmt.Errorf("render: write texture %s: %w", label, err)
	}
	i := r.RegisterTexture(view)
	if r.owned == nil {
		r.owned = make(map[uint32]ownedTexture)
	}
	r.owned[i] = ownedTexture{tex: tex, view: view}
	Logger().Debug("render: image uploaded", "label", label, "texture", i, "w", w, "h", h)
	return i, nil
}

// ReleaseTexture unregisters texture i and destroys it if the renderer
// created it. Recording an image widget that still names i fails for
// that batch only.
func (r *Renderer) ReleaseTexture(i uint32) bool {
	if i == 0 || int(i) >= len(r.textures) || r.textures[i] == nil {
		return false
	}
	r.textures[i] = nil
	for k, g := range r.groups {
		if !k.glyph && k.texture == i {
			r.device.DestroyBindGroup(g)
			delete(r.groups, k)
		}
	}
	if o, ok := r.owned[i]; ok {
		r.device.DestroyTextureView(o.view)
		r.device.DestroyTexture(o.tex)
		delete(r.owned, i)
	}
	return true
}

func (r *Renderer) destroyTextures() {
	for i, o := range r.owned {
		r.device.DestroyTextureView(o.view)
		r.device.DestroyTexture(o.tex)
		delete(r.owned, i)
	}
}
