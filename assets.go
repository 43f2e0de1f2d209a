// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"fmt"
	"image"

	"github.com/gogpu/ui/asset"
	"github.com/gogpu/ui/geom"
)

// Assets returns the asset server images and fonts are loaded through.
func (e *Engine) Assets() *asset.Server { return e.assets }

// LoadImage decodes the image at path and uploads it as a texture. The
// texture index and the natural size in pixels are returned. Loading a
// path that is already loaded returns the same texture.
func (e *Engine) LoadImage(path string) (uint32, geom.Size, error) {
	if im, ok := e.images[path]; ok {
		return im.texture, im.size, nil
	}
	h, err := asset.Load[*image.RGBA](e.assets, path)
	if err != nil {
		return 0, geom.Size{}, err
	}
	img, _ := h.Get()
	tex, err := e.renderer.UploadImage(img, path)
	if err != nil {
		h.Release()
		return 0, geom.Size{}, fmt.Errorf("ui: image %s: %w", path, err)
	}
	b := img.Bounds()
	im := &loadedImage{
		handle:  h,
		texture: tex,
		size:    geom.Size{W: float32(b.Dx()), H: float32(b.Dy())},
	}
	e.images[path] = im
	return im.texture, im.size, nil
}

// ReleaseImage drops the engine's hold on the image at path. The texture
// is destroyed once no other handle to the asset remains. Image widgets
// still showing it draw nothing.
func (e *Engine) ReleaseImage(path string) bool {
	im, ok := e.images[path]
	if !ok {
		return false
	}
	im.handle.Release()
	return true
}

// unloadImage runs when the last handle to an asset is released.
func (e *Engine) unloadImage(path string, v any) {
	if _, ok := v.(*image.RGBA); !ok {
		return
	}
	im, ok := e.images[path]
	if !ok {
		return
	}
	delete(e.images, path)
	e.renderer.ReleaseTexture(im.texture)
	Logger().Debug("ui: image released", "path", path, "texture", im.texture)
}

// LoadFont registers the font file at path under name and returns its
// font ID. Loading a registered name returns its ID without reading the
// file.
func (e *Engine) LoadFont(name, path string) (uint32, error) {
	if e.fonts == nil {
		return 0, ErrCustomShaper
	}
	if id, ok := e.fonts.Lookup(name); ok {
		return id, nil
	}
	h, err := asset.Load[[]byte](e.assets, path)
	if err != nil {
		return 0, err
	}
	defer h.Release()
	data, _ := h.Get()
	return e.fonts.Register(name, data)
}
