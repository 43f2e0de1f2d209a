// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG
	_ "image/png"  // register PNG
	"io"

	_ "golang.org/x/image/bmp" // register BMP
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP
)

// ImageExtensions lists the extensions RegisterImageLoaders covers.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".webp"}

// FontExtensions lists the extensions RegisterFontLoaders covers.
var FontExtensions = []string{".ttf", ".otf"}

// ImageLoader decodes any registered image format into *image.RGBA with
// its origin at zero, ready for texture upload.
type ImageLoader struct{}

func (ImageLoader) Load(r io.Reader, _ string) (any, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("empty %s image", format)
	}
	return ToRGBA(img), nil
}

// ToRGBA returns img as *image.RGBA with bounds starting at zero,
// converting only when needed.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// FontLoader reads font files as raw bytes for a font registry.
type FontLoader struct{}

func (FontLoader) Load(r io.Reader, _ string) (any, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	if buf.Len() == 0 {
		return nil, errors.New("empty font file")
	}
	return buf.Bytes(), nil
}

// RegisterImageLoaders registers ImageLoader for ImageExtensions.
func (s *Server) RegisterImageLoaders() {
	for _, ext := range ImageExtensions {
		s.Register(ext, ImageLoader{})
	}
}

// RegisterFontLoaders registers FontLoader for FontExtensions.
func (s *Server) RegisterFontLoaders() {
	for _, ext := range FontExtensions {
		s.Register(ext, FontLoader{})
	}
}
