// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"
	"testing/fstest"

	"golang.org/x/image/bmp"
)

func encode(t *testing.T, enc func(io.Writer, image.Image) error) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(fstest.MapFS{
		"icon.png":   {Data: encode(t, png.Encode)},
		"icon.BMP":   {Data: encode(t, bmp.Encode)},
		"broken.png": {Data: []byte("not a png")},
		"notes.txt":  {Data: []byte("hello")},
		"README":     {Data: []byte("x")},
	})
	s.RegisterImageLoaders()
	return s
}

func TestLoadImages(t *testing.T) {
	s := newServer(t)
	for _, p := range []string{"icon.png", "icon.BMP"} {
		h, err := Load[*image.RGBA](s, p)
		if err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
		img, ok := h.Get()
		if !ok || img.Bounds() != image.Rect(0, 0, 3, 2) {
			t.Fatalf("%s: image %v", p, img.Bounds())
		}
		if c := img.RGBAAt(1, 1); c != (color.RGBA{R: 255, A: 255}) {
			t.Errorf("%s: pixel = %v", p, c)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		srv  func(*testing.T) *Server
		path string
		want error
	}{
		{"no loaders", func(*testing.T) *Server { return NewServer(fstest.MapFS{}) }, "a.png", ErrNoLoader},
		{"unknown extension", newServer, "notes.txt", ErrNoLoaderForExtension},
		{"no extension", newServer, "README", ErrNoLoaderForExtension},
		{"missing file", newServer, "gone.png", ErrLoader},
		{"bad data", newServer, "broken.png", ErrLoader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load[*image.RGBA](tt.srv(t), tt.path)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var ae *Error
			if !errors.As(err, &ae) || ae.Path != tt.path {
				t.Errorf("error path = %+v", ae)
			}
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	s := newServer(t)
	if _, err := Load[string](s, "icon.png"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("decode into string: err = %v", err)
	}
	h, err := Load[*image.RGBA](s, "icon.png")
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()
	if _, err := Load[[]byte](s, "icon.png"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("cached as other type: err = %v", err)
	}
	if _, ok := Get[[]byte](s, "icon.png"); ok {
		t.Error("Get with the wrong type succeeded")
	}
}

func TestLoadSharesAndUnloads(t *testing.T) {
	s := newServer(t)
	var unloaded []string
	s.OnUnload(func(p string, v any) {
		if _, ok := v.(*image.RGBA); ok {
			unloaded = append(unloaded, p)
		}
	})

	a, err := Load[*image.RGBA](s, "icon.png")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Load[*image.RGBA](s, "icon.png")
	ia, _ := a.Get()
	ib, _ := b.Get()
	if ia != ib || a.StrongCount() != 2 || s.Len() != 1 {
		t.Fatalf("second load not shared: strong %d, len %d", a.StrongCount(), s.Len())
	}
	c, ok := Get[*image.RGBA](s, "icon.png")
	if !ok || c.StrongCount() != 3 {
		t.Fatal("Get did not add a reference")
	}

	if a.Release() || b.Release() {
		t.Fatal("released early")
	}
	if !c.Release() {
		t.Fatal("last release not reported")
	}
	if s.Len() != 0 || len(unloaded) != 1 {
		t.Errorf("after release: len %d, unloaded %v", s.Len(), unloaded)
	}
	if _, ok := Get[*image.RGBA](s, "icon.png"); ok {
		t.Error("Get found an unloaded asset")
	}
	d, err := Load[*image.RGBA](s, "icon.png")
	if err != nil || d.StrongCount() != 1 {
		t.Errorf("reload: %v, strong %d", err, d.StrongCount())
	}
}

func TestWeakUpgrade(t *testing.T) {
	h := NewHandle(42)
	w := h.Downgrade()
	if h.WeakCount() != 1 || !w.Alive() {
		t.Fatal("weak handle not counted")
	}
	u, ok := w.Upgrade()
	if !ok || h.StrongCount() != 2 {
		t.Fatal("upgrade of a live handle failed")
	}
	u.Release()
	h.Release()
	if _, ok := w.Upgrade(); ok {
		t.Error("upgrade after the last release succeeded")
	}
	if _, ok := h.Get(); ok {
		t.Error("Get after release succeeded")
	}
	if c := h.Clone(); !c.IsZero() {
		t.Error("Clone of a released handle is not zero")
	}
	w.Release()
	w.Release()
	if h.WeakCount() != 0 {
		t.Errorf("weak count = %d", h.WeakCount())
	}
}

func TestZeroHandle(t *testing.T) {
	var h Handle[int]
	if _, ok := h.Get(); ok || h.Release() || !h.Clone().IsZero() || h.Path() != "" {
		t.Error("zero handle is not inert")
	}
	if _, ok := h.Downgrade().Upgrade(); ok {
		t.Error("zero weak handle upgraded")
	}
}

func TestConcurrentCloneRelease(t *testing.T) {
	h := NewHandle("shared")
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				h.Clone().Release()
			}
		}()
	}
	wg.Wait()
	if h.StrongCount() != 1 {
		t.Errorf("strong = %d, want 1", h.StrongCount())
	}
}

func TestFontLoader(t *testing.T) {
	s := NewServer(fstest.MapFS{"a.ttf": {Data: []byte{0, 1, 0, 0}}, "b.otf": {}})
	s.RegisterFontLoaders()
	h, err := Load[[]byte](s, "a.ttf")
	if err != nil {
		t.Fatal(err)
	}
	if data, _ := h.Get(); len(data) != 4 {
		t.Errorf("font bytes = %v", data)
	}
	if _, err := Load[[]byte](s, "b.otf"); !errors.Is(err, ErrLoader) {
		t.Errorf("empty font err = %v", err)
	}
}
