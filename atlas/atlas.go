// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package atlas packs glyph and image bitmaps into a single GPU texture.
//
// Rectangles are placed by a binary guillotine packer. Inserted bitmaps are
// buffered until [Atlas.Upload] writes each pending region with one
// texture write using the row stride of the atlas format.
package atlas

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ui/geom"
)

// Errors returned by New and CreateTexture.
var (
	ErrSizeNotPowerOfTwo = errors.New("atlas: size must be a power of two")
	ErrNilDevice         = errors.New("atlas: nil device")
)

// Key identifies an atlas entry.
type Key uint64

// KeyFromString hashes s with FNV-1a.
func KeyFromString(s string) Key {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return Key(h.Sum64())
}

// GlyphKey returns the key of a rasterized glyph at a bucketed size.
func GlyphKey(fontID, glyphID, sizeBucket uint32) Key {
	b := make([]byte, 0, 32)
	b = append(b, "glyph:"...)
	b = strconv.AppendUint(b, uint64(fontID), 10)
	b = append(b, '/')
	b = strconv.AppendUint(b, uint64(glyphID), 10)
	b = append(b, '@')
	b = strconv.AppendUint(b, uint64(sizeBucket), 10)
	return KeyFromString(string(b))
}

// Format is the texel format of the atlas texture.
type Format uint8

const (
	FormatR8 Format = iota
	FormatRGBA8
	FormatBGRA8
)

// BytesPerPixel returns the texel size.
func (f Format) BytesPerPixel() uint32 {
	if f == FormatR8 {
		return 1
	}
	return 4
}

// Coverage converts one-byte-per-texel glyph coverage into texels of f.
// Four-byte formats repeat the coverage in every channel, which is
// premultiplied white and keeps coverage readable from the red channel.
// R8 coverage is returned as is.
func (f Format) Coverage(cov []byte) []byte {
	if f == FormatR8 {
		return cov
	}
	out := make([]byte, 4*len(cov))
	for i, c := range cov {
		out[4*i], out[4*i+1], out[4*i+2], out[4*i+3] = c, c, c, c
	}
	return out
}

// TextureFormat returns the matching GPU format.
func (f Format) TextureFormat() gputypes.TextureFormat {
	switch f {
	case FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case FormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatR8Unorm
	}
}

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatBGRA8:
		return "bgra8"
	default:
		return "r8"
	}
}

// ParseFormat parses the names returned by Format.String.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "r8", "":
		return FormatR8, nil
	case "rgba8":
		return FormatRGBA8, nil
	case "bgra8":
		return FormatBGRA8, nil
	}
	return 0, fmt.Errorf("atlas: unknown format %q", s)
}

// Entry is a packed bitmap: its pixel rect and the rect normalized to the
// atlas size.
type Entry struct {
	Key  Key
	Rect Rect
	UV   geom.Rect
}

// Region is a pending upload.
type Region struct {
	Rect   Rect
	Pixels []byte
}

// Stats reports atlas occupancy.
type Stats struct {
	Size           uint32
	Entries        int
	UsedPixels     uint64
	PendingUploads int
	Uploads        uint64
	Rejected       uint64
}

// Utilization returns the used fraction of the atlas area in percent.
func (s Stats) Utilization() float32 {
	total := float64(s.Size) * float64(s.Size)
	if total == 0 {
		return 0
	}
	return float32(float64(s.UsedPixels) / total * 100)
}

// Atlas is a square texture atlas.
//
// Atlas is not safe for concurrent use.
type Atlas struct {
	size    uint32
	format  Format
	root    *node
	entries map[Key]Entry
	pending []Region
	used    uint64

	uploads  uint64
	rejected uint64

	texture hal.Texture
	view    hal.TextureView
}

// New creates an empty atlas of size x size texels.
func New(size uint32, format Format) (*Atlas, error) {
	if size == 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrSizeNotPowerOfTwo, size)
	}
	return &Atlas{
		size:    size,
		format:  format,
		root:    &node{rect: Rect{W: size, H: size}},
		entries: make(map[Key]Entry),
	}, nil
}

// Size returns the edge length in texels.
func (a *Atlas) Size() uint32 { return a.size }

// Format returns the texel format.
func (a *Atlas) Format() Format { return a.format }

// Lookup returns the entry for key.
func (a *Atlas) Lookup(key Key) (Entry, bool) {
	e, ok := a.entries[key]
	return e, ok
}

// Insert packs a w x h bitmap. A key already present returns the existing
// entry without touching the packer or pending uploads. Zero-area bitmaps
// get an empty entry and consume no space. The boolean is false when the
// atlas has no room or pixels is shorter than w*h texels.
func (a *Atlas) Insert(key Key, pixels []byte, w, h uint32) (Entry, bool) {
	if e, ok := a.entries[key]; ok {
		return e, true
	}
	if w == 0 || h == 0 {
		e := Entry{Key: key}
		a.entries[key] = e
		return e, true
	}
	need := uint64(w) * uint64(h) * uint64(a.format.BytesPerPixel())
	if uint64(len(pixels)) < need {
		Logger().Warn("atlas: bitmap shorter than its size", "key", key, "w", w, "h", h, "len", len(pixels))
		return Entry{}, false
	}

	n := a.root.insert(w, h, key)
	if n == nil {
		a.rejected++
		Logger().Warn("atlas: full", "size", a.size, "w", w, "h", h, "entries", len(a.entries))
		return Entry{}, false
	}

	s := float32(a.size)
	e := Entry{
		Key:  key,
		Rect: n.rect,
		UV:   geom.R(float32(n.rect.X)/s, float32(n.rect.Y)/s, float32(n.rect.W)/s, float32(n.rect.H)/s),
	}
	a.entries[key] = e
	a.used += n.rect.Area()

	buf := make([]byte, need)
	copy(buf, pixels)
	a.pending = append(a.pending, Region{Rect: n.rect, Pixels: buf})
	return e, true
}

// Pending returns the regions awaiting upload. The slice is owned by the
// atlas.
func (a *Atlas) Pending() []Region { return a.pending }

// Stats returns occupancy counters.
func (a *Atlas) Stats() Stats {
	return Stats{
		Size:           a.size,
		Entries:        len(a.entries),
		UsedPixels:     a.used,
		PendingUploads: len(a.pending),
		Uploads:        a.uploads,
		Rejected:       a.rejected,
	}
}

// Texture returns the GPU texture, or nil before CreateTexture.
func (a *Atlas) Texture() hal.Texture { return a.texture }

// View returns the GPU texture view, or nil before CreateTexture.
func (a *Atlas) View() hal.TextureView { return a.view }

// CreateTexture allocates the GPU texture. It is a no-op once created.
func (a *Atlas) CreateTexture(device hal.Device) error {
	if a.texture != nil {
		return nil
	}
	if device == nil {
		return ErrNilDevice
	}
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "ui_atlas",
		Size:          hal.Extent3D{Width: a.size, Height: a.size, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        a.format.TextureFormat(),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("atlas: create texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "ui_atlas_view",
		Format:        a.format.TextureFormat(),
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("atlas: create texture view: %w", err)
	}
	a.texture = tex
	a.view = view
	Logger().Debug("atlas: texture created", "size", a.size, "format", a.format)
	return nil
}

// Upload writes every pending region to the texture and clears the queue.
// Without a texture the regions stay pending. It returns the number of
// regions written; when a write fails, that region and the ones after it
// stay pending.
func (a *Atlas) Upload(queue hal.Queue) (int, error) {
	if a.texture == nil || queue == nil || len(a.pending) == 0 {
		return 0, nil
	}
	bpp := a.format.BytesPerPixel()
	for i, r := range a.pending {
		err := queue.WriteTexture(
			&hal.ImageCopyTexture{
				Texture:  a.texture,
				MipLevel: 0,
				Origin:   hal.Origin3D{X: r.Rect.X, Y: r.Rect.Y},
				Aspect:   gputypes.TextureAspectAll,
			},
			r.Pixels,
			&hal.ImageDataLayout{
				Offset:       0,
				BytesPerRow:  r.Rect.W * bpp,
				RowsPerImage: r.Rect.H,
			},
			&hal.Extent3D{Width: r.Rect.W, Height: r.Rect.H, DepthOrArrayLayers: 1},
		)
		if err != nil {
			a.uploads += uint64(i)
			rest := copy(a.pending, a.pending[i:])
			clear(a.pending[rest:])
			a.pending = a.pending[:rest]
			return i, fmt.Errorf("atlas: write region %v: %w", r.Rect, err)
		}
	}
	n := len(a.pending)
	a.uploads += uint64(n)
	clear(a.pending)
	a.pending = a.pending[:0]
	return n, nil
}

// Destroy releases GPU resources. The CPU-side packing state is kept.
func (a *Atlas) Destroy(device hal.Device) {
	if device == nil {
		return
	}
	if a.view != nil {
		device.DestroyTextureView(a.view)
		a.view = nil
	}
	if a.texture != nil {
		device.DestroyTexture(a.texture)
		a.texture = nil
	}
}
