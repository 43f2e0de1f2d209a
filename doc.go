// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package ui is a retained-mode user interface core for GPU applications.
//
// # Overview
//
// An Engine keeps a tree of widgets between frames. Every change marks
// only the nodes it affects with dirty flags, and each Frame does the
// least work those flags allow: a color change rewrites one instance, a
// same-width text change reshapes one label without layout, and an idle
// frame writes nothing to the GPU.
//
// # Quick Start
//
//	e, err := ui.New(device, ui.WithViewport(800, 600, 1))
//	if err != nil {
//	    return err
//	}
//	defer e.Destroy()
//
//	b := e.Builder()
//	n := 0
//	e.Mount(b.Column(
//	    b.Text("count 0").ID("count"),
//	    b.Button("inc", func() {
//	        n++
//	        e.SetText("count", fmt.Sprintf("count %d", n))
//	    }),
//	))
//
//	for !e.Closed() {
//	    pass := beginPass()
//	    if _, err := e.Frame(pollEvents(), pass); err != nil {
//	        return err
//	    }
//	    endPass(pass)
//	}
//
// # Frame Order
//
// Frame runs, in order: window events and widget input, updates queued
// with Queue, middleware Update, remeasurement of changed text, layout
// (unless a PreLayout middleware skips it), PostLayout, text shaping,
// PreRender, the PostRender overlay, instance upload, recording into the
// pass, and finally clearing the dirty flags.
//
// # Architecture
//
// The engine is assembled from packages that can be used on their own:
//   - tree, layout, dirty: the node arena, flex solver and change flags
//   - plugin, plugin/scroll, plugin/dock: widget kinds and their behavior
//   - event, middleware: input routing and frame hooks
//   - text, text/gotext, atlas: cached shaping and glyph packing
//   - render, gpu: batching, instance buffers and pipelines
//   - theme, asset: colors from files, images and fonts from disk
//
// # Coordinate System
//
// Layout and events use logical pixels with the origin at the top-left.
// The renderer scales to physical pixels by the viewport scale factor.
package ui

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
