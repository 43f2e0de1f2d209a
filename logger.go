// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"log/slog"

	"github.com/gogpu/ui/asset"
	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/internal/logging"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/text"
	"github.com/gogpu/ui/text/gotext"
	"github.com/gogpu/ui/theme"
)

// logger stores the active logger. Accessed atomically so that SetLogger
// can be called concurrently with logging from any goroutine.
var logger logging.Slot

// SetLogger configures the logger for ui and all its sub-packages.
// By default, ui produces no log output. Pass nil to restore silence.
//
// Log levels used by ui:
//   - [slog.LevelDebug]: per-frame diagnostics (buffer growth, solver time, pruned cache entries)
//   - [slog.LevelInfo]: lifecycle events (renderer created, theme loaded)
//   - [slog.LevelWarn]: non-fatal degradations (atlas full, shaper failure, unknown widget kind)
//
// Example:
//
//	ui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	l = logger.Load()
	for _, set := range []func(*slog.Logger){
		asset.SetLogger,
		atlas.SetLogger,
		gpu.SetLogger,
		render.SetLogger,
		text.SetLogger,
		gotext.SetLogger,
		theme.SetLogger,
	} {
		set(l)
	}
}

// Logger returns the current logger used by ui.
func Logger() *slog.Logger { return logger.Load() }
