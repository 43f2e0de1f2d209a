// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"log/slog"

	"github.com/gogpu/ui/internal/logging"
)

var logger logging.Slot

// SetLogger configures the package logger. Nil restores silence.
func SetLogger(l *slog.Logger) { logger.Store(l) }

// Logger returns the package logger.
func Logger() *slog.Logger { return logger.Load() }
