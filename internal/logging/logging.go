// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package logging holds the silent-by-default logger slot shared by every
// package that logs.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// Slot stores a logger atomically. The zero Slot logs nothing.
type Slot struct {
	p atomic.Pointer[slog.Logger]
}

// Load returns the current logger.
func (s *Slot) Load() *slog.Logger {
	if l := s.p.Load(); l != nil {
		return l
	}
	return nop
}

// Store replaces the logger. Nil restores silence.
func (s *Slot) Store(l *slog.Logger) {
	if l == nil {
		l = nop
	}
	s.p.Store(l)
}

var nop = Nop()
