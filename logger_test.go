// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/theme"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLoggerPropagates(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	for name, l := range map[string]*slog.Logger{
		"ui":     Logger(),
		"render": render.Logger(),
		"theme":  theme.Logger(),
	} {
		if !l.Enabled(context.Background(), slog.LevelDebug) {
			t.Errorf("%s logger not enabled after SetLogger", name)
		}
	}
	theme.Logger().Info("probe")
	if !strings.Contains(buf.String(), "probe") {
		t.Errorf("sub-package output missing: %q", buf.String())
	}

	SetLogger(nil)
	if render.Logger().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("SetLogger(nil) did not restore silence")
	}
}
