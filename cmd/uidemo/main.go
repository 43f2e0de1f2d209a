// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command uidemo drives the retained UI engine on a headless device and
// reports what each frame did.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/gpu"
)

// Config holds the flags shared by every subcommand.
type Config struct {
	Debug  bool
	File   string
	Theme  string
	Width  uint32
	Height uint32
	Scale  float32
	Frames int
}

func main() {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "uidemo",
		Short: "Headless demos of the retained UI engine",
		Long: `uidemo builds small widget trees, feeds them synthetic input and prints
the per-frame statistics: how many nodes were redrawn, how many buffer
writes were issued and whether layout ran.`,
		Example: `  # Click a counter ten times
  uidemo counter --frames 10

  # Print the laid out rects of a nested layout at 2x scale
  uidemo layout --scale 2

  # Serve prometheus metrics while animating
  uidemo serve --listen :9090`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			level := slog.LevelWarn
			if cfg.Debug {
				level = slog.LevelDebug
			}
			ui.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&cfg.Debug, "debug", "d", false, "Enable debug logging")
	flags.StringVarP(&cfg.File, "config", "c", "", "Engine config file (TOML)")
	flags.StringVar(&cfg.Theme, "theme", "", "Theme file to load and watch")
	flags.Uint32Var(&cfg.Width, "width", 800, "Surface width in physical pixels")
	flags.Uint32Var(&cfg.Height, "height", 600, "Surface height in physical pixels")
	flags.Float32Var(&cfg.Scale, "scale", 1, "Surface scale factor")
	flags.IntVarP(&cfg.Frames, "frames", "n", 5, "Number of frames to run")

	rootCmd.AddCommand(counterCmd(&cfg), layoutCmd(&cfg), hoverCmd(&cfg), serveCmd(&cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session is an engine on its own headless device.
type session struct {
	*ui.Engine
	dev *gpu.Headless
}

func (s *session) Close() {
	s.Destroy()
	s.dev.Close()
}

// open creates an engine from the shared flags plus extra options.
func open(cfg *Config, extra ...ui.Option) (*session, error) {
	c := ui.DefaultConfig()
	if cfg.File != "" {
		var err error
		if c, err = ui.LoadConfig(cfg.File); err != nil {
			return nil, err
		}
	}
	if cfg.Theme != "" {
		c.Theme = cfg.Theme
	}
	opts := append(c.Options(), ui.WithViewport(cfg.Width, cfg.Height, cfg.Scale))
	opts = append(opts, extra...)

	dev, err := gpu.OpenHeadless()
	if err != nil {
		return nil, err
	}
	e, err := ui.New(dev.Device, opts...)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return &session{Engine: e, dev: dev}, nil
}

// printFrame writes one line of frame statistics.
func printFrame(label string, st ui.FrameStats) {
	layout := "skipped"
	if !st.Layout.Skipped {
		layout = fmt.Sprintf("%d measures", st.Layout.MeasureCalls)
	}
	fmt.Printf("frame %-3d %-14s layout=%-12s redrawn=%d/%d writes=%d glyphs=%d uploads=%d\n",
		st.Frame, label, layout, st.Redrawn, st.Nodes, st.Writes, st.Glyphs, st.AtlasUploads)
}
