// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
)

func serveCmd(cfg *Config) *cobra.Command {
	var (
		listen string
		fps    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Animate a clock and serve engine metrics",
		Long: `Runs frames at a fixed rate, updating a clock label and recoloring a
swatch, and serves the engine's prometheus metrics on /metrics until
interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, listen, fps)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:9090", "Metrics listen address")
	cmd.Flags().IntVar(&fps, "fps", 30, "Frames per second")
	return cmd
}

func runServe(ctx context.Context, cfg *Config, listen string, fps int) error {
	if fps < 1 {
		return fmt.Errorf("--fps must be positive, got %d", fps)
	}
	s, err := open(cfg, ui.WithInstrumentation(true))
	if err != nil {
		return err
	}
	defer s.Close()

	b := s.Builder()
	if _, err := s.Mount(b.Column(
		b.Text("00:00:00").ID("clock"),
		b.Container().ID("swatch").Size(64, 64),
	).Padding(16)); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(s.Metrics(), collectors.NewGoCollector())
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	fmt.Printf("serving metrics on http://%s/metrics\n", listen)

	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()
	hue := float32(0)
	for {
		select {
		case <-ctx.Done():
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		case err := <-errc:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case now := <-tick.C:
			s.SetText("clock", now.Format("15:04:05"))
			hue += 0.01
			s.Queue(func(t *tree.Tree) {
				if id, ok := t.Lookup("swatch"); ok {
					t.UpdateStyle(id, func(st *style.Style) { st.Background = wheel(hue) })
				}
			})
			if _, err := s.FrameContext(ctx, nil, nil); err != nil {
				return err
			}
		}
	}
}

// wheel returns a saturated color at position h on the color wheel.
func wheel(h float32) style.Color {
	h -= float32(int(h))
	x := h * 6
	f := x - float32(int(x))
	switch int(x) {
	case 0:
		return style.RGB(1, f, 0)
	case 1:
		return style.RGB(1-f, 1, 0)
	case 2:
		return style.RGB(0, 1, f)
	case 3:
		return style.RGB(0, 1-f, 1)
	case 4:
		return style.RGB(f, 0, 1)
	default:
		return style.RGB(1, 0, 1-f)
	}
}
