// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/style"
)

func counterCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "counter",
		Short: "Click a counter button once per frame",
		Long: `Builds a label and a button, then clicks the button every frame. The
label changes width only when the count gains a digit, so most frames
reshape one label and write one glyph range without running layout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCounter(cfg)
		},
	}
}

func runCounter(cfg *Config) error {
	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	n := 0
	b := s.Builder()
	root := b.Column(
		b.Text("count 0").ID("count"),
		b.Button("increment", func() {
			n++
			s.SetText("count", fmt.Sprintf("count %d", n))
		}).ID("inc"),
	).Padding(16).Gap(8).Style(func(st *style.Style) { st.AlignItems = style.AlignStart })
	if _, err := s.Mount(root); err != nil {
		return err
	}

	st, err := s.Frame(nil, nil)
	if err != nil {
		return err
	}
	printFrame("mount", st)

	btn, _ := s.Tree().Lookup("inc")
	click := []event.Event{
		event.MouseMoved{Pos: center(s.Tree(), btn)},
		event.MouseButton{Button: event.ButtonLeft, Pressed: true},
		event.MouseButton{Button: event.ButtonLeft},
	}
	for range cfg.Frames {
		if st, err = s.Frame(event.NewBatch(click...), nil); err != nil {
			return err
		}
		printFrame(fmt.Sprintf("count %d", n), st)
	}
	return nil
}
