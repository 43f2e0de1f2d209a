// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/ui/event"
	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
)

func hoverCmd(cfg *Config) *cobra.Command {
	var buttons int

	cmd := &cobra.Command{
		Use:   "hover",
		Short: "Sweep the pointer across a row of buttons",
		Long: `Moves the pointer from button to button. Each move changes the color of
the button left and the button entered, so every frame redraws two nodes
and patches their quads in place without layout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHover(cfg, buttons)
		},
	}
	cmd.Flags().IntVar(&buttons, "buttons", 6, "Number of buttons")
	return cmd
}

func runHover(cfg *Config, buttons int) error {
	if buttons < 1 {
		return fmt.Errorf("--buttons must be positive, got %d", buttons)
	}
	s, err := open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	b := s.Builder()
	row := b.Row().Gap(8).Padding(16).Style(func(st *style.Style) { st.AlignItems = style.AlignStart })
	for i := range buttons {
		row.Add(b.Button(fmt.Sprintf("button %d", i), nil))
	}
	root, err := s.Mount(row)
	if err != nil {
		return err
	}
	st, err := s.Frame(nil, nil)
	if err != nil {
		return err
	}
	printFrame("mount", st)

	ids := s.Tree().Children(root)
	for i := range cfg.Frames {
		id := ids[i%len(ids)]
		if st, err = s.Frame(event.NewBatch(event.MouseMoved{Pos: center(s.Tree(), id)}), nil); err != nil {
			return err
		}
		printFrame(fmt.Sprintf("over %d", i%len(ids)), st)
	}
	return nil
}

func center(t *tree.Tree, id tree.NodeID) geom.Point {
	r, _ := t.Layout(id)
	return geom.Pt(r.X+r.W/2, r.Y+r.H/2)
}
