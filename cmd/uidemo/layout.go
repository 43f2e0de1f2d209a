// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/ui"
	"github.com/gogpu/ui/plugin/dock"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
)

func layoutCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the rects of a docked layout",
		Long: `Builds a toolbar above a splitter holding a scrolling list and a tab
stack, lays it out once and prints every node with its absolute rect in
logical pixels.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cfg)
		},
	}
}

func runLayout(cfg *Config) error {
	s, err := open(cfg, ui.WithInstrumentation(true))
	if err != nil {
		return err
	}
	defer s.Close()

	hd, err := ui.AddPlugin(s.Engine, &dock.Plugin{})
	if err != nil {
		return err
	}
	b := s.Builder()
	items := make([]*ui.Node, 20)
	for i := range items {
		items[i] = b.Text(fmt.Sprintf("item %02d", i))
	}
	root := b.Column(
		b.Row(b.Button("open", nil), b.Button("save", nil), b.TextInput("search")).Gap(4).Padding(4),
		b.Splitter(hd, 0.3,
			b.ScrollView(items...),
			b.Tabs(hd, []string{"editor", "preview"},
				b.WrappedText("The quick brown fox jumps over the lazy dog.").Padding(8),
				b.Tooltip("preview pane"),
			),
		).Grow(1),
	).Style(func(st *style.Style) { st.Size(style.PercentC(100), style.PercentC(100)) })
	if _, err := s.Mount(root); err != nil {
		return err
	}

	st, err := s.Frame(nil, nil)
	if err != nil {
		return err
	}
	t := s.Tree()
	t.Walk(func(id tree.NodeID, depth int) bool {
		w, _ := t.Widget(id)
		r, _ := t.Layout(id)
		label := string(w.Kind())
		if tc, ok := w.(interface{ Text() string }); ok && tc.Text() != "" {
			label += fmt.Sprintf(" %q", tc.Text())
		}
		fmt.Printf("%s%-*s %7.1f %7.1f %7.1f %7.1f\n",
			strings.Repeat("  ", depth), 40-2*depth, label, r.X, r.Y, r.W, r.H)
		return true
	})
	fmt.Printf("\n%d nodes, %d measure calls, solver %v\n",
		t.Len(), st.Layout.MeasureCalls, st.Layout.SolverTime)
	return nil
}
