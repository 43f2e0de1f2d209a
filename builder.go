// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"errors"
	"fmt"

	"github.com/gogpu/ui/geom"
	"github.com/gogpu/ui/plugin"
	"github.com/gogpu/ui/plugin/dock"
	"github.com/gogpu/ui/plugin/scroll"
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/tree"
	"github.com/gogpu/ui/widget"
)

// Builder errors.
var (
	// ErrPluginMissing is returned by Mount when a node needs a plugin
	// handle that the engine did not issue.
	ErrPluginMissing = errors.New("ui: plugin not added to this engine")
	// ErrDuplicateID is returned by Mount when two nodes share a name.
	ErrDuplicateID = errors.New("ui: duplicate widget id")
	// ErrStaleParent is returned by Append for a parent no longer in the
	// tree.
	ErrStaleParent = errors.New("ui: parent not in tree")
)

// Node is a widget under construction. Nodes are created by a Builder
// and inserted by Mount or Append.
type Node struct {
	widget   widget.Widget
	name     tree.WidgetID
	styles   []func(*style.Style)
	children []*Node
	after    []func(t *tree.Tree, id tree.NodeID)
	err      error
}

// Widget returns the widget the node inserts.
func (n *Node) Widget() widget.Widget { return n.widget }

// ID registers the node under name so it can be updated by name.
func (n *Node) ID(name string) *Node {
	n.name = tree.WidgetID(name)
	return n
}

// Style adjusts the node's style after insertion.
func (n *Node) Style(fn func(*style.Style)) *Node {
	if fn != nil {
		n.styles = append(n.styles, fn)
	}
	return n
}

// Grow sets the flex grow factor.
func (n *Node) Grow(f float32) *Node {
	return n.Style(func(s *style.Style) { s.Grow = f })
}

// Size fixes the node's size in logical pixels.
func (n *Node) Size(w, h float32) *Node {
	return n.Style(func(s *style.Style) { s.Size(style.PxC(w), style.PxC(h)) })
}

// Padding sets uniform padding in logical pixels.
func (n *Node) Padding(px float32) *Node {
	return n.Style(func(s *style.Style) { s.Padding = style.All(style.Px(px)) })
}

// Gap sets the space between children in logical pixels.
func (n *Node) Gap(px float32) *Node {
	return n.Style(func(s *style.Style) { s.Gap = style.Px(px) })
}

// Background sets the node's background color.
func (n *Node) Background(c style.Color) *Node {
	return n.Style(func(s *style.Style) { s.Background = c })
}

// Add appends children.
func (n *Node) Add(children ...*Node) *Node {
	n.children = append(n.children, children...)
	return n
}

func (n *Node) then(fn func(t *tree.Tree, id tree.NodeID)) *Node {
	n.after = append(n.after, fn)
	return n
}

// check collects the construction errors of the subtree. taken reports
// names already bound outside it.
func (n *Node) check(seen map[tree.WidgetID]bool, taken func(tree.WidgetID) bool) []error {
	var out []error
	if n.err != nil {
		out = append(out, n.err)
	}
	if n.name != "" {
		if seen[n.name] || (taken != nil && taken(n.name)) {
			out = append(out, fmt.Errorf("%w: %q", ErrDuplicateID, n.name))
		}
		seen[n.name] = true
	}
	for _, c := range n.children {
		out = append(out, c.check(seen, taken)...)
	}
	return out
}

// Builder creates nodes for an engine. Methods that need a plugin take
// its handle, so a missing plugin fails at Mount instead of drawing an
// unknown kind.
type Builder struct {
	e *Engine
}

// Builder returns a node builder for e.
func (e *Engine) Builder() *Builder { return &Builder{e: e} }

func node(w widget.Widget, children []*Node) *Node {
	return &Node{widget: w, children: children}
}

// Column stacks children top to bottom.
func (b *Builder) Column(children ...*Node) *Node { return node(&widget.Column{}, children) }

// Row places children left to right.
func (b *Builder) Row(children ...*Node) *Node { return node(&widget.Row{}, children) }

// Container groups children without a direction of its own.
func (b *Builder) Container(children ...*Node) *Node { return node(&widget.Container{}, children) }

// Text is a label at the default font size.
func (b *Builder) Text(s string) *Node { return node(widget.NewText(s, widget.DefaultFontSize), nil) }

// WrappedText is a label that wraps to its width.
func (b *Builder) WrappedText(s string) *Node {
	t := widget.NewText(s, widget.DefaultFontSize)
	t.Wrap = true
	return node(t, nil)
}

// Button is a push button calling onClick when clicked.
func (b *Builder) Button(label string, onClick func()) *Node {
	w := widget.NewButton(label)
	w.OnClick = onClick
	return node(w, nil)
}

// TextInput is a single line editable field.
func (b *Builder) TextInput(placeholder string) *Node {
	return node(widget.NewTextInput(placeholder), nil)
}

// Image loads the image at path through the engine's asset server and
// shows it at its natural size.
func (b *Builder) Image(path string) *Node {
	tex, size, err := b.e.LoadImage(path)
	n := node(widget.NewImage(tex, size), nil)
	n.err = err
	return n
}

// Texture shows an already registered texture at size.
func (b *Builder) Texture(texture uint32, size geom.Size) *Node {
	return node(widget.NewImage(texture, size), nil)
}

// Tooltip is a small floating label.
func (b *Builder) Tooltip(s string) *Node { return node(widget.NewTooltip(s), nil) }

// Scroll clips children and scrolls them with the wheel.
func (b *Builder) Scroll(children ...*Node) *Node {
	return node(&scroll.Container{}, children)
}

// ScrollView is a scroll container with a vertical scrollbar beside it.
// The container is returned as the first child of the row.
func (b *Builder) ScrollView(children ...*Node) *Node {
	bar := scroll.NewScrollbar(tree.NodeID{})
	view := b.Scroll(children...).Grow(1).then(func(_ *tree.Tree, id tree.NodeID) {
		bar.Target = id
	})
	return b.Row(view, node(bar, nil).Style(func(s *style.Style) {
		s.Width = style.PxC(8)
		s.AlignSelf = style.AlignStretch
	}))
}

// Splitter shares its space between first and second at ratio.
func (b *Builder) Splitter(h plugin.Handle[*dock.Plugin], ratio float32, first, second *Node) *Node {
	n := node(dock.NewSplitter(ratio), []*Node{first, second})
	return b.docked(h, n)
}

// Tabs shows one pane at a time under a strip of titles. There must be
// one title per pane.
func (b *Builder) Tabs(h plugin.Handle[*dock.Plugin], titles []string, panes ...*Node) *Node {
	n := node(dock.NewTabs(titles...), panes)
	if len(titles) != len(panes) {
		n.err = fmt.Errorf("ui: tabs: %d titles for %d panes", len(titles), len(panes))
	}
	return b.docked(h, n)
}

func (b *Builder) docked(h plugin.Handle[*dock.Plugin], n *Node) *Node {
	if !h.In(b.e.plugins) {
		n.err = errors.Join(n.err, fmt.Errorf("%w: dock", ErrPluginMissing))
	}
	return n.then(func(t *tree.Tree, id tree.NodeID) { dock.Apply(t, id) })
}

// Mount replaces the tree with root and applies the active theme. Nothing
// changes when the nodes carry errors.
func (e *Engine) Mount(root *Node) (tree.NodeID, error) {
	if err := errors.Join(root.check(make(map[tree.WidgetID]bool), nil)...); err != nil {
		return tree.NodeID{}, err
	}
	e.renderer.Forget()
	id := e.tree.Rebuild(root.widget)
	e.build(id, root)
	e.theme.Apply(e.tree)
	return id, nil
}

// Append inserts n as the last child of parent and themes it.
func (e *Engine) Append(parent tree.NodeID, n *Node) (tree.NodeID, error) {
	taken := func(name tree.WidgetID) bool {
		_, ok := e.tree.Lookup(name)
		return ok
	}
	if err := errors.Join(n.check(make(map[tree.WidgetID]bool), taken)...); err != nil {
		return tree.NodeID{}, err
	}
	id, ok := e.tree.InsertChild(parent, n.widget)
	if !ok {
		return tree.NodeID{}, ErrStaleParent
	}
	e.build(id, n)
	e.theme.Apply(e.tree)
	return id, nil
}

// build finishes the node inserted as id and inserts its subtree.
func (e *Engine) build(id tree.NodeID, n *Node) {
	if n.name != "" {
		e.tree.Register(n.name, id)
	}
	if len(n.styles) > 0 {
		e.tree.UpdateStyle(id, func(s *style.Style) {
			for _, fn := range n.styles {
				fn(s)
			}
		})
	}
	for _, c := range n.children {
		cid, _ := e.tree.InsertChild(id, c.widget)
		e.build(cid, c)
	}
	for _, fn := range n.after {
		fn(e.tree, id)
	}
}
