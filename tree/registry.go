// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tree

import (
	"github.com/gogpu/ui/style"
	"github.com/gogpu/ui/widget"
)

// Register names id. A name already in use moves to id. It fails for a
// stale id or an empty name.
func (t *Tree) Register(name WidgetID, id NodeID) bool {
	n := t.get(id)
	if n == nil || name == "" {
		return false
	}
	if old, ok := t.ids[name]; ok && old != id {
		if on := t.get(old); on != nil {
			on.id = ""
		}
	}
	if n.id != "" && n.id != name {
		delete(t.ids, n.id)
	}
	n.id = name
	t.ids[name] = id
	return true
}

// Unregister forgets name.
func (t *Tree) Unregister(name WidgetID) {
	if id, ok := t.ids[name]; ok {
		if n := t.get(id); n != nil {
			n.id = ""
		}
		delete(t.ids, name)
	}
}

// Lookup returns the node registered under name.
func (t *Tree) Lookup(name WidgetID) (NodeID, bool) {
	id, ok := t.ids[name]
	if !ok || !t.Contains(id) {
		return NodeID{}, false
	}
	return id, true
}

// UpdateTextByID is UpdateTextContent addressed by name.
func (t *Tree) UpdateTextByID(name WidgetID, s string) bool {
	id, ok := t.Lookup(name)
	if !ok {
		return false
	}
	return t.UpdateTextContent(id, s)
}

// UpdateColorByID is UpdateColor addressed by name.
func (t *Tree) UpdateColorByID(name WidgetID, c style.Color) bool {
	id, ok := t.Lookup(name)
	if !ok {
		return false
	}
	return t.UpdateColor(id, c)
}

// Rebuild clears the tree, invalidates every registered name and inserts
// a new root.
func (t *Tree) Rebuild(root widget.Widget) NodeID {
	t.Clear()
	return t.InsertRoot(root)
}
