// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package middleware

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/ui/event"
)

// ErrBadChord is returned for chords ParseChord rejects.
var ErrBadChord = errors.New("middleware: invalid key chord")

// Bind handles a keybind. It returns true to consume the key.
type Bind func(c *Context) bool

type binding struct {
	key      event.KeyCode
	mods     event.Modifiers
	owner    string
	bind     Bind
	priority int
}

// KeybindRegistry maps key chords to binds. A chord may have several
// binds; Dispatch tries them by priority, highest first, then in
// registration order, and stops at the first that consumes the key.
//
// The zero value is ready to use.
type KeybindRegistry struct {
	binds []binding
}

// Register adds bind for key with exactly mods held.
func (r *KeybindRegistry) Register(key event.KeyCode, mods event.Modifiers, owner string, bind Bind, priority int) {
	if bind == nil {
		return
	}
	b := binding{key: key, mods: mods, owner: owner, bind: bind, priority: priority}
	i, _ := slices.BinarySearchFunc(r.binds, priority, func(e binding, p int) int {
		if e.priority >= p {
			return -1
		}
		return 1
	})
	r.binds = slices.Insert(r.binds, i, b)
}

// RegisterChord is Register with a chord such as "Ctrl+Shift+P".
func (r *KeybindRegistry) RegisterChord(chord, owner string, bind Bind, priority int) error {
	key, mods, ok := event.ParseChord(chord)
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadChord, chord)
	}
	r.Register(key, mods, owner, bind, priority)
	return nil
}

// Unregister removes every bind of owner and returns how many there were.
func (r *KeybindRegistry) Unregister(owner string) int {
	n := len(r.binds)
	r.binds = slices.DeleteFunc(r.binds, func(b binding) bool { return b.owner == owner })
	return n - len(r.binds)
}

// Len returns the number of binds.
func (r *KeybindRegistry) Len() int { return len(r.binds) }

// Owners returns the owners bound to key and mods in dispatch order.
func (r *KeybindRegistry) Owners(key event.KeyCode, mods event.Modifiers) []string {
	var out []string
	for _, b := range r.binds {
		if b.key == key && b.mods == mods {
			out = append(out, b.owner)
		}
	}
	return out
}

// Dispatch runs the binds of key and mods until one consumes it.
func (r *KeybindRegistry) Dispatch(c *Context, key event.KeyCode, mods event.Modifiers) bool {
	for _, b := range r.binds {
		if b.key == key && b.mods == mods && b.bind(c) {
			return true
		}
	}
	return false
}
