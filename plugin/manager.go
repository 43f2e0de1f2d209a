// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plugin

import (
	"fmt"
	"reflect"
)

// Plugin extends a registry with widget kinds and interceptors.
type Plugin interface {
	Name() string
	Build(r *Registry) error
}

// Manager installs plugins into a registry, one per plugin type.
type Manager struct {
	reg     *Registry
	plugins map[reflect.Type]Plugin
	order   []Plugin
}

// NewManager returns a manager building into reg. A nil reg gets a fresh
// registry.
func NewManager(reg *Registry) *Manager {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Manager{reg: reg, plugins: make(map[reflect.Type]Plugin)}
}

// Registry returns the registry plugins build into.
func (m *Manager) Registry() *Registry { return m.reg }

// Plugins returns the added plugins in order.
func (m *Manager) Plugins() []Plugin { return m.order }

// Handle is a zero-sized token naming plugin P. APIs that need P take a
// Handle so the requirement shows in their signature, and check the
// manager they build into with [Handle.In].
type Handle[P Plugin] struct{}

// In reports whether P was added to m.
func (Handle[P]) In(m *Manager) bool { return m != nil && Has[P](m) }

// Add builds p into m's registry and returns a handle proving its
// presence. Adding a second plugin of the same type fails.
func Add[P Plugin](m *Manager, p P) (Handle[P], error) {
	typ := reflect.TypeFor[P]()
	if _, ok := m.plugins[typ]; ok {
		return Handle[P]{}, fmt.Errorf("%w: %s", ErrDuplicatePlugin, p.Name())
	}
	if err := p.Build(m.reg); err != nil {
		return Handle[P]{}, fmt.Errorf("plugin: build %s: %w", p.Name(), err)
	}
	m.plugins[typ] = p
	m.order = append(m.order, p)
	return Handle[P]{}, nil
}

// Has reports whether a plugin of type P was added.
func Has[P Plugin](m *Manager) bool {
	_, ok := m.plugins[reflect.TypeFor[P]()]
	return ok
}

// Get returns the added plugin of type P.
func Get[P Plugin](m *Manager) (P, bool) {
	p, ok := m.plugins[reflect.TypeFor[P]()].(P)
	return p, ok
}

// HandleFor returns a handle for an already added plugin of type P.
func HandleFor[P Plugin](m *Manager) (Handle[P], bool) {
	if !Has[P](m) {
		return Handle[P]{}, false
	}
	return Handle[P]{}, true
}
