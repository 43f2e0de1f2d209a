// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package event

import (
	"strconv"
	"strings"
)

// KeyCode is a layout-independent key.
type KeyCode uint16

// Key codes.
const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeySpace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

var keyNames = [...]string{
	KeyUnknown:   "Unknown",
	KeyEscape:    "Escape",
	KeyEnter:     "Enter",
	KeyTab:       "Tab",
	KeyBackspace: "Backspace",
	KeyDelete:    "Delete",
	KeySpace:     "Space",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyHome:      "Home",
	KeyEnd:       "End",
	KeyPageUp:    "PageUp",
	KeyPageDown:  "PageDown",
}

func (k KeyCode) String() string {
	switch {
	case int(k) < len(keyNames) && keyNames[k] != "":
		return keyNames[k]
	case k >= KeyF1 && k <= KeyF12:
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	case k >= KeyA && k <= KeyZ:
		return string(rune('A' + k - KeyA))
	case k >= Key0 && k <= Key9:
		return string(rune('0' + k - Key0))
	}
	return "Key(" + strconv.Itoa(int(k)) + ")"
}

// ParseKey is the inverse of KeyCode.String, case-insensitive.
func ParseKey(s string) (KeyCode, bool) {
	for k := KeyUnknown + 1; k <= Key9; k++ {
		if strings.EqualFold(k.String(), s) {
			return k, true
		}
	}
	return KeyUnknown, false
}

// Modifiers is a set of modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether every modifier of o is held.
func (m Modifiers) Has(o Modifiers) bool { return m&o == o }

func (m Modifiers) String() string {
	if m == 0 {
		return ""
	}
	var parts []string
	for _, p := range []struct {
		m    Modifiers
		name string
	}{{ModCtrl, "Ctrl"}, {ModAlt, "Alt"}, {ModShift, "Shift"}, {ModSuper, "Super"}} {
		if m.Has(p.m) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseChord parses "Ctrl+Shift+F12" style key chords.
func ParseChord(s string) (KeyCode, Modifiers, bool) {
	parts := strings.Split(s, "+")
	var mods Modifiers
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mods |= ModCtrl
		case "alt", "option":
			mods |= ModAlt
		case "shift":
			mods |= ModShift
		case "super", "cmd", "meta":
			mods |= ModSuper
		default:
			return KeyUnknown, 0, false
		}
	}
	k, ok := ParseKey(strings.TrimSpace(parts[len(parts)-1]))
	return k, mods, ok
}
