// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package event defines input events and routes them to widgets.
//
// The windowing layer delivers a [Batch] per frame. A [Dispatcher] walks
// the batch in input order, tracks hover, press and focus, and hands
// widget-specific behavior to a [Widgets] implementation (normally the
// plugin registry). Interceptors see every event first and may consume it.
package event

import "github.com/gogpu/ui/geom"

// Event is one input event. The concrete types below are the complete set.
type Event interface {
	isEvent()
}

// Button identifies a mouse button.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Buttons is a set of pressed mouse buttons.
type Buttons uint8

// Has reports whether b is in the set.
func (s Buttons) Has(b Button) bool { return s&(1<<b) != 0 }

func (s *Buttons) set(b Button, on bool) {
	if on {
		*s |= 1 << b
	} else {
		*s &^= 1 << b
	}
}

// MouseMoved reports the pointer position in logical pixels.
type MouseMoved struct {
	Pos geom.Point
}

// MouseButton reports a press or release.
type MouseButton struct {
	Button  Button
	Pressed bool
}

// MouseScroll reports a wheel or trackpad delta in logical pixels.
type MouseScroll struct {
	Delta geom.Point
}

// Key reports a physical key transition.
type Key struct {
	Code    KeyCode
	Mods    Modifiers
	Pressed bool
}

// Char reports text input.
type Char struct {
	Rune rune
}

// TouchPhase is the stage of a touch contact.
type TouchPhase uint8

const (
	TouchStarted TouchPhase = iota
	TouchMoved
	TouchEnded
	TouchCancelled
)

// Touch reports one contact point.
type Touch struct {
	ID    uint64
	Phase TouchPhase
	Pos   geom.Point
}

// Gesture reports a trackpad or multi-touch gesture delta.
type Gesture struct {
	Scale    float32
	Rotation float32
	Pan      geom.Point
}

// Resized reports a new physical surface size.
type Resized struct {
	Size geom.Size
}

// Focus reports window focus changes.
type Focus struct {
	Focused bool
}

// Close reports a close request.
type Close struct{}

// ThemeChanged reports a system light/dark switch.
type ThemeChanged struct {
	Dark bool
}

// ScaleFactorChanged reports a new device pixel ratio.
type ScaleFactorChanged struct {
	Scale float32
}

func (MouseMoved) isEvent()         {}
func (MouseButton) isEvent()        {}
func (MouseScroll) isEvent()        {}
func (Key) isEvent()                {}
func (Char) isEvent()               {}
func (Touch) isEvent()              {}
func (Gesture) isEvent()            {}
func (Resized) isEvent()            {}
func (Focus) isEvent()              {}
func (Close) isEvent()              {}
func (ThemeChanged) isEvent()       {}
func (ScaleFactorChanged) isEvent() {}
