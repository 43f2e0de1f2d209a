// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package style

import (
	"fmt"

	"github.com/gogpu/ui/geom"
)

// Unit is the unit of a [Length].
type Unit uint8

const (
	// UnitAuto defers to the layout solver. It is the zero value.
	UnitAuto Unit = iota
	// UnitPx is logical pixels.
	UnitPx
	// UnitPercent is a percentage of the parent size on the same axis.
	UnitPercent
)

// Length is a simple dimension: pixels, percent of parent, or auto.
type Length struct {
	Unit  Unit
	Value float32
}

// Px returns a pixel length.
func Px(v float32) Length { return Length{Unit: UnitPx, Value: v} }

// Percent returns a length relative to the parent.
func Percent(v float32) Length { return Length{Unit: UnitPercent, Value: v} }

// Auto returns the auto length.
func Auto() Length { return Length{} }

// IsAuto reports whether l is auto.
func (l Length) IsAuto() bool { return l.Unit == UnitAuto }

// Constraint lifts l into a constraint expression.
func (l Length) Constraint() Constraint {
	switch l.Unit {
	case UnitPx:
		return Constraint{kind: kindPx, value: l.Value}
	case UnitPercent:
		return Constraint{kind: kindPercent, value: l.Value}
	default:
		return Constraint{}
	}
}

func (l Length) String() string {
	switch l.Unit {
	case UnitPx:
		return fmt.Sprintf("%gpx", l.Value)
	case UnitPercent:
		return fmt.Sprintf("%g%%", l.Value)
	default:
		return "auto"
	}
}

type constraintKind uint8

const (
	kindAuto constraintKind = iota
	kindPx
	kindPercent
	kindVw
	kindVh
	kindVmin
	kindVmax
	kindCalc
	kindMin
	kindMax
	kindClamp
)

// CalcOp is the operator of a Calc constraint.
type CalcOp uint8

const (
	OpAdd CalcOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op CalcOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	default:
		return "/"
	}
}

// Constraint is a dimension expression resolved against a [ResolveContext].
// The zero value is auto.
type Constraint struct {
	kind  constraintKind
	op    CalcOp
	value float32
	args  []Constraint
}

// Len is shorthand for l.Constraint().
func Len(l Length) Constraint { return l.Constraint() }

// PxC returns a pixel constraint.
func PxC(v float32) Constraint { return Constraint{kind: kindPx, value: v} }

// PercentC returns a percent-of-parent constraint.
func PercentC(v float32) Constraint { return Constraint{kind: kindPercent, value: v} }

// Vw is a percentage of the viewport width.
func Vw(v float32) Constraint { return Constraint{kind: kindVw, value: v} }

// Vh is a percentage of the viewport height.
func Vh(v float32) Constraint { return Constraint{kind: kindVh, value: v} }

// Vmin is a percentage of the smaller viewport dimension.
func Vmin(v float32) Constraint { return Constraint{kind: kindVmin, value: v} }

// Vmax is a percentage of the larger viewport dimension.
func Vmax(v float32) Constraint { return Constraint{kind: kindVmax, value: v} }

// Calc combines two constraints with op.
func Calc(a Constraint, op CalcOp, b Constraint) Constraint {
	return Constraint{kind: kindCalc, op: op, args: []Constraint{a, b}}
}

// Min resolves to the smallest resolvable argument.
func Min(cs ...Constraint) Constraint { return Constraint{kind: kindMin, args: cs} }

// Max resolves to the largest resolvable argument.
func Max(cs ...Constraint) Constraint { return Constraint{kind: kindMax, args: cs} }

// Clamp resolves to val bounded by lo and hi.
func Clamp(lo, val, hi Constraint) Constraint {
	return Constraint{kind: kindClamp, args: []Constraint{lo, val, hi}}
}

// IsAuto reports whether c is the auto constraint.
func (c Constraint) IsAuto() bool { return c.kind == kindAuto }

// AsLength reports c as a plain Length when it is px, percent or auto.
func (c Constraint) AsLength() (Length, bool) {
	switch c.kind {
	case kindAuto:
		return Length{}, true
	case kindPx:
		return Px(c.value), true
	case kindPercent:
		return Percent(c.value), true
	}
	return Length{}, false
}

// Equal reports structural equality.
func (c Constraint) Equal(o Constraint) bool {
	if c.kind != o.kind || c.op != o.op || c.value != o.value || len(c.args) != len(o.args) {
		return false
	}
	for i := range c.args {
		if !c.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

func (c Constraint) String() string {
	switch c.kind {
	case kindPx:
		return fmt.Sprintf("%gpx", c.value)
	case kindPercent:
		return fmt.Sprintf("%g%%", c.value)
	case kindVw:
		return fmt.Sprintf("%gvw", c.value)
	case kindVh:
		return fmt.Sprintf("%gvh", c.value)
	case kindVmin:
		return fmt.Sprintf("%gvmin", c.value)
	case kindVmax:
		return fmt.Sprintf("%gvmax", c.value)
	case kindCalc:
		return fmt.Sprintf("calc(%v %v %v)", c.args[0], c.op, c.args[1])
	case kindMin:
		return fmt.Sprintf("min%v", c.args)
	case kindMax:
		return fmt.Sprintf("max%v", c.args)
	case kindClamp:
		return fmt.Sprintf("clamp(%v, %v, %v)", c.args[0], c.args[1], c.args[2])
	default:
		return "auto"
	}
}

// ResolveContext carries what a constraint may be relative to.
type ResolveContext struct {
	Viewport  geom.Size
	Parent    float32
	HasParent bool
}

// NewContext returns a context with a viewport and no parent size.
func NewContext(viewport geom.Size) ResolveContext {
	return ResolveContext{Viewport: viewport}
}

// WithParent returns a copy of ctx with the parent size set.
func (ctx ResolveContext) WithParent(p float32) ResolveContext {
	ctx.Parent = p
	ctx.HasParent = true
	return ctx
}

// Resolve evaluates c. The boolean is false when c is auto or depends on
// something ctx cannot supply, in which case the caller feeds auto to the
// solver.
func Resolve(c Constraint, ctx ResolveContext) (float32, bool) {
	switch c.kind {
	case kindPx:
		return c.value, true
	case kindPercent:
		if !ctx.HasParent {
			return 0, false
		}
		return ctx.Parent * c.value / 100, true
	case kindVw:
		return ctx.Viewport.W * c.value / 100, true
	case kindVh:
		return ctx.Viewport.H * c.value / 100, true
	case kindVmin:
		return min(ctx.Viewport.W, ctx.Viewport.H) * c.value / 100, true
	case kindVmax:
		return max(ctx.Viewport.W, ctx.Viewport.H) * c.value / 100, true
	case kindCalc:
		a, ok := Resolve(c.args[0], ctx)
		if !ok {
			return 0, false
		}
		b, ok := Resolve(c.args[1], ctx)
		if !ok {
			return 0, false
		}
		switch c.op {
		case OpAdd:
			return a + b, true
		case OpSub:
			return a - b, true
		case OpMul:
			return a * b, true
		default:
			return a / b, true
		}
	case kindMin, kindMax:
		var out float32
		found := false
		for _, arg := range c.args {
			v, ok := Resolve(arg, ctx)
			if !ok {
				continue
			}
			switch {
			case !found:
				out = v
			case c.kind == kindMin && v < out:
				out = v
			case c.kind == kindMax && v > out:
				out = v
			}
			found = true
		}
		return out, found
	case kindClamp:
		lo, ok1 := Resolve(c.args[0], ctx)
		v, ok2 := Resolve(c.args[1], ctx)
		hi, ok3 := Resolve(c.args[2], ctx)
		if !ok1 || !ok2 || !ok3 {
			return 0, false
		}
		return max(lo, min(v, hi)), true
	default:
		return 0, false
	}
}

// CanResolve reports whether Resolve would succeed, without computing
// the value.
func CanResolve(c Constraint, ctx ResolveContext) bool {
	switch c.kind {
	case kindPx, kindVw, kindVh, kindVmin, kindVmax:
		return true
	case kindPercent:
		return ctx.HasParent
	case kindCalc, kindClamp:
		for _, arg := range c.args {
			if !CanResolve(arg, ctx) {
				return false
			}
		}
		return true
	case kindMin, kindMax:
		for _, arg := range c.args {
			if CanResolve(arg, ctx) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
