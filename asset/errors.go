// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import "fmt"

// ErrorKind classifies asset errors.
type ErrorKind uint8

// Asset error kinds.
const (
	// NoLoader means the server has no loaders registered at all.
	NoLoader ErrorKind = iota + 1
	// NoLoaderForExtension means no loader handles the file extension.
	NoLoaderForExtension
	// TypeMismatch means the asset is not of the requested type.
	TypeMismatch
	// LoaderError means opening or decoding the asset failed.
	LoaderError
)

func (k ErrorKind) String() string {
	switch k {
	case NoLoader:
		return "no loader"
	case NoLoaderForExtension:
		return "no loader for extension"
	case TypeMismatch:
		return "type mismatch"
	case LoaderError:
		return "loader error"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrNoLoader             = &Error{Kind: NoLoader}
	ErrNoLoaderForExtension = &Error{Kind: NoLoaderForExtension}
	ErrTypeMismatch         = &Error{Kind: TypeMismatch}
	ErrLoader               = &Error{Kind: LoaderError}
)

// Error is returned by every failing asset operation.
type Error struct {
	Kind ErrorKind
	Path string
	Msg  string
	// Err is the underlying cause of a LoaderError.
	Err error
}

func (e *Error) Error() string {
	s := "asset: " + e.Kind.String()
	if e.Path != "" {
		s += ": " + e.Path
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
