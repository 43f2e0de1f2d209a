// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package asset loads files into typed, reference counted handles.
//
// A Server maps file extensions to loaders and caches what it loads:
// loading a path that is still held returns another handle to the same
// value. When the last strong handle is released the server forgets the
// asset and calls its unload hook.
//
//	srv := asset.NewServer(os.DirFS("assets"))
//	srv.RegisterImageLoaders()
//	icon, err := asset.Load[*image.RGBA](srv, "icons/save.png")
package asset

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// Loader decodes one asset from r. path is the name it was opened by.
type Loader interface {
	Load(r io.Reader, path string) (any, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(r io.Reader, path string) (any, error)

func (f LoaderFunc) Load(r io.Reader, path string) (any, error) { return f(r, path) }

// entry is the untyped view of a cached cell.
type entry interface {
	load() any
}

// Server loads and caches assets from a file system.
type Server struct {
	mu       sync.Mutex
	fsys     fs.FS
	loaders  map[string]Loader
	cache    map[string]entry
	onUnload func(path string, v any)
}

// NewServer returns a server reading from fsys, or from the working
// directory when fsys is nil. It has no loaders yet.
func NewServer(fsys fs.FS) *Server {
	if fsys == nil {
		fsys = os.DirFS(".")
	}
	return &Server{
		fsys:    fsys,
		loaders: make(map[string]Loader),
		cache:   make(map[string]entry),
	}
}

// Register makes l the loader for ext, with or without the leading dot.
// Extensions are matched case-insensitively. A later loader replaces an
// earlier one.
func (s *Server) Register(ext string, l Loader) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l == nil {
		delete(s.loaders, ext)
		return
	}
	s.loaders[ext] = l
}

// OnUnload sets a hook called with each asset whose last strong handle
// is released. It runs on the releasing goroutine.
func (s *Server) OnUnload(fn func(path string, v any)) {
	s.mu.Lock()
	s.onUnload = fn
	s.mu.Unlock()
}

// Len returns the number of loaded assets.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// Load returns a strong handle to the asset at p, loading it unless it is
// already held. Errors are *Error values.
func Load[T any](s *Server, p string) (Handle[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.cache[p]; ok {
		c, ok := e.(*cell[T])
		if !ok {
			return Handle[T]{}, &Error{Kind: TypeMismatch, Path: p,
				Msg: fmt.Sprintf("loaded as %T, requested %T", e.load(), *new(T))}
		}
		if h, ok := (WeakHandle[T]{c}).Upgrade(); ok {
			return h, nil
		}
	}

	if len(s.loaders) == 0 {
		return Handle[T]{}, &Error{Kind: NoLoader, Path: p}
	}
	ext := strings.ToLower(path.Ext(p))
	l, ok := s.loaders[ext]
	if !ok {
		msg := "extension " + ext
		if ext == "" {
			msg = "no extension"
		}
		return Handle[T]{}, &Error{Kind: NoLoaderForExtension, Path: p, Msg: msg}
	}

	f, err := s.fsys.Open(p)
	if err != nil {
		return Handle[T]{}, &Error{Kind: LoaderError, Path: p, Msg: "open", Err: err}
	}
	defer func() { _ = f.Close() }()
	v, err := l.Load(f, p)
	if err != nil {
		return Handle[T]{}, &Error{Kind: LoaderError, Path: p, Msg: "decode", Err: err}
	}
	t, ok := v.(T)
	if !ok {
		return Handle[T]{}, &Error{Kind: TypeMismatch, Path: p,
			Msg: fmt.Sprintf("loader returned %T, requested %T", v, *new(T))}
	}

	c := &cell[T]{value: t, path: p}
	c.strong.Store(1)
	c.drop = func() { s.unload(p, c) }
	s.cache[p] = c
	Logger().Debug("asset: loaded", "path", p, "type", fmt.Sprintf("%T", v))
	return Handle[T]{c}, nil
}

// Get returns another strong handle to a loaded asset. It reports false
// when p is not loaded or holds a different type.
func Get[T any](s *Server, p string) (Handle[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[p].(*cell[T])
	if !ok {
		return Handle[T]{}, false
	}
	return WeakHandle[T]{c}.Upgrade()
}

// unload forgets c once its last strong handle is gone. A newer load of
// the same path is left alone.
func (s *Server) unload(p string, c entry) {
	s.mu.Lock()
	if s.cache[p] != c {
		s.mu.Unlock()
		return
	}
	delete(s.cache, p)
	hook := s.onUnload
	s.mu.Unlock()
	Logger().Debug("asset: unloaded", "path", p)
	if hook != nil {
		hook(p, c.load())
	}
}
