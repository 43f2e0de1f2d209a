// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package theme

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a theme file when it changes. Reloads are delivered on
// a one-slot channel that keeps only the newest theme, so the UI thread
// can Poll it once per frame.
type Watcher struct {
	path   string
	fw     *fsnotify.Watcher
	themes chan *Theme
	errs   chan error
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// Watch starts watching path. The directory is watched rather than the
// file so editors that replace the file by rename are seen.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("theme: watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("theme: watch %s: %w", path, err)
	}
	w := &Watcher{
		path:   abs,
		fw:     fw,
		themes: make(chan *Theme, 1),
		errs:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Themes delivers reloaded themes.
func (w *Watcher) Themes() <-chan *Theme { return w.themes }

// Errors delivers reload and watch errors. Only the newest is kept.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Poll returns a reloaded theme without blocking.
func (w *Watcher) Poll() (*Theme, bool) {
	select {
	case th := <-w.themes:
		return th, true
	default:
		return nil, false
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fw.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			th, err := Load(w.path)
			if err != nil {
				Logger().Warn("theme: reload failed", "path", w.path, "err", err)
				latest(w.errs, err)
				continue
			}
			latest(w.themes, th)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			Logger().Warn("theme: watch error", "err", err)
			latest(w.errs, err)
		}
	}
}

// latest sends v on a one-slot channel, replacing an unread value.
func latest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
