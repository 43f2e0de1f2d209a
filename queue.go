// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package ui

import (
	"sync"

	"github.com/gogpu/ui/tree"
)

// updateQueue collects tree updates from any goroutine for the UI thread.
type updateQueue struct {
	mu      sync.Mutex
	pending []func(*tree.Tree)
	spare   []func(*tree.Tree)
}

func (q *updateQueue) push(fn func(*tree.Tree)) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
}

// run applies the queued updates in order. Updates queued while running
// wait for the next call.
func (q *updateQueue) run(t *tree.Tree) int {
	q.mu.Lock()
	batch := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, fn := range batch {
		fn(t)
	}
	clear(batch)
	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
	return len(batch)
}

func (q *updateQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Queued returns the number of updates waiting for the next Frame.
func (e *Engine) Queued() int { return e.queue.len() }
