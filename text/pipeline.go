// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package text

import (
	"context"
	"errors"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ui/internal/lru"
)

// ErrNilShaper is returned when a shaping call is given a nil ShapeFunc.
var ErrNilShaper = errors.New("text: nil shape func")

// Stats reports pipeline cache behaviour.
type Stats struct {
	Hits      uint64
	Misses    uint64
	CacheSize int
	Pending   int
	Completed int
	Evictions uint64
}

// HitRate returns hits as a percentage of lookups.
func (s Stats) HitRate() float32 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float32(float64(s.Hits) / float64(total) * 100)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWidthBucket sets the wrap-width bucket size in pixels.
func WithWidthBucket(px float32) Option {
	return func(p *Pipeline) {
		if px > 0 {
			p.bucketPx = px
		}
	}
}

// WithCacheLimit bounds the number of cached results. When the cache grows
// past the limit, the least recently used results that nobody else holds
// are evicted. Zero means unbounded.
func WithCacheLimit(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.limit = n
		}
	}
}

type cacheEntry struct {
	result *ShapedResult
	elem   *lru.Elem[ShapeKey]
}

// Pipeline queues shaping requests and caches their results.
//
// Pipeline is not safe for concurrent use. ProcessPendingParallel shapes on
// worker goroutines but mutates the pipeline only from the caller.
type Pipeline struct {
	bucketPx float32
	limit    int

	nextID    RequestID
	pending   []Request
	completed map[RequestID]*ShapedResult

	cache   map[ShapeKey]*cacheEntry
	recency lru.List[ShapeKey]

	hits      uint64
	misses    uint64
	evictions uint64
}

// NewPipeline creates an empty pipeline.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		bucketPx:  WidthBucketPx,
		completed: make(map[RequestID]*ShapedResult),
		cache:     make(map[ShapeKey]*cacheEntry),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WidthBucketPx returns the configured bucket size.
func (p *Pipeline) WidthBucketPx() float32 { return p.bucketPx }

// Key computes the cache key for a request with the pipeline's bucketing.
func (p *Pipeline) Key(text string, fontID uint32, size, wrap float32, hasWrap bool) ShapeKey {
	return NewShapeKey(text, fontID, size, wrap, hasWrap, p.bucketPx)
}

// RequestShape enqueues text for shaping. On a cache hit the result is
// completed immediately; otherwise it completes in the next ProcessPending.
func (p *Pipeline) RequestShape(text string, fontID uint32, size, wrap float32, hasWrap bool) RequestID {
	p.nextID++
	id := p.nextID
	key := p.Key(text, fontID, size, wrap, hasWrap)

	if e, ok := p.cache[key]; ok {
		p.hits++
		p.recency.Touch(e.elem)
		p.complete(id, e.result)
		return id
	}
	p.misses++
	p.pending = append(p.pending, Request{
		ID:        id,
		Text:      text,
		FontID:    fontID,
		Size:      size,
		WrapWidth: wrap,
		HasWrap:   hasWrap,
		Key:       key,
	})
	return id
}

// Pending returns the number of queued requests.
func (p *Pipeline) Pending() int { return len(p.pending) }

// ProcessPending shapes every queued request with fn. Requests sharing a
// key are shaped once. It returns the number of requests completed.
func (p *Pipeline) ProcessPending(fn ShapeFunc) int {
	if fn == nil || len(p.pending) == 0 {
		return 0
	}
	n := 0
	for _, req := range p.pending {
		res := p.cached(req.Key)
		if res == nil {
			inner := fn(req.Text, req.FontID, req.Size, req.WrapWidth, req.HasWrap)
			res = p.insert(req.ID, req.Key, inner)
		}
		p.complete(req.ID, res)
		n++
	}
	clear(p.pending)
	p.pending = p.pending[:0]
	p.enforceLimit()
	return n
}

// ProcessPendingParallel is ProcessPending with shaping spread over up to
// workers goroutines. Results may be produced in any order. When ctx is
// cancelled before shaping finishes, nothing is inserted and the requests
// stay queued.
func (p *Pipeline) ProcessPendingParallel(ctx context.Context, fn ShapeFunc, workers int) (int, error) {
	if fn == nil {
		return 0, ErrNilShaper
	}
	if len(p.pending) == 0 {
		return 0, nil
	}

	// One job per distinct uncached key.
	jobs := make([]Request, 0, len(p.pending))
	index := make(map[ShapeKey]int, len(p.pending))
	for _, req := range p.pending {
		if _, ok := p.cache[req.Key]; ok {
			continue
		}
		if _, ok := index[req.Key]; ok {
			continue
		}
		index[req.Key] = len(jobs)
		jobs = append(jobs, req)
	}

	out := make([]Inner, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			req := &jobs[i]
			out[i] = fn(req.Text, req.FontID, req.Size, req.WrapWidth, req.HasWrap)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for i := range jobs {
		p.insert(jobs[i].ID, jobs[i].Key, out[i])
	}
	n := 0
	for _, req := range p.pending {
		p.complete(req.ID, p.cached(req.Key))
		n++
	}
	clear(p.pending)
	p.pending = p.pending[:0]
	p.enforceLimit()
	Logger().Debug("text: parallel shaping done", "requests", n, "shaped", len(jobs), "workers", workers)
	return n, nil
}

// TakeCompleted removes and returns a completed result. The caller owns
// one reference and must Release it when done.
func (p *Pipeline) TakeCompleted(id RequestID) (*ShapedResult, bool) {
	res, ok := p.completed[id]
	if ok {
		delete(p.completed, id)
	}
	return res, ok
}

// Cancel abandons request id. A queued request is dropped before it is
// shaped; a completed one has its reference released. It reports whether
// anything was dropped.
func (p *Pipeline) Cancel(id RequestID) bool {
	if res, ok := p.completed[id]; ok {
		delete(p.completed, id)
		res.Release()
		return true
	}
	n := len(p.pending)
	p.pending = slices.DeleteFunc(p.pending, func(r Request) bool { return r.ID == id })
	return len(p.pending) != n
}

// GetCompleted returns a completed result without removing it.
func (p *Pipeline) GetCompleted(id RequestID) (*ShapedResult, bool) {
	res, ok := p.completed[id]
	return res, ok
}

// Measure returns the shaped output for text, shaping synchronously on a
// cache miss. The result is cached as if it had been requested.
func (p *Pipeline) Measure(text string, fontID uint32, size, wrap float32, hasWrap bool, fn ShapeFunc) (Inner, bool) {
	res, ok := p.Shape(text, fontID, size, wrap, hasWrap, fn)
	if !ok {
		return Inner{}, false
	}
	return res.Inner, true
}

// Shape is Measure returning the cached result itself. The cache keeps
// ownership; callers that hold the result past the frame must Retain it.
func (p *Pipeline) Shape(text string, fontID uint32, size, wrap float32, hasWrap bool, fn ShapeFunc) (*ShapedResult, bool) {
	key := p.Key(text, fontID, size, wrap, hasWrap)
	if e, ok := p.cache[key]; ok {
		p.hits++
		p.recency.Touch(e.elem)
		return e.result, true
	}
	if fn == nil {
		return nil, false
	}
	p.misses++
	p.nextID++
	res := p.insert(p.nextID, key, fn(text, fontID, size, wrap, hasWrap))
	p.enforceLimit()
	return res, true
}

// PruneCache evicts cached results that are held only by the cache and
// were rendered fewer than minRenderCount times. It returns the number of
// evicted entries.
func (p *Pipeline) PruneCache(minRenderCount uint32) int {
	n := 0
	for e := range p.recency.Backward() {
		ce := p.cache[e.Key]
		if ce == nil || !ce.result.unique() || ce.result.RenderCount() >= minRenderCount {
			continue
		}
		p.evict(e.Key, ce)
		n++
	}
	if n > 0 {
		Logger().Debug("text: pruned shaping cache", "evicted", n, "remaining", len(p.cache))
	}
	return n
}

// Clear drops the cache, pending requests and completed results.
func (p *Pipeline) Clear() {
	for _, res := range p.completed {
		res.Release()
	}
	clear(p.completed)
	clear(p.cache)
	p.recency.Clear()
	clear(p.pending)
	p.pending = p.pending[:0]
}

// Stats returns cache counters.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Hits:      p.hits,
		Misses:    p.misses,
		CacheSize: len(p.cache),
		Pending:   len(p.pending),
		Completed: len(p.completed),
		Evictions: p.evictions,
	}
}

func (p *Pipeline) cached(key ShapeKey) *ShapedResult {
	if e, ok := p.cache[key]; ok {
		return e.result
	}
	return nil
}

func (p *Pipeline) insert(id RequestID, key ShapeKey, inner Inner) *ShapedResult {
	if e, ok := p.cache[key]; ok {
		p.recency.Touch(e.elem)
		return e.result
	}
	res := newResult(id, key, inner)
	p.cache[key] = &cacheEntry{result: res, elem: p.recency.PushFront(key)}
	return res
}

// complete hands a reference to the completed map. A result already
// completed under id is released first.
func (p *Pipeline) complete(id RequestID, res *ShapedResult) {
	if old, ok := p.completed[id]; ok {
		old.Release()
	}
	p.completed[id] = res.Retain()
}

func (p *Pipeline) evict(key ShapeKey, e *cacheEntry) {
	p.recency.Remove(e.elem)
	delete(p.cache, key)
	e.result.Release()
	p.evictions++
}

func (p *Pipeline) enforceLimit() {
	if p.limit <= 0 || len(p.cache) <= p.limit {
		return
	}
	for e := range p.recency.Backward() {
		if len(p.cache) <= p.limit {
			break
		}
		ce := p.cache[e.Key]
		if ce == nil || !ce.result.unique() {
			continue
		}
		p.evict(e.Key, ce)
	}
	if len(p.cache) > p.limit {
		Logger().Debug("text: cache over limit, entries still referenced", "size", len(p.cache), "limit", p.limit)
	}
}
