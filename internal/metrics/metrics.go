// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package metrics exports per-frame engine statistics to prometheus.
//
// The engine calls Observe once per frame with a Snapshot; the Collector
// keeps running totals and the latest gauges and reports them whenever
// the registry is scraped.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/ui/atlas"
	"github.com/gogpu/ui/gpu"
	"github.com/gogpu/ui/layout"
	"github.com/gogpu/ui/render"
	"github.com/gogpu/ui/text"
)

const namespace = "ui"

// Snapshot is the state of one frame.
type Snapshot struct {
	Layout  layout.Metrics
	Text    text.Stats
	Render  render.FrameStats
	Atlas   []atlas.Stats
	Buffers map[string]gpu.BufferStats
}

// Collector implements prometheus.Collector over engine snapshots.
type Collector struct {
	mu sync.Mutex

	frames        uint64
	skipped       uint64
	layoutRuns    uint64
	measureCalls  uint64
	bufferWrites  uint64
	atlasUploads  uint64
	reusedNodes   uint64
	redrawnNodes  uint64
	last          Snapshot
	solverSeconds prometheus.Histogram

	framesDesc       *prometheus.Desc
	skippedDesc      *prometheus.Desc
	layoutRunsDesc   *prometheus.Desc
	measureDesc      *prometheus.Desc
	nodesDesc        *prometheus.Desc
	writesDesc       *prometheus.Desc
	uploadsDesc      *prometheus.Desc
	textLookupsDesc  *prometheus.Desc
	textEvictedDesc  *prometheus.Desc
	textEntriesDesc  *prometheus.Desc
	textPendingDesc  *prometheus.Desc
	batchesDesc      *prometheus.Desc
	instancesDesc    *prometheus.Desc
	atlasEntriesDesc *prometheus.Desc
	atlasUsageDesc   *prometheus.Desc
	bufferLenDesc    *prometheus.Desc
	bufferCapDesc    *prometheus.Desc
}

// New returns an empty collector.
func New() *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		solverSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_solver_seconds",
			Help:      "Time spent in the flex solver per layout run.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		framesDesc:       desc("frames_total", "Frames run."),
		skippedDesc:      desc("frames_skipped_total", "Frames whose render walk was skipped."),
		layoutRunsDesc:   desc("layout_runs_total", "Layout passes that ran the solver."),
		measureDesc:      desc("layout_measure_calls_total", "Measure callbacks made by the solver."),
		nodesDesc:        desc("render_nodes_total", "Nodes visited by the render walk.", "result"),
		writesDesc:       desc("buffer_writes_total", "Instance buffer write calls."),
		uploadsDesc:      desc("atlas_uploads_total", "Atlas regions written to the GPU."),
		textLookupsDesc:  desc("text_cache_lookups_total", "Shaping cache lookups.", "result"),
		textEvictedDesc:  desc("text_cache_evictions_total", "Shaping cache entries evicted."),
		textEntriesDesc:  desc("text_cache_entries", "Shaped results in the cache."),
		textPendingDesc:  desc("text_pending", "Shaping requests not yet processed."),
		batchesDesc:      desc("render_batches", "Draw batches in the last frame."),
		instancesDesc:    desc("render_instances", "Instances drawn in the last frame.", "kind"),
		atlasEntriesDesc: desc("atlas_entries", "Entries packed in an atlas page.", "page"),
		atlasUsageDesc:   desc("atlas_utilization_ratio", "Used fraction of an atlas page.", "page"),
		bufferLenDesc:    desc("buffer_instances", "Instances held by a buffer.", "buffer"),
		bufferCapDesc:    desc("buffer_capacity", "Instance capacity of a buffer.", "buffer"),
	}
}

// Observe records one frame.
func (c *Collector) Observe(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames++
	if s.Render.Skipped {
		c.skipped++
	}
	if !s.Layout.Skipped && s.Layout.LayoutRuns > 0 {
		c.layoutRuns += uint64(s.Layout.LayoutRuns) //nolint:gosec // counts are non-negative
		c.solverSeconds.Observe(s.Layout.SolverTime.Seconds())
	}
	c.measureCalls += uint64(s.Layout.MeasureCalls) //nolint:gosec // counts are non-negative
	c.bufferWrites += uint64(s.Render.Writes)       //nolint:gosec // counts are non-negative
	c.atlasUploads += uint64(s.Render.AtlasUploads) //nolint:gosec // counts are non-negative
	c.reusedNodes += uint64(s.Render.Reused)        //nolint:gosec // counts are non-negative
	c.redrawnNodes += uint64(s.Render.Redrawn)      //nolint:gosec // counts are non-negative
	c.last = s
}

// Frames returns the number of observed frames.
func (c *Collector) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		c.framesDesc, c.skippedDesc, c.layoutRunsDesc, c.measureDesc,
		c.nodesDesc, c.writesDesc, c.uploadsDesc, c.textLookupsDesc,
		c.textEvictedDesc, c.textEntriesDesc, c.textPendingDesc, c.batchesDesc,
		c.instancesDesc, c.atlasEntriesDesc, c.atlasUsageDesc,
		c.bufferLenDesc, c.bufferCapDesc,
	} {
		ch <- d
	}
	c.solverSeconds.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	counter(c.framesDesc, c.frames)
	counter(c.skippedDesc, c.skipped)
	counter(c.layoutRunsDesc, c.layoutRuns)
	counter(c.measureDesc, c.measureCalls)
	counter(c.nodesDesc, c.reusedNodes, "reused")
	counter(c.nodesDesc, c.redrawnNodes, "redrawn")
	counter(c.writesDesc, c.bufferWrites)
	counter(c.uploadsDesc, c.atlasUploads)

	t := c.last.Text
	counter(c.textLookupsDesc, t.Hits, "hit")
	counter(c.textLookupsDesc, t.Misses, "miss")
	counter(c.textEvictedDesc, t.Evictions)
	gauge(c.textEntriesDesc, float64(t.CacheSize))
	gauge(c.textPendingDesc, float64(t.Pending))

	r := c.last.Render
	gauge(c.batchesDesc, float64(r.Batches))
	gauge(c.instancesDesc, float64(r.Quads), "quad")
	gauge(c.instancesDesc, float64(r.Sprites), "sprite")
	gauge(c.instancesDesc, float64(r.Glyphs), "glyph")

	for i, a := range c.last.Atlas {
		page := strconv.Itoa(i)
		gauge(c.atlasEntriesDesc, float64(a.Entries), page)
		gauge(c.atlasUsageDesc, float64(a.Utilization())/100, page)
	}
	for name, b := range c.last.Buffers {
		gauge(c.bufferLenDesc, float64(b.Len), name)
		gauge(c.bufferCapDesc, float64(b.Capacity), name)
	}
	c.solverSeconds.Collect(ch)
}
