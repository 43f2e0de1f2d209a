// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package event

import "iter"

// HandleStatus reports what a handler did with an event. Statuses only
// ever increase within a batch.
type HandleStatus uint8

const (
	// Ignored means the handler did not look at the event.
	Ignored HandleStatus = iota
	// Handled means the event was observed; later handlers still run.
	Handled
	// Consumed means no later handler sees the event.
	Consumed
)

func (s HandleStatus) String() string {
	switch s {
	case Ignored:
		return "Ignored"
	case Handled:
		return "Handled"
	case Consumed:
		return "Consumed"
	}
	return "HandleStatus(?)"
}

// Batch is the ordered input of one frame.
type Batch struct {
	events []Event
	status []HandleStatus
}

// NewBatch returns a batch holding evs in order.
func NewBatch(evs ...Event) *Batch {
	b := &Batch{}
	for _, e := range evs {
		b.Push(e)
	}
	return b
}

// Push appends e. Nil events are dropped.
func (b *Batch) Push(e Event) {
	if e == nil {
		return
	}
	b.events = append(b.events, e)
	b.status = append(b.status, Ignored)
}

// Len returns the number of events.
func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.events)
}

// At returns event i and its status.
func (b *Batch) At(i int) (Event, HandleStatus) {
	return b.events[i], b.status[i]
}

// Events iterates events with their current status.
func (b *Batch) Events() iter.Seq2[Event, HandleStatus] {
	return func(yield func(Event, HandleStatus) bool) {
		if b == nil {
			return
		}
		for i, e := range b.events {
			if !yield(e, b.status[i]) {
				return
			}
		}
	}
}

// Dispatch calls fn for each event not yet consumed, in input order, and
// raises the event's status to fn's result.
func (b *Batch) Dispatch(fn func(Event) HandleStatus) {
	if b == nil {
		return
	}
	for i, e := range b.events {
		if b.status[i] == Consumed {
			continue
		}
		if s := fn(e); s > b.status[i] {
			b.status[i] = s
		}
	}
}

// Reset empties the batch, keeping its storage.
func (b *Batch) Reset() {
	clear(b.events)
	b.events = b.events[:0]
	b.status = b.status[:0]
}
