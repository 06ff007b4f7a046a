// Package eventtest provides listeners for testing code that emits events.
package eventtest

import (
	"sync"

	"src.wkbench.dev/pkg/event"
)

// Recorder is a listener that records every event and query it receives, and
// answers queries with Allow. The zero value records and answers false; use
// NewRecorder for a Recorder that answers true.
type Recorder struct {
	mutex   sync.Mutex
	Allow   bool
	events  []event.Event
	queries []event.Query
}

// NewRecorder returns a Recorder that answers every query with allow.
func NewRecorder(allow bool) *Recorder { return &Recorder{Allow: allow} }

func (r *Recorder) Handle(e event.Event) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Answer(q event.Query) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.queries = append(r.queries, q)
	return r.Allow
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []event.Event {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]event.Event(nil), r.events...)
}

// Kinds returns the kinds of the recorded events, in order.
func (r *Recorder) Kinds() []event.Kind {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	kinds := make([]event.Kind, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// Queries returns a copy of the recorded queries.
func (r *Recorder) Queries() []event.Query {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]event.Query(nil), r.queries...)
}

// Count returns how many events of the given kind were recorded.
func (r *Recorder) Count(k event.Kind) int {
	n := 0
	for _, kind := range r.Kinds() {
		if kind == k {
			n++
		}
	}
	return n
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events, r.queries = nil, nil
}
