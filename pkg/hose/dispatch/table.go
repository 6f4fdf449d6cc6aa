// Package dispatch provides the per-client callback table that fans
// stream events out to subscribers.
//
// Fan-out is synchronous and in registration order: the connection's
// reader goroutine invokes handlers inline, so the order handlers
// observe events matches the order values appeared on the wire. A slow
// handler slows the whole pipeline; there is no backpressure signal.
package dispatch

import (
	"sync"

	"github.com/hosecat/hose/pkg/hose/events"
)

// Handler processes one event.
type Handler func(events.Event)

type entry struct {
	id int
	h  Handler
}

// Table is a callback registry keyed by event kind. It is scoped to
// one client; there is no process-wide event bus.
type Table struct {
	mu       sync.RWMutex
	handlers map[events.Kind][]entry
	nextID   int
}

// NewTable creates an empty callback table.
func NewTable() *Table {
	return &Table{
		handlers: make(map[events.Kind][]entry),
	}
}

// Subscription identifies one registered handler so it can be
// cancelled.
type Subscription struct {
	table *Table
	kind  events.Kind
	id    int
}

// Cancel removes the handler. Events dispatched after Cancel returns
// do not reach it. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	if s == nil || s.table == nil {
		return
	}
	s.table.remove(s.kind, s.id)
	s.table = nil
}

// On registers a handler for an event kind. Multiple handlers for the
// same kind run in registration order.
func (t *Table) On(kind events.Kind, h Handler) *Subscription {
	if h == nil {
		return &Subscription{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.handlers[kind] = append(t.handlers[kind], entry{id: t.nextID, h: h})

	return &Subscription{table: t, kind: kind, id: t.nextID}
}

func (t *Table) remove(kind events.Kind, id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.handlers[kind]
	for i, e := range entries {
		if e.id == id {
			t.handlers[kind] = append(entries[:i:i], entries[i+1:]...)

			return
		}
	}
}

// Dispatch delivers an event to every handler registered for its kind,
// synchronously, in registration order.
func (t *Table) Dispatch(ev events.Event) {
	t.mu.RLock()
	entries := t.handlers[ev.Kind()]
	t.mu.RUnlock()

	for _, e := range entries {
		e.h(ev)
	}
}
