package streaming

import (
	"sync"
	"sync/atomic"

	"github.com/hosecat/hose/pkg/hose/events"
)

// conn tracks one connection's teardown state. The endedOnce guard is
// what makes teardown idempotent: however a connection dies, the Ended
// notification fires exactly once.
type conn struct {
	id        string
	done      chan struct{}
	stopped   atomic.Bool
	endedOnce sync.Once
}

func newConn(id string) *conn {
	return &conn{
		id:   id,
		done: make(chan struct{}),
	}
}

// connState holds the live connection, if any.
type connState struct {
	mu   sync.Mutex
	conn *conn
}

func (cs *connState) set(c *conn) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.conn = c
}

func (cs *connState) get() *conn {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return cs.conn
}

// clear removes c when it is still the live connection.
func (cs *connState) clear(c *conn) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.conn == c {
		cs.conn = nil
	}
}

// End terminates the live connection: the socket is aborted, not
// drained, and no further events are dispatched once End returns.
// Calling End with no active connection is a no-op; calling it twice
// fires a single Ended notification total.
func (s *Service) End() {
	c := s.state.get()
	if c == nil {
		return
	}

	c.stopped.Store(true)
	_ = s.transport.Close()

	// The reader goroutine dispatches Ended before closing done, so
	// the terminal notification has been observed by the time End
	// returns.
	<-c.done
}

// finish runs teardown for c from the reader goroutine: the transport
// is closed, the connection slot cleared, and Ended fired exactly
// once.
func (s *Service) finish(c *conn, reason string) {
	_ = s.transport.Close()
	s.state.clear(c)

	c.endedOnce.Do(func() {
		s.logger.Info("stream ended",
			"connection_id", c.id,
			"reason", reason,
		)
		s.metrics.ObserveDisconnect(reason)
		s.table.Dispatch(events.Ended{ConnectionID: c.id})
		s.metrics.ObserveEvent(string(events.KindEnded))
	})
}
