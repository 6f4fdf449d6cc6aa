// Package streaming provides the domain service that drives one
// streaming connection: it validates configuration, owns the
// connection lifecycle state machine, and wires transport bytes
// through framing and classification out to the dispatch table.
package streaming

import (
	"context"
	"io"
	"log/slog"

	"github.com/hosecat/hose/pkg/hose/dispatch"
	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hose/metric"
	"github.com/hosecat/hose/pkg/hose/options"
	"github.com/hosecat/hose/pkg/hose/ports"
)

// Dependencies groups all external dependencies for the streaming
// service.
type Dependencies struct {
	Transport  ports.StreamTransport
	Classifier ports.Classifier
	Table      *dispatch.Table
	Options    *options.StreamOptions
	Logger     *slog.Logger
	Metrics    *metric.Metrics
}

// Service drives one streaming connection at a time. Starting a new
// connection while one is live tears the old one down first; every
// connection ends with exactly one Ended dispatch.
type Service struct {
	transport  ports.StreamTransport
	classifier ports.Classifier
	table      *dispatch.Table
	opts       *options.StreamOptions
	logger     *slog.Logger
	metrics    *metric.Metrics

	state connState
}

// NewService creates a new streaming service.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		transport:  deps.Transport,
		classifier: deps.Classifier,
		table:      deps.Table,
		opts:       deps.Options,
		logger:     logger,
		metrics:    deps.Metrics,
	}
}

// Start validates the configuration and opens a new connection,
// tearing down any existing one first.
//
// Only configuration errors are returned: they fail the call before
// any network I/O. Every other failure - connection refused, non-2xx
// status, mid-stream faults - arrives on the error event followed by
// the Ended notification, matching how faults surface once the stream
// is live.
func (s *Service) Start(ctx context.Context) error {
	if err := s.opts.Validate(); err != nil {
		return err
	}

	s.End()

	if err := s.transport.Connect(ctx); err != nil {
		s.logger.Warn("stream connect failed", "error", err)
		s.table.Dispatch(events.StreamError{Err: err})
		s.table.Dispatch(events.Ended{})
		s.metrics.ObserveDisconnect("connect_failed")

		return nil
	}

	c := newConn(s.connectionID())
	s.state.set(c)

	s.metrics.ObserveConnect()
	s.table.Dispatch(events.Ready{ConnectionID: c.id})
	s.metrics.ObserveEvent(string(events.KindReady))

	go s.run(ctx, c)

	return nil
}

// connectionID asks the transport for its connection identifier when
// it exposes one.
func (s *Service) connectionID() string {
	type identified interface{ ConnectionID() string }
	if t, ok := s.transport.(identified); ok {
		return t.ConnectionID()
	}

	return ""
}
