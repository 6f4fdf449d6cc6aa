// Package hose provides the public API for the hose streaming client.
// This is the main entry point for library users.
package hose

import (
	"context"

	"github.com/hosecat/hose/pkg/hose/adapters/classify"
	"github.com/hosecat/hose/pkg/hose/adapters/httpstream"
	"github.com/hosecat/hose/pkg/hose/dispatch"
	"github.com/hosecat/hose/pkg/hose/events"
	"github.com/hosecat/hose/pkg/hose/options"
	"github.com/hosecat/hose/pkg/hose/ports"
	"github.com/hosecat/hose/pkg/hose/streaming"
)

// Public type aliases for convenience.
type (
	Event        = events.Event
	Kind         = events.Kind
	Handler      = dispatch.Handler
	Subscription = dispatch.Subscription
)

// Event kind constants.
const (
	KindData     = events.KindData
	KindObject   = events.KindObject
	KindActivity = events.KindActivity
	KindDelete   = events.KindDelete
	KindInfo     = events.KindInfo
	KindError    = events.KindError
	KindReady    = events.KindReady
	KindEnded    = events.KindEnded
)

// Client is a streaming firehose client. Each client drives at most
// one live connection; independent clients share no mutable state and
// may run concurrently.
type Client struct {
	opts      *options.StreamOptions
	transport ports.StreamTransport
	service   *streaming.Service
	table     *dispatch.Table
}

// NewClient creates a new streaming client with the given options.
// Options are validated when Start is called, not here.
func NewClient(opts *options.StreamOptions) *Client {
	table := dispatch.NewTable()
	transport := httpstream.NewAdapter(opts)
	classifier := classify.NewAdapter()

	service := streaming.NewService(streaming.Dependencies{
		Transport:  transport,
		Classifier: classifier,
		Table:      table,
		Options:    opts,
		Logger:     opts.Logger,
		Metrics:    opts.Metrics,
	})

	return &Client{
		opts:      opts,
		transport: transport,
		service:   service,
		table:     table,
	}
}

// On subscribes a handler to an event kind. Handlers run synchronously
// on the connection's reader goroutine, in registration order; a slow
// handler slows the stream.
func (c *Client) On(kind Kind, h Handler) *Subscription {
	return c.table.On(kind, h)
}

// Start opens the streaming connection, tearing down any existing one
// first. A configuration problem (missing endpoint, idle timeout at or
// below 30s) is returned immediately, before any network I/O. All
// other failures are delivered on the error event followed by the
// Ended notification.
func (c *Client) Start(ctx context.Context) error {
	return c.service.Start(ctx)
}

// End terminates the live connection. The socket is aborted, the Ended
// notification fires exactly once, and no further events are
// dispatched once End returns. With no active connection End is a
// no-op.
func (c *Client) End() {
	c.service.End()
}

// IsStreaming reports whether a connection is currently live.
func (c *Client) IsStreaming() bool {
	return c.transport.IsReady()
}
