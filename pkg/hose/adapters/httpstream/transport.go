// Package httpstream implements the HTTPS streaming transport adapter.
//
// This adapter implements the StreamTransport port over a long-lived
// HTTP GET whose response body is an unbounded gzip stream. It owns
// request construction, response status handling, decompression, the
// idle-timeout supervisor, and idempotent teardown.
package httpstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hosecat/hose/pkg/hose/options"
	"github.com/hosecat/hose/pkg/hose/ports"
)

// Adapter implements ports.StreamTransport over HTTPS.
type Adapter struct {
	opts   *options.StreamOptions
	client *http.Client
	logger *slog.Logger

	mu           sync.RWMutex
	ready        bool
	resp         *http.Response
	cancel       context.CancelFunc
	idleTimer    *time.Timer
	connID       string
	closedByUser bool
	timedOut     bool
}

// Verify interface compliance at compile time.
var _ ports.StreamTransport = (*Adapter)(nil)

const readChunkSize = 8 * 1024

// NewAdapter creates a new HTTP streaming transport adapter.
func NewAdapter(opts *options.StreamOptions) *Adapter {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Adapter{
		opts:   opts,
		client: client,
		logger: logger,
	}
}

// ConnectionID returns the identifier of the live connection, or the
// empty string when no connection is open.
func (a *Adapter) ConnectionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return a.connID
}
