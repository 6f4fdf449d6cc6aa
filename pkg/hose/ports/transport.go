// Package ports defines interfaces that the domain needs from
// infrastructure. These are "ports" in hexagonal architecture -
// contracts defined by domain needs, not by external systems.
package ports

import "context"

// StreamTransport defines what the domain needs from the streaming
// transport layer. It abstracts the HTTPS connection, response status
// handling, decompression, and idle-timeout supervision.
type StreamTransport interface {
	// Connect opens the streaming connection. It returns only after
	// the response status has been evaluated: a nil error means the
	// endpoint accepted the stream (2xx).
	Connect(ctx context.Context) error

	// ReadChunks returns channels carrying decompressed byte chunks
	// and terminal errors. The chunk channel closes when the stream
	// ends for any reason; at most one error is delivered.
	ReadChunks(ctx context.Context) (<-chan []byte, <-chan error)

	// Close aborts the connection. It is idempotent and safe to call
	// with no connection open.
	Close() error

	// IsReady reports whether the transport holds a live connection.
	IsReady() bool
}
