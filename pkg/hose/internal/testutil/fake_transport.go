// Package testutil provides hermetic test doubles for the stream
// pipeline.
package testutil

import (
	"context"
	"sync"

	"github.com/hosecat/hose/pkg/hose/ports"
)

// FakeTransport simulates the streaming transport without opening
// sockets. It queues decompressed chunks and replays them through
// ReadChunks, then ends the stream with an optional terminal error.
type FakeTransport struct {
	mu          sync.Mutex
	chunks      [][]byte
	connectErr  error
	terminalErr error
	holdOpen    bool
	ready       bool
	connID      string
	closeCount  int
	closedCh    chan struct{}
}

// Verify interface compliance at compile time.
var _ ports.StreamTransport = (*FakeTransport)(nil)

// NewFakeTransport creates a fake transport.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		connID:   "fake-conn",
		closedCh: make(chan struct{}),
	}
}

// QueueChunk adds a decompressed chunk to be replayed by ReadChunks.
func (f *FakeTransport) QueueChunk(chunk []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunks = append(f.chunks, chunk)
}

// SimulateConnectError causes Connect to fail with err.
func (f *FakeTransport) SimulateConnectError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectErr = err
}

// SimulateTerminalError ends the replayed stream with err after all
// queued chunks are delivered.
func (f *FakeTransport) SimulateTerminalError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminalErr = err
}

// HoldOpen keeps the stream open after the queued chunks until Close
// is called, mimicking an idle live connection.
func (f *FakeTransport) HoldOpen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdOpen = true
}

// Connect implements ports.StreamTransport.
func (f *FakeTransport) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.connectErr != nil {
		return f.connectErr
	}

	// A fresh connection gets a fresh abort signal so the transport
	// can be reused across Start cycles.
	select {
	case <-f.closedCh:
		f.closedCh = make(chan struct{})
	default:
	}

	f.ready = true

	return nil
}

// ReadChunks implements ports.StreamTransport.
func (f *FakeTransport) ReadChunks(ctx context.Context) (<-chan []byte, <-chan error) {
	chunkCh := make(chan []byte, 1)
	errCh := make(chan error, 1)

	f.mu.Lock()
	chunks := make([][]byte, len(f.chunks))
	copy(chunks, f.chunks)
	terminalErr := f.terminalErr
	holdOpen := f.holdOpen
	closedCh := f.closedCh
	f.mu.Unlock()

	go func() {
		defer close(chunkCh)
		defer close(errCh)

		for _, chunk := range chunks {
			select {
			case chunkCh <- chunk:
			case <-closedCh:
				return
			case <-ctx.Done():
				errCh <- ctx.Err()

				return
			}
		}

		if holdOpen {
			select {
			case <-closedCh:
			case <-ctx.Done():
			}

			return
		}

		if terminalErr != nil {
			errCh <- terminalErr
		}
	}()

	return chunkCh, errCh
}

// Close implements ports.StreamTransport.
func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ready = false
	f.closeCount++

	select {
	case <-f.closedCh:
	default:
		close(f.closedCh)
	}

	return nil
}

// IsReady implements ports.StreamTransport.
func (f *FakeTransport) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ready
}

// ConnectionID returns the fake connection identifier.
func (f *FakeTransport) ConnectionID() string {
	return f.connID
}

// CloseCount returns how many times Close was called.
func (f *FakeTransport) CloseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.closeCount
}
