package httpstream

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/hosecat/hose/pkg/hoserrs"
)

const defaultChunkChannelBuffer = 16

// ReadChunks implements ports.StreamTransport. It arms the idle timer
// and starts the reader goroutine that decompresses the response body.
// The chunk channel closes when the stream ends for any reason; at
// most one terminal error is delivered on the error channel.
func (a *Adapter) ReadChunks(ctx context.Context) (<-chan []byte, <-chan error) {
	chunkCh := make(chan []byte, defaultChunkChannelBuffer)
	errCh := make(chan error, 1)

	a.mu.Lock()
	resp := a.resp
	window := a.opts.EffectiveIdleTimeout()
	timer := time.AfterFunc(window, a.abortForIdle)
	a.idleTimer = timer
	a.mu.Unlock()

	go func() {
		defer close(chunkCh)
		defer close(errCh)
		defer timer.Stop()

		if resp == nil {
			errCh <- hoserrs.NewTransportError(
				hoserrs.ErrCodeStreamClosed,
				"transport is not connected",
				nil,
			)

			return
		}

		// The timer watches raw socket bytes, not decompressed
		// output: keepalives arrive as compressed data too.
		body := &idleResetReader{r: resp.Body, timer: timer, window: window}

		gz, err := gzip.NewReader(body)
		if err != nil {
			if terr := a.classifyReadError(err); terr != nil {
				errCh <- terr
			}

			return
		}
		defer func() { _ = gz.Close() }()

		a.readLoop(ctx, gz, chunkCh, errCh)
	}()

	return chunkCh, errCh
}

// readLoop pumps decompressed chunks until the stream ends.
func (a *Adapter) readLoop(
	ctx context.Context,
	gz io.Reader,
	chunkCh chan []byte,
	errCh chan error,
) {
	buf := make([]byte, readChunkSize)
	for {
		n, err := gz.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])

			select {
			case chunkCh <- chunk:
			case <-ctx.Done():
				errCh <- ctx.Err()

				return
			}
		}

		if err != nil {
			if terr := a.classifyReadError(err); terr != nil {
				errCh <- terr
			}

			return
		}
	}
}

// classifyReadError maps a read failure to the terminal error the
// stream owner should observe. A nil return means the stream ended
// cleanly: natural EOF, or an abort the caller asked for.
func (a *Adapter) classifyReadError(err error) error {
	a.mu.RLock()
	timedOut := a.timedOut
	closedByUser := a.closedByUser
	a.mu.RUnlock()

	switch {
	case timedOut:
		return hoserrs.NewTransportError(
			hoserrs.ErrCodeIdleTimeout,
			"no data within idle-timeout window",
			err,
		)
	case closedByUser:
		return nil
	case errors.Is(err, io.EOF):
		return nil
	case errors.Is(err, gzip.ErrHeader), errors.Is(err, gzip.ErrChecksum):
		return hoserrs.NewTransportError(
			hoserrs.ErrCodeGzipCorrupt,
			"gzip stream corrupted",
			err,
		)
	default:
		return hoserrs.NewTransportError(
			hoserrs.ErrCodeReadFailed,
			"stream read failed",
			err,
		)
	}
}

// abortForIdle fires from the idle timer: marks the timeout and cuts
// the socket so the blocked read returns.
func (a *Adapter) abortForIdle() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.ready {
		return
	}

	a.timedOut = true
	a.logger.Warn("idle timeout fired", "connection_id", a.connID)

	if a.resp != nil {
		_ = a.resp.Body.Close()
	}
	if a.cancel != nil {
		a.cancel()
	}
}

// idleResetReader rewinds the idle timer on every successful raw read.
type idleResetReader struct {
	r      io.Reader
	timer  *time.Timer
	window time.Duration
}

func (ir *idleResetReader) Read(p []byte) (int, error) {
	n, err := ir.r.Read(p)
	if n > 0 {
		ir.timer.Reset(ir.window)
	}

	return n, err
}
