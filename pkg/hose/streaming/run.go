package streaming

import (
	"context"

	"github.com/hosecat/hose/pkg/hose/adapters/frame"
	"github.com/hosecat/hose/pkg/hose/events"
)

// run is the connection's reader goroutine. All byte processing for
// the connection happens here, in strict arrival order: decompressed
// chunks are dispatched raw, fed to the framer, and each framed value
// is classified and dispatched before the next byte is touched.
func (s *Service) run(ctx context.Context, c *conn) {
	defer close(c.done)

	framer := frame.New(frame.Config{
		MaxValueBytes: s.opts.EffectiveMaxValueBytes(),
		OnValue: func(raw []byte, value map[string]any) {
			s.handleValue(c, raw, value)
		},
		OnError: func(err error) {
			s.handleContentError(c, err)
		},
	})

	chunks, errs := s.transport.ReadChunks(ctx)

	for chunk := range chunks {
		if c.stopped.Load() {
			continue // drain without dispatching; End has returned
		}

		s.metrics.ObserveBytes(len(chunk))
		s.table.Dispatch(events.Data{Bytes: chunk})
		s.metrics.ObserveEvent(string(events.KindData))
		framer.Feed(chunk)
	}

	reason := "eof"
	if err, ok := <-errs; ok && err != nil {
		reason = "error"
		if !c.stopped.Load() {
			s.logger.Warn("stream terminated",
				"connection_id", c.id,
				"error", err,
			)
			s.table.Dispatch(events.StreamError{Err: err})
			s.metrics.ObserveEvent(string(events.KindError))
		}
	}
	if c.stopped.Load() {
		reason = "end"
	}

	s.finish(c, reason)
}

// handleValue dispatches one framed value: first the generic Object
// event, then the specialized event when classification matches.
func (s *Service) handleValue(c *conn, raw []byte, value map[string]any) {
	if c.stopped.Load() {
		return
	}

	s.metrics.ObserveValue()
	s.table.Dispatch(events.Object{Value: value, Raw: raw})
	s.metrics.ObserveEvent(string(events.KindObject))

	ev, ok := s.classifier.Classify(raw, value)
	if !ok {
		return
	}

	s.table.Dispatch(ev)
	s.metrics.ObserveEvent(string(ev.Kind()))
}

// handleContentError reports one malformed value. Content errors are
// scoped to the value; the stream keeps going.
func (s *Service) handleContentError(c *conn, err error) {
	if c.stopped.Load() {
		return
	}

	s.metrics.ObserveParseError()
	s.logger.Warn("malformed value skipped",
		"connection_id", c.id,
		"error", err,
	)
	s.table.Dispatch(events.StreamError{Err: err})
	s.metrics.ObserveEvent(string(events.KindError))
}
