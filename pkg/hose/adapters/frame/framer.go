// Package frame implements incremental framing of JSON values over an
// arbitrarily chunked byte stream.
//
// The streaming endpoint emits whitespace-separated JSON objects with
// no length prefix; a value may be split across any number of network
// reads. The framer tracks brace/bracket depth and string state so it
// can recognize a value boundary without decoding, buffers incomplete
// tails across Feed calls, and decodes each complete value with
// number-preserving semantics (json.Number) so 64-bit identifiers
// survive intact.
package frame

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/hosecat/hose/pkg/hose/ports"
	"github.com/hosecat/hose/pkg/hoserrs"
)

// ValueHandler receives each complete JSON value in arrival order.
// raw is the exact byte run the value occupied in the stream.
type ValueHandler func(raw []byte, value map[string]any)

// ErrorHandler receives a content error for each malformed value. The
// stream continues after the handler returns.
type ErrorHandler func(err error)

const fragmentLimit = 256 // bytes of offending input kept on a content error

// Framer extracts complete JSON values from an incremental byte feed.
// It is not safe for concurrent use; each connection owns one framer
// and feeds it from a single goroutine.
type Framer struct {
	onValue ValueHandler
	onError ErrorHandler

	maxValueBytes int

	// buf holds bytes of the pending (incomplete) value, or leading
	// bytes not yet recognized as a value start.
	buf []byte
	// pos is how far into buf the boundary scan has progressed.
	pos int

	// Boundary scan state, valid while inValue.
	inValue  bool
	depth    int
	inString bool
	escaped  bool

	// discarding is set when the pending value exceeded
	// maxValueBytes. The scan continues so framing recovers at the
	// value boundary, but the content is dropped.
	discarding bool
}

// Verify interface compliance at compile time.
var _ ports.ValueFramer = (*Framer)(nil)

// Config configures a Framer.
type Config struct {
	// MaxValueBytes bounds a single pending value. Zero applies no
	// bound.
	MaxValueBytes int
	// OnValue receives complete values. Required.
	OnValue ValueHandler
	// OnError receives content errors for malformed or oversized
	// values. Required.
	OnError ErrorHandler
}

// New creates a framer.
func New(cfg Config) *Framer {
	return &Framer{
		onValue:       cfg.OnValue,
		onError:       cfg.OnError,
		maxValueBytes: cfg.MaxValueBytes,
	}
}

// Feed implements ports.ValueFramer. Every byte offered is either
// buffered as part of a pending value or accounted for in an emitted
// value or content error; no byte is silently dropped.
func (f *Framer) Feed(p []byte) {
	f.buf = append(f.buf, p...)

	for {
		if !f.inValue {
			if !f.seekValueStart() {
				return
			}
		}

		end, ok := f.scanBoundary()
		if !ok {
			f.enforceLimit()

			return
		}

		f.emit(end)
	}
}

// Reset discards all accumulated partial state. Resets are never
// partial: buffered bytes and scan state clear together.
func (f *Framer) Reset() {
	f.buf = nil
	f.pos = 0
	f.inValue = false
	f.depth = 0
	f.inString = false
	f.escaped = false
	f.discarding = false
}

// seekValueStart consumes leading whitespace and positions the scan at
// the next value start. Bytes that cannot begin a JSON object or array
// are consumed up to the next newline and reported as one malformed
// value. Returns false when more input is needed.
func (f *Framer) seekValueStart() bool {
	for {
		i := 0
		for i < len(f.buf) && isSpace(f.buf[i]) {
			i++
		}
		f.buf = f.buf[i:]

		if len(f.buf) == 0 {
			f.buf = nil

			return false
		}

		if c := f.buf[0]; c == '{' || c == '[' {
			f.inValue = true
			f.pos = 0

			return true
		}

		// Garbage run: everything up to the next newline is one
		// unrecoverable value.
		nl := bytes.IndexByte(f.buf, '\n')
		if nl < 0 {
			if f.maxValueBytes > 0 && len(f.buf) > f.maxValueBytes {
				f.reportMalformed(f.buf, nil)
				f.buf = nil
			}

			return false
		}

		f.reportMalformed(f.buf[:nl], nil)
		f.buf = f.trim(nl + 1)
	}
}

// scanBoundary advances the depth/string scan over the pending value.
// It returns the exclusive end offset of the value once the top-level
// delimiter closes, or ok=false when the value is still incomplete.
func (f *Framer) scanBoundary() (int, bool) {
	for ; f.pos < len(f.buf); f.pos++ {
		c := f.buf[f.pos]

		if f.inString {
			switch {
			case f.escaped:
				f.escaped = false
			case c == '\\':
				f.escaped = true
			case c == '"':
				f.inString = false
			}

			continue
		}

		switch c {
		case '"':
			f.inString = true
		case '{', '[':
			f.depth++
		case '}', ']':
			f.depth--
			if f.depth == 0 {
				return f.pos + 1, true
			}
		}
	}

	return 0, false
}

// enforceLimit drops an oversized pending value while keeping the
// boundary scan alive so framing recovers at the value's end.
func (f *Framer) enforceLimit() {
	if f.maxValueBytes <= 0 || f.discarding {
		if f.discarding {
			f.compactDiscarded()
		}

		return
	}

	if len(f.buf) <= f.maxValueBytes {
		return
	}

	f.onError(hoserrs.NewContentError(
		hoserrs.ErrCodeValueTooLarge,
		fmt.Sprintf("value exceeds %d bytes", f.maxValueBytes),
		nil,
		string(f.buf[:min(len(f.buf), fragmentLimit)]),
	))
	f.discarding = true
	f.compactDiscarded()
}

// compactDiscarded releases the content of a value being discarded,
// keeping only the unscanned tail.
func (f *Framer) compactDiscarded() {
	f.buf = f.trim(f.pos)
	f.pos = 0
}

// emit finishes the value ending at end: decodes and hands it to the
// handlers, then rewinds the framer to the remainder.
func (f *Framer) emit(end int) {
	raw := f.buf[:end]

	switch {
	case f.discarding:
		// The error for this value was already reported when the
		// limit tripped.
		f.discarding = false
	case f.maxValueBytes > 0 && end > f.maxValueBytes:
		f.onError(hoserrs.NewContentError(
			hoserrs.ErrCodeValueTooLarge,
			fmt.Sprintf("value exceeds %d bytes", f.maxValueBytes),
			nil,
			string(raw[:min(len(raw), fragmentLimit)]),
		))
	default:
		f.decode(raw)
	}

	f.buf = f.trim(end)
	f.pos = 0
	f.inValue = false
	f.depth = 0
	f.inString = false
	f.escaped = false
}

// decode parses one balanced byte run. Balanced but syntactically
// invalid input, and valid JSON whose top level is not an object,
// surface as content errors; the stream continues either way.
func (f *Framer) decode(raw []byte) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value map[string]any
	if err := dec.Decode(&value); err != nil {
		f.reportMalformed(raw, err)

		return
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	f.onValue(out, value)
}

func (f *Framer) reportMalformed(fragment []byte, cause error) {
	if len(fragment) > fragmentLimit {
		fragment = fragment[:fragmentLimit]
	}

	f.onError(hoserrs.NewContentError(
		hoserrs.ErrCodeValueMalformed,
		"malformed JSON value",
		cause,
		string(fragment),
	))
}

// trim drops the first n bytes of buf into a fresh backing array so
// emitted raw slices never alias the live buffer.
func (f *Framer) trim(n int) []byte {
	if n >= len(f.buf) {
		return nil
	}

	rest := make([]byte, len(f.buf)-n)
	copy(rest, f.buf[n:])

	return rest
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
