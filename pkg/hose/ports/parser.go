package ports

// ValueFramer consumes decompressed bytes incrementally and recognizes
// complete JSON value boundaries across arbitrary chunking.
type ValueFramer interface {
	// Feed appends bytes and synchronously invokes the configured
	// handlers for every complete value (and every malformed value)
	// found. Incomplete tails are buffered for the next call.
	Feed(p []byte)

	// Reset discards all accumulated partial state. Resets are never
	// partial.
	Reset()
}
