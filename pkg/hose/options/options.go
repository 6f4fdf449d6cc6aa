// Package options provides configuration types for the hose client.
// Options are read once when a connection starts; mutating them after
// Start has no effect on the live connection.
package options

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hosecat/hose/pkg/hose/metric"
	"github.com/hosecat/hose/pkg/hoserrs"
)

// DefaultIdleTimeout is the silence window applied when no override is
// configured. The streaming endpoint sends keepalives roughly every 30
// seconds, so the default sits just above that.
const DefaultIdleTimeout = 35 * time.Second

// MinIdleTimeout is the exclusive lower bound for an explicitly
// configured idle timeout. A window at or below the server keepalive
// interval would tear down healthy connections.
const MinIdleTimeout = 30 * time.Second

// DefaultMaxValueBytes bounds a single pending JSON value in the
// framing parser.
const DefaultMaxValueBytes = 1024 * 1024 // 1MB

// StreamOptions configures a streaming connection.
type StreamOptions struct {
	// === Connection settings ===

	// Endpoint is the streaming endpoint URL. Required. Query
	// parameters already present on the URL are preserved and merged
	// with the augmentations below.
	Endpoint string

	// Username and Password form the Basic auth credentials.
	Username string
	Password string

	// UserAgent optionally overrides the User-Agent header.
	UserAgent *string

	// IdleTimeout is the maximum silence on the socket before the
	// connection is considered dead. Defaults to DefaultIdleTimeout;
	// an explicit value must exceed MinIdleTimeout.
	IdleTimeout *time.Duration

	// === Query augmentations ===

	// BackfillMinutes requests a server-side replay of recent history
	// at stream start (optional).
	BackfillMinutes *int

	// Partition selects a stream partition (optional).
	Partition *int

	// === Infrastructure settings ===

	// HTTPClient overrides the HTTP client used for the stream
	// (optional). The client's transport must not decompress response
	// bodies itself.
	HTTPClient *http.Client

	// Logger receives connection lifecycle and parse diagnostics
	// (optional). Logging is disabled when unset.
	Logger *slog.Logger

	// MaxValueBytes bounds a single pending JSON value in the framing
	// parser (optional, defaults to DefaultMaxValueBytes).
	MaxValueBytes *int

	// Metrics receives pipeline instrumentation (optional). A nil
	// value disables metrics.
	Metrics *metric.Metrics
}

// Validate checks the options before any network I/O. It returns a
// configuration error naming the offending field.
func (o *StreamOptions) Validate() error {
	if o.Endpoint == "" {
		return hoserrs.NewConfigurationError(
			hoserrs.ErrCodeMissingEndpoint,
			"streaming endpoint is not set",
			"Endpoint",
		)
	}

	if _, err := url.Parse(o.Endpoint); err != nil {
		return hoserrs.NewConfigurationError(
			hoserrs.ErrCodeInvalidEndpoint,
			"streaming endpoint is not a valid URL",
			"Endpoint",
		)
	}

	if o.IdleTimeout != nil && *o.IdleTimeout <= MinIdleTimeout {
		return hoserrs.NewConfigurationError(
			hoserrs.ErrCodeIdleTimeoutTooLow,
			"idle timeout must exceed 30s",
			"IdleTimeout",
		)
	}

	return nil
}

// EffectiveIdleTimeout returns the configured idle timeout or the
// default.
func (o *StreamOptions) EffectiveIdleTimeout() time.Duration {
	if o.IdleTimeout != nil {
		return *o.IdleTimeout
	}

	return DefaultIdleTimeout
}

// EffectiveMaxValueBytes returns the configured pending-value bound or
// the default.
func (o *StreamOptions) EffectiveMaxValueBytes() int {
	if o.MaxValueBytes != nil {
		return *o.MaxValueBytes
	}

	return DefaultMaxValueBytes
}
