// Package hoserrs provides the error handling framework for the hose
// client library. It defines error categories, codes, and utilities so
// callers can react to failures by class rather than by string
// matching.
package hoserrs

import (
	"errors"
	"fmt"
	"maps"
)

// ErrorCategory represents different categories of errors that can
// occur while streaming or talking to the collaborator endpoints.
type ErrorCategory string

const (
	// CategoryConfiguration represents invalid client configuration,
	// detected before any network I/O happens.
	CategoryConfiguration ErrorCategory = "configuration"
	// CategoryProtocol represents HTTP-level failures such as a
	// non-2xx response from the streaming endpoint.
	CategoryProtocol ErrorCategory = "protocol"
	// CategoryTransport represents socket, TLS, decompression, and
	// idle-timeout failures. Transport errors always end the stream.
	CategoryTransport ErrorCategory = "transport"
	// CategoryContent represents a single malformed JSON value.
	// Content errors are scoped to one value and never end the stream.
	CategoryContent ErrorCategory = "content"
	// CategoryUpstream represents an error object delivered by the
	// stream itself. These are well-formed events, not client faults.
	CategoryUpstream ErrorCategory = "upstream"
)

// ErrorCode represents specific error codes within each category.
type ErrorCode string

// Configuration error codes.
const (
	ErrCodeMissingEndpoint   ErrorCode = "missing_endpoint"
	ErrCodeInvalidEndpoint   ErrorCode = "invalid_endpoint"
	ErrCodeIdleTimeoutTooLow ErrorCode = "idle_timeout_too_low"
	ErrCodeInvalidConfig     ErrorCode = "invalid_config"
)

// Protocol error codes.
const (
	ErrCodeHTTPStatus     ErrorCode = "http_status"
	ErrCodeRequestBuild   ErrorCode = "request_build"
	ErrCodeDecodeResponse ErrorCode = "decode_response"
)

// Transport error codes.
const (
	ErrCodeConnectionFailed ErrorCode = "connection_failed"
	ErrCodeReadFailed       ErrorCode = "read_failed"
	ErrCodeGzipCorrupt      ErrorCode = "gzip_corrupt"
	ErrCodeIdleTimeout      ErrorCode = "idle_timeout"
	ErrCodeStreamClosed     ErrorCode = "stream_closed"
)

// Content error codes.
const (
	ErrCodeValueMalformed ErrorCode = "value_malformed"
	ErrCodeValueTooLarge  ErrorCode = "value_too_large"
)

// Upstream error codes.
const (
	ErrCodeUpstreamError ErrorCode = "upstream_error"
)

// StreamError is the base interface for all hose errors.
type StreamError interface {
	error
	// Code returns the error code.
	Code() ErrorCode
	// Category returns the error category.
	Category() ErrorCategory
	// Unwrap returns the underlying error.
	Unwrap() error
	// Metadata returns additional error metadata.
	Metadata() map[string]any
}

// BaseError provides the base implementation for hose errors.
type BaseError struct {
	code     ErrorCode
	category ErrorCategory
	message  string
	cause    error
	metadata map[string]any
}

// NewBaseError creates a new base error.
func NewBaseError(
	category ErrorCategory,
	code ErrorCode,
	message string,
	cause error,
) *BaseError {
	return &BaseError{
		code:     code,
		category: category,
		message:  message,
		cause:    cause,
		metadata: make(map[string]any),
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.category, e.message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.category, e.message)
}

// Code returns the error code.
func (e *BaseError) Code() ErrorCode {
	return e.code
}

// Category returns the error category.
func (e *BaseError) Category() ErrorCategory {
	return e.category
}

// Unwrap returns the underlying error.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Metadata returns the error metadata.
func (e *BaseError) Metadata() map[string]any {
	return e.metadata
}

// WithMetadata adds metadata to the error.
func (e *BaseError) WithMetadata(key string, value any) *BaseError {
	e.metadata[key] = value

	return e
}

// WithMetadataMap adds multiple metadata items to the error.
func (e *BaseError) WithMetadataMap(metadata map[string]any) *BaseError {
	maps.Copy(e.metadata, metadata)

	return e
}

// ConfigurationError represents invalid client configuration.
// Configuration errors are returned synchronously from Start, before
// any network I/O is attempted.
type ConfigurationError struct {
	*BaseError
	field string
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(code ErrorCode, message string, field string) *ConfigurationError {
	err := &ConfigurationError{
		BaseError: NewBaseError(CategoryConfiguration, code, message, nil),
		field:     field,
	}
	err.WithMetadata("field", field)

	return err
}

// Field returns the offending configuration field name.
func (e *ConfigurationError) Field() string {
	return e.field
}

// ProtocolError represents an HTTP-level failure.
type ProtocolError struct {
	*BaseError
	statusCode int
}

// NewProtocolError creates a new protocol error.
func NewProtocolError(code ErrorCode, message string, cause error) *ProtocolError {
	return &ProtocolError{
		BaseError: NewBaseError(CategoryProtocol, code, message, cause),
	}
}

// WithStatusCode adds the HTTP status code to the error.
func (e *ProtocolError) WithStatusCode(status int) *ProtocolError {
	e.statusCode = status
	e.WithMetadata("status_code", status)

	return e
}

// WithBodySnippet adds a best-effort response body snippet. The
// snippet is bounded; only the status code is guaranteed present.
func (e *ProtocolError) WithBodySnippet(snippet string) *ProtocolError {
	e.WithMetadata("body_snippet", snippet)

	return e
}

// StatusCode returns the HTTP status code, or zero when not set.
func (e *ProtocolError) StatusCode() int {
	return e.statusCode
}

// TransportError represents socket, TLS, decompression, or
// idle-timeout failures.
type TransportError struct {
	*BaseError
}

// NewTransportError creates a new transport error.
func NewTransportError(code ErrorCode, message string, cause error) *TransportError {
	return &TransportError{
		BaseError: NewBaseError(CategoryTransport, code, message, cause),
	}
}

// WithHost adds host metadata to the error.
func (e *TransportError) WithHost(host string) *TransportError {
	e.WithMetadata("host", host)

	return e
}

// ContentError represents a single malformed JSON value within the
// stream. The stream continues after a content error.
type ContentError struct {
	*BaseError
	fragment string
}

// NewContentError creates a new content error. The fragment is the
// offending input, truncated by the caller where necessary.
func NewContentError(code ErrorCode, message string, cause error, fragment string) *ContentError {
	err := &ContentError{
		BaseError: NewBaseError(CategoryContent, code, message, cause),
		fragment:  fragment,
	}
	err.WithMetadata("fragment", fragment)

	return err
}

// Fragment returns the offending input fragment.
func (e *ContentError) Fragment() string {
	return e.fragment
}

// UpstreamError represents an error object delivered by the stream in
// an otherwise well-formed JSON value. It is a delivered event, not a
// client fault, and does not end the stream.
type UpstreamError struct {
	*BaseError
}

// NewUpstreamError creates a new upstream error.
func NewUpstreamError(message string) *UpstreamError {
	return &UpstreamError{
		BaseError: NewBaseError(CategoryUpstream, ErrCodeUpstreamError, message, nil),
	}
}

// AsStreamError extracts a StreamError from the error chain.
func AsStreamError(err error) (StreamError, bool) {
	var streamErr StreamError
	if errors.As(err, &streamErr) {
		return streamErr, true
	}

	return nil, false
}

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	if streamErr, ok := AsStreamError(err); ok {
		return streamErr.Category() == CategoryConfiguration
	}

	return false
}

// IsProtocolError checks if the error is a protocol error.
func IsProtocolError(err error) bool {
	if streamErr, ok := AsStreamError(err); ok {
		return streamErr.Category() == CategoryProtocol
	}

	return false
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	if streamErr, ok := AsStreamError(err); ok {
		return streamErr.Category() == CategoryTransport
	}

	return false
}

// IsIdleTimeout checks if the error is an idle-timeout transport error.
func IsIdleTimeout(err error) bool {
	if streamErr, ok := AsStreamError(err); ok {
		return streamErr.Category() == CategoryTransport &&
			streamErr.Code() == ErrCodeIdleTimeout
	}

	return false
}

// IsContentError checks if the error is a content error.
func IsContentError(err error) bool {
	if streamErr, ok := AsStreamError(err); ok {
		return streamErr.Category() == CategoryContent
	}

	return false
}

// IsUpstreamError checks if the error is an upstream error.
func IsUpstreamError(err error) bool {
	if streamErr, ok := AsStreamError(err); ok {
		return streamErr.Category() == CategoryUpstream
	}

	return false
}

// WrapError wraps an error with category and code context.
func WrapError(category ErrorCategory, code ErrorCode, message string, err error) StreamError {
	switch category {
	case CategoryConfiguration:
		cfgErr := NewConfigurationError(code, message, "")
		cfgErr.cause = err

		return cfgErr
	case CategoryProtocol:
		return NewProtocolError(code, message, err)
	case CategoryTransport:
		return NewTransportError(code, message, err)
	case CategoryContent:
		return NewContentError(code, message, err, "")
	case CategoryUpstream:
		upErr := NewUpstreamError(message)
		upErr.cause = err

		return upErr
	default:
		return NewBaseError(category, code, message, err)
	}
}
