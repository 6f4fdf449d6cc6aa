// Package search provides the rate-limited search collaborator client.
//
// Search is a discrete request/response wrapper, not a stream: each
// call waits on the shared token bucket, issues one authenticated GET,
// and decodes the JSON response with number-preserving semantics.
// Callers may block in the limiter before their request is sent.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/hosecat/hose/pkg/hose/ratelimit"
	"github.com/hosecat/hose/pkg/hoserrs"
)

const responseSnippetLimit = 4 * 1024

// Options configures a search client.
type Options struct {
	// Endpoint is the search endpoint URL. Required.
	Endpoint string
	// Username and Password form the Basic auth credentials.
	Username string
	Password string
	// UserAgent optionally overrides the User-Agent header.
	UserAgent *string
	// Limiter overrides the process-wide shared limiter (optional).
	Limiter ratelimit.Limiter
	// HTTPClient overrides the HTTP client (optional).
	HTTPClient *http.Client
	// Logger receives request diagnostics (optional).
	Logger *slog.Logger
}

// Client issues rate-limited search requests.
type Client struct {
	opts    *Options
	client  *http.Client
	limiter ratelimit.Limiter
	logger  *slog.Logger
}

// NewClient creates a search client. Unless overridden, all clients in
// the process share one limiter.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil || opts.Endpoint == "" {
		return nil, hoserrs.NewConfigurationError(
			hoserrs.ErrCodeMissingEndpoint,
			"search endpoint is not set",
			"Endpoint",
		)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Default()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		opts:    opts,
		client:  client,
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Search issues one query against the search endpoint. The query
// values are merged into any parameters already on the endpoint URL,
// with the query winning on conflict.
func (c *Client) Search(ctx context.Context, query url.Values) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, hoserrs.NewTransportError(
			hoserrs.ErrCodeConnectionFailed,
			"rate limiter wait aborted",
			err,
		)
	}

	u, err := url.Parse(c.opts.Endpoint)
	if err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"parse search endpoint URL",
			err,
		)
	}

	merged := u.Query()
	for key, values := range query {
		merged[key] = values
	}
	u.RawQuery = merged.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"build search request",
			err,
		)
	}
	req.SetBasicAuth(c.opts.Username, c.opts.Password)
	if c.opts.UserAgent != nil {
		req.Header.Set("User-Agent", *c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, hoserrs.NewTransportError(
			hoserrs.ErrCodeConnectionFailed,
			"search request failed",
			err,
		).WithHost(u.Host)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, hoserrs.NewTransportError(
			hoserrs.ErrCodeReadFailed,
			"read search response",
			err,
		)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := body
		if len(snippet) > responseSnippetLimit {
			snippet = snippet[:responseSnippetLimit]
		}

		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeHTTPStatus,
			fmt.Sprintf("search endpoint returned status %d", resp.StatusCode),
			nil,
		).WithStatusCode(resp.StatusCode).WithBodySnippet(string(snippet))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeDecodeResponse,
			"decode search response",
			err,
		)
	}

	c.logger.Debug("search completed", "status", resp.StatusCode)

	return result, nil
}
