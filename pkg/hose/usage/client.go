// Package usage provides the usage-statistics collaborator client: a
// single-request GET wrapper over the usage REST endpoint.
package usage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hosecat/hose/pkg/hoserrs"
)

const responseSnippetLimit = 4 * 1024

// Options configures a usage client.
type Options struct {
	// Endpoint is the usage endpoint URL. Required.
	Endpoint string
	// Username and Password form the Basic auth credentials.
	Username string
	Password string
	// UserAgent optionally overrides the User-Agent header.
	UserAgent *string
	// HTTPClient overrides the HTTP client (optional).
	HTTPClient *http.Client
}

// Client fetches account usage statistics.
type Client struct {
	opts   *Options
	client *http.Client
}

// NewClient creates a usage client.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil || opts.Endpoint == "" {
		return nil, hoserrs.NewConfigurationError(
			hoserrs.ErrCodeMissingEndpoint,
			"usage endpoint is not set",
			"Endpoint",
		)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &Client{opts: opts, client: client}, nil
}

// Get fetches the account's usage statistics. Numeric fields decode as
// json.Number.
func (c *Client) Get(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.Endpoint, nil)
	if err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"build usage request",
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
			"usage request failed",
			err,
		).WithHost(req.URL.Host)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, hoserrs.NewTransportError(
			hoserrs.ErrCodeReadFailed,
			"read usage response",
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
			fmt.Sprintf("usage endpoint returned status %d", resp.StatusCode),
			nil,
		).WithStatusCode(resp.StatusCode).WithBodySnippet(string(snippet))
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeDecodeResponse,
			"decode usage response",
			err,
		)
	}

	return result, nil
}
