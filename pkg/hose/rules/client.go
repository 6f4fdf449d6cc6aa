// Package rules provides the rules-management collaborator client: a
// thin CRUD wrapper over the REST rules endpoint that controls what
// the stream delivers.
package rules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hosecat/hose/pkg/hoserrs"
)

const responseSnippetLimit = 4 * 1024

// Rule is one filtering rule on the streaming endpoint.
type Rule struct {
	// Value is the rule expression.
	Value string `json:"value"`
	// Tag optionally labels matching activities.
	Tag *string `json:"tag,omitempty"`
}

// ruleSet is the wire shape the rules endpoint speaks.
type ruleSet struct {
	Rules []Rule `json:"rules"`
}

// Options configures a rules client.
type Options struct {
	// Endpoint is the rules endpoint URL. Required.
	Endpoint string
	// Username and Password form the Basic auth credentials.
	Username string
	Password string
	// UserAgent optionally overrides the User-Agent header.
	UserAgent *string
	// HTTPClient overrides the HTTP client (optional).
	HTTPClient *http.Client
	// Logger receives request diagnostics (optional).
	Logger *slog.Logger
}

// Client manages rules on the streaming endpoint.
type Client struct {
	opts   *Options
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a rules client.
func NewClient(opts *Options) (*Client, error) {
	if opts == nil || opts.Endpoint == "" {
		return nil, hoserrs.NewConfigurationError(
			hoserrs.ErrCodeMissingEndpoint,
			"rules endpoint is not set",
			"Endpoint",
		)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{opts: opts, client: client, logger: logger}, nil
}

// List fetches the rules currently installed on the endpoint.
func (c *Client) List(ctx context.Context) ([]Rule, error) {
	body, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var set ruleSet
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeDecodeResponse,
			"decode rules response",
			err,
		)
	}

	return set.Rules, nil
}

// Add installs rules on the endpoint.
func (c *Client) Add(ctx context.Context, add []Rule) error {
	payload, err := json.Marshal(ruleSet{Rules: add})
	if err != nil {
		return hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"encode rules payload",
			err,
		)
	}

	_, err = c.do(ctx, http.MethodPost, payload)

	return err
}

// Remove deletes rules from the endpoint. Rules are matched by value.
func (c *Client) Remove(ctx context.Context, remove []Rule) error {
	payload, err := json.Marshal(ruleSet{Rules: remove})
	if err != nil {
		return hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"encode rules payload",
			err,
		)
	}

	_, err = c.do(ctx, http.MethodDelete, payload)

	return err
}

// do issues one request against the rules endpoint and returns the
// response body on a 2xx status.
func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.opts.Endpoint, body)
	if err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"build rules request",
			err,
		)
	}
	req.SetBasicAuth(c.opts.Username, c.opts.Password)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.UserAgent != nil {
		req.Header.Set("User-Agent", *c.opts.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, hoserrs.NewTransportError(
			hoserrs.ErrCodeConnectionFailed,
			"rules request failed",
			err,
		).WithHost(req.URL.Host)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, hoserrs.NewTransportError(
			hoserrs.ErrCodeReadFailed,
			"read rules response",
			err,
		)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := respBody
		if len(snippet) > responseSnippetLimit {
			snippet = snippet[:responseSnippetLimit]
		}

		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeHTTPStatus,
			fmt.Sprintf("rules endpoint returned status %d", resp.StatusCode),
			nil,
		).WithStatusCode(resp.StatusCode).WithBodySnippet(string(snippet))
	}

	c.logger.Debug("rules request completed",
		"method", method,
		"status", resp.StatusCode,
	)

	return respBody, nil
}
