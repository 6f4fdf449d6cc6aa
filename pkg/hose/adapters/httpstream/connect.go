package httpstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/hosecat/hose/pkg/hoserrs"
)

// statusSnippetLimit bounds the best-effort body read on a non-2xx
// response. Only the status code is guaranteed present on the error;
// the snippet may be empty.
const statusSnippetLimit = 4 * 1024

// Connect establishes the streaming connection. It builds the
// authenticated request, issues it, and evaluates the response status.
// A nil return means the endpoint accepted the stream and bytes may be
// read with ReadChunks.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ready {
		return nil
	}

	reqCtx, cancel := context.WithCancel(ctx)

	req, err := a.buildRequest(reqCtx)
	if err != nil {
		cancel()

		return err
	}

	resp, err := a.client.Do(req)
	if err != nil {
		cancel()

		return hoserrs.NewTransportError(
			hoserrs.ErrCodeConnectionFailed,
			"streaming request failed",
			err,
		).WithHost(req.URL.Host)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := readSnippet(resp.Body)
		_ = resp.Body.Close()
		cancel()

		return hoserrs.NewProtocolError(
			hoserrs.ErrCodeHTTPStatus,
			fmt.Sprintf("streaming endpoint returned status %d", resp.StatusCode),
			nil,
		).WithStatusCode(resp.StatusCode).WithBodySnippet(snippet)
	}

	a.resp = resp
	a.cancel = cancel
	a.connID = uuid.NewString()
	a.closedByUser = false
	a.timedOut = false
	a.ready = true

	a.logger.Info("stream connected",
		"connection_id", a.connID,
		"status", resp.StatusCode,
	)

	return nil
}

// buildRequest constructs the authenticated streaming request. Query
// parameters already present on the endpoint URL are preserved; the
// configured augmentations are merged in and win on conflict.
func (a *Adapter) buildRequest(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(a.opts.Endpoint)
	if err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"parse endpoint URL",
			err,
		)
	}

	q := u.Query()
	if a.opts.BackfillMinutes != nil {
		q.Set("backfillMinutes", strconv.Itoa(*a.opts.BackfillMinutes))
	}
	if a.opts.Partition != nil {
		q.Set("partition", strconv.Itoa(*a.opts.Partition))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, hoserrs.NewProtocolError(
			hoserrs.ErrCodeRequestBuild,
			"build streaming request",
			err,
		)
	}

	req.SetBasicAuth(a.opts.Username, a.opts.Password)
	// Accept-Encoding is set explicitly so net/http hands back the
	// raw gzip body instead of transparently decompressing it.
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Connection", "keep-alive")
	if a.opts.UserAgent != nil {
		req.Header.Set("User-Agent", *a.opts.UserAgent)
	}

	return req, nil
}

// readSnippet drains at most statusSnippetLimit bytes of an error
// response body.
func readSnippet(body io.Reader) string {
	snippet, err := io.ReadAll(io.LimitReader(body, statusSnippetLimit))
	if err != nil {
		return ""
	}

	return string(snippet)
}
