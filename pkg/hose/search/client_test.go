package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosecat/hose/pkg/hoserrs"
)

// passLimiter admits every request and counts admissions.
type passLimiter struct{ waits int }

func (l *passLimiter) Wait(context.Context) error {
	l.waits++

	return nil
}

// failLimiter refuses admission.
type failLimiter struct{}

func (failLimiter) Wait(context.Context) error {
	return errors.New("limiter exhausted")
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(&Options{})
	require.Error(t, err)
	assert.True(t, hoserrs.IsConfigurationError(err))
}

func TestSearchWaitsOnLimiterAndMergesQuery(t *testing.T) {
	var gotQuery url.Values
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	limiter := &passLimiter{}
	c, err := NewClient(&Options{
		Endpoint: srv.URL + "/search.json?publisher=hose",
		Username: "user",
		Password: "pass",
		Limiter:  limiter,
	})
	require.NoError(t, err)

	query := url.Values{}
	query.Set("q", "from:somewhere")
	query.Set("publisher", "override")

	result, err := c.Search(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, 1, limiter.waits)
	assert.Equal(t, "from:somewhere", gotQuery.Get("q"))
	assert.Equal(t, "override", gotQuery.Get("publisher"), "query must win over endpoint parameters")
	assert.NotEmpty(t, gotAuth)
	assert.NotNil(t, result["results"])
}

func TestSearchPreservesLargeNumbers(t *testing.T) {
	const id = "9223372036854775807"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":` + id + `}`))
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL, Limiter: &passLimiter{}})
	require.NoError(t, err)

	result, err := c.Search(context.Background(), nil)
	require.NoError(t, err)

	num, ok := result["id"].(json.Number)
	require.True(t, ok, "expected json.Number, got %T", result["id"])
	assert.Equal(t, id, num.String())
}

func TestSearchRefusedByLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent when the limiter refuses")
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL, Limiter: failLimiter{}})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, hoserrs.IsTransportError(err))
}

func TestSearchNon2xxSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL, Limiter: &passLimiter{}})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), nil)
	require.Error(t, err)

	var protoErr *hoserrs.ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.Equal(t, http.StatusTooManyRequests, protoErr.StatusCode())
}
