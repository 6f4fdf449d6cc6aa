package rules

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosecat/hose/pkg/hoserrs"
)

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(&Options{})
	require.Error(t, err)
	assert.True(t, hoserrs.IsConfigurationError(err))
}

func TestListDecodesRuleSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"rules":[{"value":"lang:en","tag":"english"},{"value":"cats"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL, Username: "user", Password: "pass"})
	require.NoError(t, err)

	rules, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "lang:en", rules[0].Value)
	require.NotNil(t, rules[0].Tag)
	assert.Equal(t, "english", *rules[0].Tag)
	assert.Nil(t, rules[1].Tag)
}

func TestAddPostsRuleSet(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL})
	require.NoError(t, err)

	tag := "english"
	err = c.Add(context.Background(), []Rule{{Value: "lang:en", Tag: &tag}})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)

	var sent struct {
		Rules []Rule `json:"rules"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	require.Len(t, sent.Rules, 1)
	assert.Equal(t, "lang:en", sent.Rules[0].Value)
}

func TestRemoveSendsDeleteWithBody(t *testing.T) {
	var gotMethod string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL})
	require.NoError(t, err)

	err = c.Remove(context.Background(), []Rule{{Value: "cats"}})
	require.NoError(t, err)

	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Contains(t, string(gotBody), `"cats"`)
}

func TestNon2xxSurfacesStatusAndSnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("rule syntax error"))
	}))
	defer srv.Close()

	c, err := NewClient(&Options{Endpoint: srv.URL})
	require.NoError(t, err)

	err = c.Add(context.Background(), []Rule{{Value: "(("}})
	require.Error(t, err)

	var protoErr *hoserrs.ProtocolError
	require.True(t, errors.As(err, &protoErr))
	assert.Equal(t, http.StatusUnprocessableEntity, protoErr.StatusCode())
	assert.Equal(t, "rule syntax error", protoErr.Metadata()["body_snippet"])
}
