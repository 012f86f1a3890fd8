package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BenjaminR-PM/nexopeak-cli/internal/types"
)

type staticTokens string

func (s staticTokens) Token() (string, error) { return string(s), nil }

type failingTokens struct{}

func (failingTokens) Token() (string, error) { return "", errors.New("not logged in") }

func newTestClient(t *testing.T, server *httptest.Server, opts Options) *Client {
	t.Helper()
	opts.BaseURL = server.URL
	c, err := NewClient(opts)
	require.NoError(t, err)
	return c
}

func TestNewClient_RejectsBadBaseURL(t *testing.T) {
	for _, bad := range []string{"", "not a url", "api.nexopeak.io", "https://"} {
		_, err := NewClient(Options{BaseURL: bad})
		assert.Error(t, err, "base URL %q", bad)
	}
}

func TestClient_SetsStandardHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		assert.Equal(t, "/api/v1/campaigns/c-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(types.Campaign{ID: "c-1"})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok-123")})
	_, err := c.Campaign(context.Background(), "c-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.Equal(t, DefaultUserAgent, got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClient_NoAuthHeaderWithoutTokenSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(types.TokenResponse{AccessToken: "tok", TokenType: "bearer"})
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{})
	resp, err := c.Login(context.Background(), types.LoginRequest{Email: "a@b.co", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
}

func TestClient_TokenSourceFailureShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server")
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: failingTokens{}})
	_, err := c.Campaign(context.Background(), "c-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestClient_UnauthorizedInvokesHookAndWrapsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}))
	defer server.Close()

	cleared := 0
	c := newTestClient(t, server, Options{
		Tokens:         staticTokens("stale"),
		OnUnauthorized: func() { cleared++ },
	})

	_, err := c.Campaign(context.Background(), "c-1")
	require.Error(t, err)
	assert.Equal(t, 1, cleared)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Could not validate credentials", apiErr.Detail)
}

func TestClient_UnexpectedStatusCarriesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Campaign not found"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	_, err := c.Campaign(context.Background(), "missing")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Campaign not found", apiErr.Detail)
	assert.Contains(t, apiErr.Error(), "HTTP 404")
}

func TestClient_StructuredDetailIsPreserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": {"errors": ["missing answer for campaign_urgency"] }}`))
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})
	_, err := c.SubmitQuestionnaire(context.Background(), "c-1", types.AnswerMap{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.JSONEq(t, `{"errors": ["missing answer for campaign_urgency"]}`, apiErr.Detail)
}

func TestClient_TransportErrorHasZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	c, err := NewClient(Options{BaseURL: server.URL, Tokens: staticTokens("tok")})
	require.NoError(t, err)

	_, err = c.Campaign(context.Background(), "c-1")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.NotNil(t, apiErr.Cause)
}

func TestClient_ContextCancellationAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(t, server, Options{Tokens: staticTokens("tok")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Campaign(ctx, "c-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeDetail(t *testing.T) {
	assert.Equal(t, "boom", decodeDetail([]byte(`{"detail": "boom"}`)))
	assert.Equal(t, `{"a":1}`, decodeDetail([]byte(`{"detail": {"a": 1}}`)))
	assert.Empty(t, decodeDetail([]byte(`{}`)))
	assert.Empty(t, decodeDetail([]byte(`not json`)))
	assert.Empty(t, decodeDetail(nil))
}
