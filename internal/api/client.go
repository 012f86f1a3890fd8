// Package api provides a typed HTTP client for the Nexopeak campaign
// optimization REST API. All calls are JSON over HTTP, authenticated with a
// bearer token obtained from an injected TokenSource.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the CLI to the backend.
const DefaultUserAgent = "nexopeak-cli/1.0"

// basePath is the API version prefix shared by all endpoints.
const basePath = "/api/v1"

// ErrUnauthorized is returned when the backend rejects the bearer token.
// The client has already invoked the OnUnauthorized hook by the time callers
// see this error.
var ErrUnauthorized = errors.New("unauthorized: the backend rejected the stored credentials")

// TokenSource supplies the bearer token for authenticated requests.
// *session.Store implements it.
type TokenSource interface {
	Token() (string, error)
}

// Error is an API-level failure: a non-2xx response or a transport problem.
type Error struct {
	Method     string
	Path       string
	StatusCode int    // zero for transport errors
	Detail     string // backend-provided detail message, if any
	Cause      error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Detail != "":
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Path, e.Cause)
	default:
		return fmt.Sprintf("%s %s: request failed", e.Method, e.Path)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	// BaseURL is the backend origin, e.g. https://api.nexopeak.io.
	BaseURL string
	// Tokens supplies the bearer token. May be nil for unauthenticated
	// clients (login only).
	Tokens TokenSource
	// OnUnauthorized runs once per 401 response, before ErrUnauthorized is
	// returned. The session store's Clear method goes here.
	OnUnauthorized func()
	// HTTPClient overrides the default client (tests, custom transports).
	HTTPClient *http.Client
	UserAgent  string
}

// Client is the typed API client. Create one with NewClient.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	userAgent      string
}

// NewClient validates options and builds a client.
func NewClient(opts Options) (*Client, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           httpClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		userAgent:      userAgent,
	}, nil
}

// errorBody is the backend's error envelope. Detail is usually a string but
// validation failures nest a structured object.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// doRaw executes one request and returns the response body on the expected
// status code. Authentication is applied whenever a token source is present.
func (c *Client) doRaw(ctx context.Context, method, path string, body interface{}, expected int) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Method: method, Path: path, Cause: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+basePath+path, reader)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Cause: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     decodeDetail(data),
			Cause:      ErrUnauthorized,
		}
	}

	if resp.StatusCode != expected {
		return nil, &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     decodeDetail(data),
		}
	}

	return data, nil
}

// decodeDetail extracts the backend's detail message from an error body.
func decodeDetail(data []byte) string {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	// Structured detail (e.g. questionnaire validation errors): pass the
	// compacted JSON through so nothing is lost.
	var buf bytes.Buffer
	if err := json.Compact(&buf, eb.Detail); err != nil {
		return string(eb.Detail)
	}
	return buf.String()
}

// request executes a call and decodes the JSON response into T.
func request[T any](ctx context.Context, c *Client, method, path string, body interface{}, expected int) (*T, error) {
	data, err := c.doRaw(ctx, method, path, body, expected)
	if err != nil {
		return nil, err
	}

	var t T
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, &Error{Method: method, Path: path, Cause: fmt.Errorf("failed to decode response: %w", err)}
	}
	return &t, nil
}
