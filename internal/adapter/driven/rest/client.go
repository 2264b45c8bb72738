// Package rest implements the BackendClient port over the bookmark
// backend's REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gregjones/httpcache"

	"github.com/linkdeck-app/linkdeck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BackendClient = (*Client)(nil)

// TokenSource yields the bearer token for an outgoing request. It is
// consulted at request-build time, never cached per session, so clearing the
// credential store takes effect on the very next call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StoreTokenSource reads the token from the durable credential store.
type StoreTokenSource struct {
	Creds driven.CredentialStore
}

// Token returns the stored token, or "" when logged out or unreadable.
func (s StoreTokenSource) Token(ctx context.Context) (string, error) {
	if s.Creds == nil {
		return "", nil
	}
	cred, err := s.Creds.Get(ctx)
	if err != nil || cred == nil {
		return "", err
	}
	return cred.Token, nil
}

// StaticTokenSource returns a fixed token. Used in tests.
type StaticTokenSource string

// Token returns the fixed token.
func (s StaticTokenSource) Token(context.Context) (string, error) {
	return string(s), nil
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// Unwrap maps auth statuses onto the port sentinels so callers can test with
// errors.Is without importing this package.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return driven.ErrUnauthenticated
	case http.StatusForbidden:
		return driven.ErrForbidden
	}
	return nil
}

// Client talks to the bookmark backend. The auth service and the api service
// are separate deployments with separate base URLs. GET responses pass
// through an in-memory httpcache transport for conditional-request caching.
type Client struct {
	http     *http.Client
	authBase *url.URL
	apiBase  *url.URL
	tokens   TokenSource
	logger   *slog.Logger

	// The cache keys entries by URL alone, so it must never span two
	// identities: a token change flushes it.
	cacheMu        sync.Mutex
	cacheTransport *httpcache.Transport
	lastToken      string
}

// NewClient creates a backend client over the two service base URLs.
func NewClient(authBaseURL, apiBaseURL string, tokens TokenSource) (*Client, error) {
	transport := httpcache.NewMemoryCacheTransport()
	c, err := NewClientWithHTTPClient(&http.Client{Transport: transport}, authBaseURL, apiBaseURL, tokens)
	if err != nil {
		return nil, err
	}
	c.cacheTransport = transport
	return c, nil
}

// NewClientWithHTTPClient creates a Client with a caller-supplied
// http.Client. Intended for tests, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, authBaseURL, apiBaseURL string, tokens TokenSource) (*Client, error) {
	authBase, err := url.Parse(authBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing auth base URL: %w", err)
	}
	apiBase, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing api base URL: %w", err)
	}

	return &Client{
		http:     httpClient,
		authBase: authBase,
		apiBase:  apiBase,
		tokens:   tokens,
		logger:   slog.Default(),
	}, nil
}

// doJSON performs one request. body, when non-nil, is sent as a JSON object;
// out, when non-nil, receives the decoded response body. The bearer token is
// resolved per request.
func (c *Client) doJSON(ctx context.Context, method string, u *url.URL, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.Warn("token lookup failed, sending request unauthenticated", "error", err)
	}
	c.flushCacheOnTokenChange(token)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body, resp.StatusCode)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response from %s: %w", u.Path, err)
		}
	}
	// Drain to EOF so the transport can reuse the connection and the cache
	// layer sees the complete body.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// flushCacheOnTokenChange discards every cached response when the bearer
// token differs from the one used on the previous request. Login, logout,
// and switching accounts all invalidate the whole cache.
func (c *Client) flushCacheOnTokenChange(token string) {
	if c.cacheTransport == nil {
		return
	}
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	if token != c.lastToken {
		c.cacheTransport.Cache = httpcache.NewMemoryCache()
		c.lastToken = token
	}
}

// errorMessage extracts the backend's error text from a failure body,
// falling back to the HTTP status text.
func errorMessage(body io.Reader, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err == nil && json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if s := strings.TrimSpace(string(data)); s != "" && len(s) < 200 {
		return s
	}
	return http.StatusText(status)
}

// authURL joins a path onto the auth service base.
func (c *Client) authURL(path string) *url.URL {
	return c.authBase.JoinPath(path)
}

// apiURL joins a path onto the api service base.
func (c *Client) apiURL(parts ...string) *url.URL {
	return c.apiBase.JoinPath(parts...)
}
