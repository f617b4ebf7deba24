// Package marketplace is the HTTP client for the remote marketplace REST API:
// auth, job listings, artisan discovery, categories and user profiles.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

// Client is an HTTP implementation of the marketplace API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path, token string, payload any) (request, error) {
	r := request{method: method, path: path, token: token}
	if payload == nil {
		return r, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("failed to marshal request body: %w", err)
	}
	r.body = bytes.NewReader(body)
	r.contentType = "application/json"
	return r, nil
}

// do sends r and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logError("marketplace request failed", "method", r.method, "path", r.path, "error", err)
		return &TransportError{Op: r.method + " " + r.path, Err: err}
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug("marketplace request", "method", r.method, "path", r.path,
			"status", resp.StatusCode, "duration", time.Since(start))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrAuthExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		terr := &TransportError{
			Op:      r.method + " " + r.path,
			Status:  resp.StatusCode,
			Message: serverMessage(body),
		}
		c.logError("marketplace request rejected", "method", r.method, "path", r.path,
			"status", resp.StatusCode, "message", terr.Message)
		return terr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return &TransportError{Op: r.method + " " + r.path, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response body: %w", err)}
	}
	return nil
}

func (c *Client) logError(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Error(msg, args...)
	}
}
