// Package api provides a typed client for the remote game-matching REST API.
package api

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

	"github.com/google/uuid"
	"github.com/hoopmatch/internal/config"
)

// TokenSource supplies the current bearer token, or "" when logged out
type TokenSource func() string

// UnauthorizedHandler is invoked once per 401 response received outside the
// login/signup operations. It implements the global forced re-auth policy:
// clear the session, then send the user back to the login entry point.
type UnauthorizedHandler func()

// Client is a typed gateway to the remote API. Every authenticated request
// carries the bearer token; login and signup are exempt.
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *slog.Logger
	tokenSource    TokenSource
	onUnauthorized UnauthorizedHandler
}

// Option configures a Client
type Option func(*Client)

// WithTokenSource sets the bearer token supplier
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokenSource = ts }
}

// WithUnauthorizedHandler sets the global 401 policy hook
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) { c.onUnauthorized = h }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the configured API endpoint
func New(cfg *config.APIConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call issues a request and decodes the 2xx response body into out (skipped
// when out is nil or the body is empty).
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	data, _, err := c.roundTrip(ctx, method, path, query, body, false)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// callAuthExempt is call for the login/signup operations: no bearer token is
// attached and a 401 does not trigger the forced re-auth policy.
func (c *Client) callAuthExempt(ctx context.Context, method, path string, body, out any) error {
	data, _, err := c.roundTrip(ctx, method, path, nil, body, true)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// roundTrip executes one request and returns the raw response body and
// status. Error responses are converted to *APIError with the server's
// message field carried verbatim.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any, authExempt bool) ([]byte, int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encoding %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("building %s %s request: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if !authExempt {
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading %s %s response: %w", method, path, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && !authExempt && c.onUnauthorized != nil {
			c.logger.Warn("session rejected by server, forcing re-authentication",
				"method", method,
				"path", path,
			)
			c.onUnauthorized()
		}
		return nil, resp.StatusCode, apiErr
	}

	return data, resp.StatusCode, nil
}

func (c *Client) token() string {
	if c.tokenSource == nil {
		return ""
	}
	return c.tokenSource()
}
