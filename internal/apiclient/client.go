// Package apiclient is a typed client for the supp.ai backend REST API.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/suppai/internal/apperr"
)

// DefaultUpstream is used for server-side requests when no origin is configured.
const DefaultUpstream = "http://proxy:80"

// DefaultClientID identifies this UI to the backend.
const DefaultClientID = "supp-ai-ui"

// ExecContext says where a request is issued from.
type ExecContext int

const (
	// Browser requests are made relative to the page's own origin.
	Browser ExecContext = iota
	// Server requests go straight to the upstream, skipping the public ingress.
	Server
)

// ResolveOrigin returns the request origin for the given execution context.
func ResolveOrigin(ec ExecContext, upstream string) string {
	if ec == Browser {
		return ""
	}
	upstream = strings.TrimRight(strings.TrimSpace(upstream), "/")
	if upstream == "" {
		return DefaultUpstream
	}
	return upstream
}

// Client issues GET requests against the backend.
type Client struct {
	origin   string
	clientID string
	http     *http.Client
	logger   *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithClientID overrides the clientId parameter.
func WithClientID(id string) Option {
	return func(c *Client) { c.clientID = id }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for origin, typically ResolveOrigin(Server, cfg).
func New(origin string, opts ...Option) *Client {
	c := &Client{
		origin:   strings.TrimRight(origin, "/"),
		clientID: DefaultClientID,
		http:     &http.Client{Timeout: 10 * time.Second},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Origin returns the origin requests are issued against.
func (c *Client) Origin() string {
	return c.origin
}

// get issues GET origin+path?params and decodes a JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("clientId", c.clientID)
	u := c.origin + path + "?" + params.Encode()
	op := "GET " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &apperr.StatusError{Op: op, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, apperr.ErrDecode, err)
	}
	return nil
}

func pathSegment(s string) string {
	return url.PathEscape(s)
}
