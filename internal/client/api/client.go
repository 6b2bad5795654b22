// Package api is the authenticated HTTP client for the RiskCheck backend.
//
// Every request reads the current access token from a session.Store and
// sends it as a bearer credential. When the backend answers 401 the client
// refreshes the session once, using the refresh cookie held by the cookie
// jar, and replays the request with the new token. Concurrent 401s share a
// single in-flight refresh and all observe its outcome.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/riskcheck/console/internal/client/session"
	"github.com/riskcheck/console/internal/common"
	"github.com/riskcheck/console/internal/logging"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshPath is the backend endpoint that trades the refresh cookie
// for a new access token.
const DefaultRefreshPath = "/auth/refresh"

// Request describes one logical API call. Body is kept as bytes so the
// request can be replayed after a refresh.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte

	// SkipRefresh marks credential endpoints (login, register, refresh):
	// a 401 there means bad input, not an expired session.
	SkipRefresh bool
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client is safe for concurrent use.
type Client struct {
	baseURL     *url.URL
	http        *http.Client
	store       session.Store
	policy      session.ExpiryPolicy
	logger      logging.Logger
	refreshPath string
	requestID   func() string

	refreshes  singleflight.Group
	refreshing atomic.Bool
}

type Option func(*Client)

// WithHTTPClient replaces the transport. Its Jar, if any, is where the
// refresh cookie and server-set access token cookie are read from.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithRefreshPath(p string) Option {
	return func(c *Client) { c.refreshPath = p }
}

func WithTokenPolicy(p session.ExpiryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// New returns a Client for baseURL (e.g. "http://localhost:8000/api/v1").
func New(baseURL string, store session.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}

	c := &Client{
		baseURL:     u,
		http:        &http.Client{},
		store:       store,
		logger:      logging.Nop(),
		refreshPath: DefaultRefreshPath,
		requestID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root all paths are resolved against.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// URL resolves path against the base URL.
func (c *Client) URL(path string, query url.Values) *url.URL {
	u := c.BaseURL()
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

// Refreshing reports whether a session refresh is in flight.
func (c *Client) Refreshing() bool {
	return c.refreshing.Load()
}

// Do sends r, transparently recovering once from an expired access token.
//
// Transport errors are returned unchanged. Non-2xx responses become
// *APIError. A 401 on the replayed request is final.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || r.SkipRefresh {
		return checkStatus(resp)
	}

	if _, err := c.Refresh(ctx); err != nil {
		return nil, err
	}

	resp, err = c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warn(ctx, "request unauthorized after refresh", "method", r.Method, "path", r.Path)
	}
	return checkStatus(resp)
}

func checkStatus(resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	return nil, newAPIError(resp.StatusCode, resp.Body)
}

// send performs a single attempt with whatever token the store holds now.
func (c *Client) send(ctx context.Context, r Request) (*Response, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, c.URL(r.Path, r.Query).String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	id := c.requestID()
	req.Header.Set(common.RequestIDHeaderName, id)
	c.logger.Debug(logging.WithRequestID(ctx, id), "api request", "method", r.Method, "path", r.Path)

	tok, err := c.store.Load(ctx)
	switch {
	case err == nil:
		tok.OAuth2().SetAuthHeader(req)
	case errors.Is(err, common.ErrNoSession):
	default:
		return nil, fmt.Errorf("load session: %w", err)
	}

	return c.roundTrip(req)
}

func (c *Client) roundTrip(req *http.Request) (*Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}
