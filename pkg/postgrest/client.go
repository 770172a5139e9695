package postgrest

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

	"github.com/edgeflare/pgrst/pkg/httputil"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds each request when no transport is supplied.
	DefaultTimeout = 5 * time.Second
	// DefaultSchema is the PostgreSQL schema queried unless WithSchema overrides it.
	DefaultSchema = "public"
)

// Client holds connection configuration for a PostgREST endpoint and mints
// query builders. Configuration is fixed at construction except for the
// default headers, which SetAuth mutates. A Client is not meant to be
// reconfigured from concurrent goroutines; executing queries from multiple
// goroutines is fine since each builder owns its own state.
type Client struct {
	baseURL   *url.URL
	headers   http.Header
	schema    string
	timeout   time.Duration
	transport httputil.Doer
	logger    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHeaders merges default headers sent on every request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		for k, v := range headers {
			c.headers.Set(k, v)
		}
	}
}

// WithTimeout sets the per-request timeout of the default transport. It has
// no effect when WithTransport is also supplied.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithSchema selects the PostgreSQL schema to query. Reads send it as
// Accept-Profile, writes as Content-Profile.
func WithSchema(schema string) Option {
	return func(c *Client) { c.schema = schema }
}

// WithTransport overrides the HTTP transport, e.g. with an
// httputil.RetryTransport or metrics.Transport decorator.
func WithTransport(d httputil.Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.transport = d
		}
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for the given PostgREST base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, &ConfigError{Field: "base URL", Reason: "must not be empty"}
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, &ConfigError{Field: "base URL", Reason: err.Error()}
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, &ConfigError{Field: "base URL", Reason: "must be absolute"}
	}

	c := &Client{
		baseURL: parsed,
		headers: http.Header{
			"Accept":       []string{"application/json"},
			"Content-Type": []string{"application/json"},
		},
		schema:  DefaultSchema,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = httputil.NewTransport(c.timeout)
	}
	return c, nil
}

// SetAuth sets the Authorization default header to a bearer token. Builders
// minted afterwards carry it; builders minted before do not.
func (c *Client) SetAuth(token string) {
	c.headers.Set("Authorization", "Bearer "+token)
}

// From returns a query builder scoped to the given table or view.
func (c *Client) From(table string) (*QueryBuilder, error) {
	if strings.TrimSpace(table) == "" {
		return nil, &ConfigError{Field: "table name", Reason: "must not be empty"}
	}
	return &QueryBuilder{
		client:  c,
		path:    "/" + table,
		headers: c.headers.Clone(),
		method:  http.MethodGet,
		limit:   -1,
		offset:  -1,
	}, nil
}

// Rpc returns a builder that invokes the stored function fn with the given
// params as JSON body via POST /rpc/{fn}.
func (c *Client) Rpc(fn string, params any) (*RpcBuilder, error) {
	if strings.TrimSpace(fn) == "" {
		return nil, &ConfigError{Field: "function name", Reason: "must not be empty"}
	}
	if params == nil {
		params = map[string]any{}
	}
	return &RpcBuilder{
		QueryBuilder: QueryBuilder{
			client:  c,
			path:    "/rpc/" + fn,
			headers: c.headers.Clone(),
			method:  http.MethodPost,
			body:    params,
			limit:   -1,
			offset:  -1,
		},
		params: params,
	}, nil
}

// do serializes and sends one request, mapping failures to TransportError and
// non-2xx responses to APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers http.Header, body any) (*Response, error) {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("postgrest: marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("postgrest: build request: %w", err)
	}
	for k, values := range headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	c.setProfileHeader(req, method)

	start := time.Now()
	resp, err := c.transport.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("url", u.String()),
			zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return newResponse(resp.StatusCode, resp.Header, respBody), nil
}

// setProfileHeader advertises the target schema: Accept-Profile on reads,
// Content-Profile on writes.
func (c *Client) setProfileHeader(req *http.Request, method string) {
	if c.schema == "" {
		return
	}
	switch method {
	case http.MethodGet, http.MethodHead:
		req.Header.Set("Accept-Profile", c.schema)
	default:
		req.Header.Set("Content-Profile", c.schema)
	}
}
