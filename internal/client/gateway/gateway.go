// Package gateway is the single choke point for backend calls. It attaches
// the bearer token, decodes responses tolerantly and handles session expiry
// (401) uniformly: the session is cleared and the caller is sent to login.
//
// Every call is one attempt. There is no retry, queueing, deduplication or
// cancellation of in-flight requests beyond what the caller's context does.
package gateway

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
	"time"

	"github.com/SscSPs/treasury_backoffice/internal/client/session"
)

// DefaultLoginRoute is where the fallback navigator sends the operator.
const DefaultLoginRoute = "/login"

// Session is the part of the session manager the gateway uses.
type Session interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context, reason string) error
}

// Navigator moves the operator to another view.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// Options describe a single request.
type Options struct {
	Method string
	// Body is sent as-is when it is []byte, json.RawMessage or io.Reader and
	// JSON-encoded otherwise.
	Body   any
	Header http.Header
	Query  url.Values
}

// Response is a successful (2xx) response. Payload is nil when the body was
// empty, markup, or not valid JSON.
type Response struct {
	StatusCode int
	Header     http.Header
	Payload    json.RawMessage
}

// HasPayload reports whether a usable JSON payload was decoded.
func (r *Response) HasPayload() bool { return r != nil && len(r.Payload) > 0 }

// Client issues authenticated requests against the backend API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	session    Session
	navigator  Navigator
	loginRoute string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithNavigator sets the fallback navigator used on 401 when the caller
// passed no expiry callback.
func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

// WithLoginRoute overrides DefaultLoginRoute.
func WithLoginRoute(route string) Option {
	return func(c *Client) { c.loginRoute = route }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client resolving relative endpoints against baseURL.
func New(baseURL string, sess Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
		session:    sess,
		loginRoute: DefaultLoginRoute,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request performs one backend call.
//
// On 401 the whole session is cleared, onExpired is invoked (or the
// fallback navigator when onExpired is nil) and an error matching
// ErrUnauthorized is returned. Other non-2xx statuses yield a *RequestError,
// network failures a *TransportError.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options, onExpired func()) (*Response, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	logger := c.logger.With(slog.String("method", method), slog.String("endpoint", endpoint))

	target, err := c.resolve(endpoint, opts.Query)
	if err != nil {
		return nil, err
	}

	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body for %s %s: %w", method, endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request %s %s: %w", method, endpoint, err)
	}
	for k, vals := range opts.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	token, err := c.session.Token(ctx)
	if err != nil {
		logger.Warn("Could not read session token, sending request anonymously", slog.String("error", err.Error()))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("Request did not reach the server", slog.String("error", err.Error()))
		return nil, &TransportError{Method: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("Failed to read response body", slog.String("error", err.Error()))
		raw = nil
	}
	payload := decodePayload(raw)
	logger.Debug("Request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("latency", time.Since(start)),
		slog.Bool("payload", payload != nil),
	)

	if resp.StatusCode == http.StatusUnauthorized {
		c.expire(ctx, logger, onExpired)
		return nil, fmt.Errorf("%w: %s %s", ErrUnauthorized, method, endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Payload:    payload,
			Message:    extractMessage(payload),
		}
		logger.Warn("Request failed", slog.Int("status", resp.StatusCode), slog.String("message", reqErr.Message))
		return nil, reqErr
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Payload: payload}, nil
}

// Get is Request with GET.
func (c *Client) Get(ctx context.Context, endpoint string, onExpired func()) (*Response, error) {
	return c.Request(ctx, endpoint, Options{Method: http.MethodGet}, onExpired)
}

// Post is Request with POST and a JSON body.
func (c *Client) Post(ctx context.Context, endpoint string, body any, onExpired func()) (*Response, error) {
	return c.Request(ctx, endpoint, Options{Method: http.MethodPost, Body: body}, onExpired)
}

// Put is Request with PUT and a JSON body.
func (c *Client) Put(ctx context.Context, endpoint string, body any, onExpired func()) (*Response, error) {
	return c.Request(ctx, endpoint, Options{Method: http.MethodPut, Body: body}, onExpired)
}

func (c *Client) expire(ctx context.Context, logger *slog.Logger, onExpired func()) {
	logger.Warn("Session rejected by server, logging out")
	// The clear must happen even when the request context is already done.
	if err := c.session.Clear(context.WithoutCancel(ctx), session.ReasonExpired); err != nil {
		logger.Error("Failed to clear expired session", slog.String("error", err.Error()))
	}
	switch {
	case onExpired != nil:
		onExpired()
	case c.navigator != nil:
		c.navigator.Navigate(c.loginRoute)
	default:
		logger.Warn("No navigator configured for session expiry", slog.String("login_route", c.loginRoute))
	}
}

func (c *Client) resolve(endpoint string, query url.Values) (string, error) {
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	var u *url.URL
	if ref.IsAbs() {
		u = ref
	} else {
		ref.Path = strings.TrimLeft(ref.Path, "/")
		u = c.baseURL.ResolveReference(ref)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vals := range query {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return b, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

// decodePayload returns the trimmed body when it is JSON and nil when it is
// empty, markup (an HTML error page) or otherwise unparsable.
func decodePayload(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] == '<' {
		return nil
	}
	if !json.Valid(trimmed) {
		return nil
	}
	return json.RawMessage(trimmed)
}
