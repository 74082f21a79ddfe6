// Package api is the single choke point for network I/O against the
// BookBuster backend. Every exported operation performs exactly one HTTP
// request, parses the expected JSON shape, and normalizes every failure
// into *APIError so callers display one message and optionally retry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookbuster/internal/session"
)

// DefaultBaseURL is the backend the client talks to unless configured
// otherwise.
const DefaultBaseURL = "http://localhost:5000/api"

// Client wraps the backend's REST surface. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	sessions session.Store
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	tracer   trace.Tracer
	log      *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client. The cookie jar is
// installed on it if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit caps outgoing request rate.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, burst) }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the backend at baseURL. The session store
// receives the authenticated user on login and is cleared on logout; any
// cookies already persisted there are adopted so a prior session resumes.
func New(baseURL string, sessions session.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	c := &Client{
		baseURL:  u,
		sessions: sessions,
		limiter:  rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
		tracer:   otel.Tracer("bookbuster/api"),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "bookbuster-api",
		Timeout: 10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	if rec, ok := sessions.Get(); ok {
		c.adoptCookies(rec.Cookies)
	}

	return c, nil
}

// adoptCookies seeds the jar from a persisted session record.
func (c *Client) adoptCookies(cookies []session.Cookie) {
	hc := make([]*http.Cookie, 0, len(cookies))
	for _, ck := range cookies {
		hc = append(hc, &http.Cookie{Name: ck.Name, Value: ck.Value, Path: "/"})
	}
	c.http.Jar.SetCookies(c.baseURL, hc)
}

// currentCookies snapshots the jar for persistence.
func (c *Client) currentCookies() []session.Cookie {
	var out []session.Cookie
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		out = append(out, session.Cookie{Name: ck.Name, Value: ck.Value})
	}
	return out
}

// do performs one request. Out, when non-nil, receives the decoded 2xx
// body; a 204 resolves without reading the body at all.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(err)
	}

	ctx, span := c.tracer.Start(ctx, "api.request",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return transportError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.http.Do(req)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("request.failed", true))
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return transportError(err)
	}
	resp := result.(*http.Response)
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp)
		c.log.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", apiErr.Status),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}
