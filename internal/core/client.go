// Package core talks to the core identity service, which answers three
// questions for this service: who is calling, what may they do, and what
// is a given body.
package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"eventreg/internal/platform/middleware"
)

const (
	defaultTimeout  = 5 * time.Second
	maxResponseSize = 1 << 20
	tracerName      = "eventreg/internal/core"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
	cache    BodyCache
	cacheTTL time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call; a deadline exceeded is a dependency failure.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithBodyCache caches successful body lookups for ttl.
func WithBodyCache(cache BodyCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("core base URL is required")
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		timeout: defaultTimeout,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.timeout <= 0 {
		return nil, errors.New("core timeout must be positive")
	}
	return c, nil
}

// envelope is the core's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// begin opens the span and deadline for one logical call. finish records
// the outcome; a nil error with outcome "" is reported as "ok".
func (c *Client) begin(ctx context.Context, call string, attrs ...attribute.KeyValue) (context.Context, func(outcome string, err error)) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	ctx, span := c.tracer.Start(ctx, "core."+call, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
	return ctx, func(outcome string, err error) {
		defer cancel()
		defer span.End()
		if err != nil {
			if cat := CategoryOf(err); cat != "" {
				outcome = string(cat)
			} else if outcome == "" {
				outcome = "error"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		if outcome == "" {
			outcome = "ok"
		}
		span.SetAttributes(attribute.String("core.outcome", outcome))
		c.metrics.observe(call, outcome, time.Since(start))
	}
}

// do sends one request. Only transport-level problems are errors; status
// handling belongs to the caller.
func (c *Client) do(ctx context.Context, call, method, path, token string, payload any) (response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return response{}, fmt.Errorf("encode %s request: %w", call, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, fmt.Errorf("build %s request: %w", call, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(middleware.TokenHeader, token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return response{}, newCallError(ErrorTimeout, call, 0, "request timed out", err)
		}
		return response{}, newCallError(ErrorOutage, call, 0, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return response{}, newCallError(ErrorTimeout, call, resp.StatusCode, "reading response timed out", err)
		}
		return response{}, newCallError(ErrorOutage, call, resp.StatusCode, "reading response failed", err)
	}
	return response{status: resp.StatusCode, body: raw}, nil
}

// statusError classifies a non-2xx answer that the caller has no special
// meaning for.
func statusError(call string, status int) error {
	if status >= http.StatusInternalServerError {
		return newCallError(ErrorOutage, call, status, "core answered with server error", nil)
	}
	return newCallError(ErrorUnsuccessful, call, status, "core answered with unexpected status", nil)
}

// decodeData unwraps a successful envelope into out.
func decodeData(call string, resp response, out any) error {
	var env envelope
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return newCallError(ErrorBadData, call, resp.status, "malformed response envelope", err)
	}
	if !env.Success {
		msg := "core reported failure"
		if env.Message != "" {
			msg += ": " + env.Message
		}
		return newCallError(ErrorUnsuccessful, call, resp.status, msg, nil)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return newCallError(ErrorBadData, call, resp.status, "response has no data", nil)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return newCallError(ErrorBadData, call, resp.status, "malformed response data", err)
	}
	return nil
}
