package upstream

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

	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/ctxutil"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/ncobase/composite/upstream"
	maxBodyBytes        = 4 << 20
)

// Client calls one upstream service. It is safe for concurrent use.
type Client struct {
	name    string
	base    *url.URL
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	http    *http.Client
	tracer  trace.Tracer
}

// Option configures a Client.
type Option func(*options)

type options struct {
	transport      http.RoundTripper
	tracerProvider trace.TracerProvider
}

// WithTransport sets the base transport, http.DefaultTransport by default.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithTracerProvider sets the tracer provider, the global one by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// NewClient creates a client for cfg whose requests go to base, the
// resolved http(s) base URL of the upstream.
func NewClient(cfg *config.Upstream, base string, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("upstream config is nil")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid %s base URL: %w", cfg.Name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid %s base URL %q: scheme must be http or https", cfg.Name, base)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	o := &options{
		transport:      http.DefaultTransport,
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(o)
	}

	cb := newBreaker(cfg.Name, cfg.Breaker)
	return &Client{
		name:    cfg.Name,
		base:    u,
		timeout: cfg.Timeout,
		breaker: cb,
		http: &http.Client{
			Transport: &breakerTransport{next: o.transport, cb: cb},
		},
		tracer: o.tracerProvider.Tracer(instrumentationName),
	}, nil
}

// Name returns the upstream name.
func (c *Client) Name() string { return c.name }

// Base returns the resolved base URL.
func (c *Client) Base() *url.URL {
	u := *c.base
	return &u
}

// Timeout returns the per-call timeout.
func (c *Client) Timeout() time.Duration { return c.timeout }

// State returns the circuit breaker state.
func (c *Client) State() gobreaker.State { return c.breaker.State() }

// Counts returns the circuit breaker counters of the current generation.
func (c *Client) Counts() gobreaker.Counts { return c.breaker.Counts() }

// Transport returns the breaker-guarded transport, for callers that build
// their own requests against this upstream.
func (c *Client) Transport() http.RoundTripper { return c.http.Transport }

// URL appends path segments to the base URL and attaches query. Each
// segment is escaped as a single path element and never cleaned, so a
// segment holding "/" or ".." cannot move the target.
func (c *Client) URL(query url.Values, segments ...string) *url.URL {
	u := c.Base()
	if len(segments) > 0 {
		raw := u.EscapedPath()
		for _, s := range segments {
			raw += "/" + url.PathEscape(s)
		}
		if p, err := url.PathUnescape(raw); err == nil {
			u.Path, u.RawPath = p, raw
		}
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u
}

// response is a fully read upstream answer.
type response struct {
	Status int
	Body   []byte
}

// do performs one call. Any status outside 2xx is returned as an *Error,
// with ReasonNotFound for 404.
func (c *Client) do(ctx context.Context, op, method string, target *url.URL, body any) (*response, error) {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, c.name+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.name", c.name),
			attribute.String("http.request.method", method),
			attribute.String("url.full", target.String()),
		),
	)
	defer span.End()

	res, err := c.roundTrip(ctx, parent, op, method, target, body)
	if res != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", res.Status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ReasonOf(err)))
		return nil, err
	}
	return res, nil
}

func (c *Client) roundTrip(ctx, parent context.Context, op, method string, target *url.URL, body any) (*response, error) {
	fail := func(reason Reason, status int, err error) *Error {
		return &Error{Upstream: c.name, Op: op, Reason: reason, Status: status, Err: err}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", c.name, op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", c.name, op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := ctxutil.GetRequestID(ctx); id != "" {
		req.Header.Set(ctxutil.RequestIDHeader, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fail(Classify(parent, ctx, err), 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &response{Status: resp.StatusCode}, fail(Classify(parent, ctx, err), resp.StatusCode, err)
	}
	res := &response{Status: resp.StatusCode, Body: data}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return res, fail(ReasonNotFound, resp.StatusCode, nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return res, fail(ReasonBadStatus, resp.StatusCode, fmt.Errorf("%s", snippet(data)))
	}
	return res, nil
}

// snippet shortens an upstream body for error messages.
func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
