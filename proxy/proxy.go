package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/ncobase/composite/ctxutil"
	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/net/resp"
	"github.com/ncobase/composite/upstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ncobase/composite/proxy"

type forwardKey struct{}

// forward carries the per-call routing decision to the director.
type forward struct {
	target *url.URL
	parent context.Context
	op     string
}

// Addresses forwards address collection calls to the Addresses service
// through its breaker-guarded transport. Upstream bodies and statuses are
// passed back unchanged, except that 5xx answers and transport failures are
// reported as 502 and timeouts as 504.
type Addresses struct {
	client  *upstream.Client
	handler *httputil.ReverseProxy
	tracer  trace.Tracer
}

// NewAddresses creates the forwarder for the Addresses upstream c.
func NewAddresses(c *upstream.Client) *Addresses {
	p := &Addresses{
		client: c,
		tracer: otel.Tracer(instrumentationName),
	}

	director := func(req *http.Request) {
		f, ok := req.Context().Value(forwardKey{}).(*forward)
		if !ok {
			return
		}
		req.URL = f.target
		req.Host = f.target.Host
		req.Header.Del("Cookie")
		req.Header.Del("Authorization")
		req.Header.Set("Accept", "application/json")
		if id := ctxutil.GetRequestID(req.Context()); id != "" {
			req.Header.Set(ctxutil.RequestIDHeader, id)
		}
		otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	}

	p.handler = &httputil.ReverseProxy{
		Director:       director,
		Transport:      c.Transport(),
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.errorHandler,
	}
	return p
}

// List forwards GET {base}?{q}.
func (p *Addresses) List(w http.ResponseWriter, r *http.Request, q *AddressQuery) {
	if q == nil {
		q = DefaultAddressQuery()
	}
	values, err := q.Values()
	if err != nil {
		resp.Fail(w, resp.BadRequest(fmt.Sprintf("invalid address query: %v", err)))
		return
	}
	p.serve(w, r, "list", http.MethodGet, p.client.URL(values))
}

// Delete forwards DELETE {base}/{addressID}.
func (p *Addresses) Delete(w http.ResponseWriter, r *http.Request, addressID string) {
	addressID = strings.TrimSpace(addressID)
	if addressID == "" {
		resp.Fail(w, resp.BadRequest("address_id is required"))
		return
	}
	if addressID == "." || addressID == ".." || strings.ContainsAny(addressID, `/\`) {
		resp.Fail(w, resp.BadRequest(fmt.Sprintf("invalid address_id %q", addressID)))
		return
	}
	p.serve(w, r, "delete", http.MethodDelete, p.client.URL(nil, addressID))
}

func (p *Addresses) serve(w http.ResponseWriter, r *http.Request, op, method string, target *url.URL) {
	parent := r.Context()
	ctx, cancel := context.WithTimeout(parent, p.client.Timeout())
	defer cancel()

	ctx, span := p.tracer.Start(ctx, p.client.Name()+".proxy."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.name", p.client.Name()),
			attribute.String("http.request.method", method),
			attribute.String("url.full", target.String()),
		),
	)
	defer span.End()

	ctx = context.WithValue(ctx, forwardKey{}, &forward{target: target, parent: parent, op: op})
	out := r.WithContext(ctx)
	out.Method = method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
		out.Body = http.NoBody
		out.ContentLength = 0
	}

	p.handler.ServeHTTP(w, out)
}

func (p *Addresses) modifyResponse(res *http.Response) error {
	span := trace.SpanFromContext(res.Request.Context())
	span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))

	if res.StatusCode >= http.StatusInternalServerError {
		op := ""
		if f, ok := res.Request.Context().Value(forwardKey{}).(*forward); ok {
			op = f.op
		}
		return &upstream.Error{
			Upstream: p.client.Name(),
			Op:       op,
			Reason:   upstream.ReasonBadStatus,
			Status:   res.StatusCode,
		}
	}
	return nil
}

func (p *Addresses) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	var ue *upstream.Error
	if !errors.As(err, &ue) {
		parent := ctx
		op := ""
		if f, ok := ctx.Value(forwardKey{}).(*forward); ok {
			parent, op = f.parent, f.op
		}
		ue = &upstream.Error{
			Upstream: p.client.Name(),
			Op:       op,
			Reason:   upstream.Classify(parent, ctx, err),
			Err:      err,
		}
	}

	span.RecordError(ue)
	span.SetStatus(codes.Error, string(ue.Reason))

	switch ue.Reason {
	case upstream.ReasonCanceled:
		logger.Debugf(ctx, "address proxy: client went away: %v", ue)
		return
	case upstream.ReasonTimeout:
		logger.Warnf(ctx, "address proxy: %v", ue)
		resp.Fail(w, resp.GatewayTimeout("addresses service timed out", failure(ue)))
	default:
		logger.Warnf(ctx, "address proxy: %v", ue)
		resp.Fail(w, resp.BadGateway("addresses service unavailable", failure(ue)))
	}
}

func failure(ue *upstream.Error) map[string]any {
	out := map[string]any{
		"upstream": ue.Upstream,
		"reason":   ue.Reason,
	}
	if ue.Status != 0 {
		out["status"] = ue.Status
	}
	return out
}
