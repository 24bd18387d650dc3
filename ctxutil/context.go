package ctxutil

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const (
	// TraceIDKey is the log field and context key holding the trace id.
	TraceIDKey = "trace_id"
	// RequestIDKey is the log field and context key holding the request id.
	RequestIDKey = "request_id"
	// RequestIDHeader carries the request id between services.
	RequestIDHeader = "X-Request-ID"
)

// GetTraceID gets trace id from context.Context.
// The trace id of an active OpenTelemetry span wins over a stored one.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	if traceID, ok := ctx.Value(contextKey(TraceIDKey)).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets trace id to context.Context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKey(TraceIDKey), traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}

// GetRequestID gets request id from context.Context.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKey(RequestIDKey)).(string); ok {
		return id
	}
	return ""
}

// SetRequestID sets request id to context.Context.
func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey(RequestIDKey), id)
}
