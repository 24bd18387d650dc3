package logger

import (
	"context"

	"github.com/ncobase/composite/ctxutil"
)

var (
	traceKey   = ctxutil.TraceIDKey
	requestKey = ctxutil.RequestIDKey
)

// getTraceID gets a trace ID from the context.
func getTraceID(ctx context.Context) string {
	return ctxutil.GetTraceID(ctx)
}

// getRequestID gets a request ID from the context.
func getRequestID(ctx context.Context) string {
	return ctxutil.GetRequestID(ctx)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	return ctxutil.EnsureTraceID(ctx)
}
