// Package ctxutil carries request-scoped identifiers on context.Context.
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//	ctx = ctxutil.SetRequestID(ctx, id)
//
// The trace id follows the active OpenTelemetry span when there is one, so
// log lines and exported spans share the same identifier.
package ctxutil
