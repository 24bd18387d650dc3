package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/concurrency"
	"github.com/ncobase/composite/ctxutil"
	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/nanoid"
	"github.com/ncobase/composite/net/resp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ncobase/composite/server"

// requestID reuses the caller's X-Request-ID or issues a new one, and
// records client details on the request context.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(ctxutil.RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = nanoid.String()
		}
		c.Header(ctxutil.RequestIDHeader, id)

		ctx := ctxutil.SetRequestID(c.Request.Context(), id)
		ctx = ctxutil.SetClientInfo(ctx, ctxutil.ClientIP(c.Request), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// traceRequests starts a server span per request, continuing the caller's trace.
func traceRequests(tp trace.TracerProvider) gin.HandlerFunc {
	tracer := tp.Tracer(instrumentationName)
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.String("url.path", c.Request.URL.Path),
				attribute.String("request.id", ctxutil.GetRequestID(ctx)),
			),
		)
		defer span.End()

		ctx, _ = ctxutil.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

// accessLog logs one line per request.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		entry := logger.WithFields(ctx, logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  ctxutil.GetClientIP(ctx),
			"user_agent": ctxutil.GetUserAgent(ctx),
			"size":       c.Writer.Size(),
		})

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("HTTP request")
		case status >= http.StatusBadRequest:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}

// recovery turns a panic into a 500, reporting it to Sentry when enabled.
func recovery(reportToSentry bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if r == http.ErrAbortHandler {
				panic(r)
			}

			ctx := c.Request.Context()
			logger.Errorf(ctx, "panic recovered: %v", r)
			if reportToSentry {
				hub := sentry.CurrentHub().Clone()
				hub.Scope().SetRequest(c.Request)
				hub.Scope().SetTag(ctxutil.RequestIDKey, ctxutil.GetRequestID(ctx))
				hub.RecoverWithContext(ctx, r)
			}
			trace.SpanFromContext(ctx).RecordError(fmt.Errorf("panic: %v", r))

			if !c.Writer.Written() {
				resp.Fail(c.Writer, resp.InternalServer("internal server error"))
			}
			c.Abort()
		}()
		c.Next()
	}
}

// limit sheds requests that find no free slot within wait. Health checks
// are never shed.
func limit(l *concurrency.Limiter, wait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/health") {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		err := l.Acquire(ctx)
		cancel()
		if err != nil {
			logger.Warnf(c.Request.Context(), "request shed: %v", err)
			c.Header("Retry-After", "1")
			resp.Fail(c.Writer, resp.ServiceUnavailable("server is busy, retry later"))
			c.Abort()
			return
		}
		defer l.Release()
		c.Next()
	}
}

// notFound renders unknown routes in the error envelope.
func notFound(c *gin.Context) {
	resp.Fail(c.Writer, resp.NotFound(fmt.Sprintf("route %s %s not found", c.Request.Method, c.Request.URL.Path)))
}
