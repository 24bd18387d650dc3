// Package tracing sets up OpenTelemetry tracing and Sentry error reporting.
package tracing
