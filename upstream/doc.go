// Package upstream holds the HTTP clients for the services the composite
// service fans out to.
//
// Every call runs under its own timeout and through a per-upstream circuit
// breaker, is traced as an OpenTelemetry client span, and fails with an
// *Error whose Reason tells timeouts, open circuits, bad statuses, 404s and
// malformed bodies apart.
package upstream
