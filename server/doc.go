// Package server runs the gin HTTP server: request id, tracing, access
// logging and panic recovery middleware around the handler routes, with
// graceful shutdown.
package server
