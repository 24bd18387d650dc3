// Package discovery resolves upstream base URLs. Static http(s) URLs are
// used as is; consul://<service>/<path> URLs are resolved to a healthy
// instance through the Consul health API on every request.
package discovery
