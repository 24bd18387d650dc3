package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
)

// Scheme marks a base URL whose host is a Consul service name.
const Scheme = "consul"

// ErrNoInstances is returned when a service has no usable instance.
var ErrNoInstances = errors.New("no healthy instances")

// Resolver maps a service name to the host:port of one of its instances.
type Resolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// Target describes how an upstream base URL is reached.
type Target struct {
	// Base is the http(s) URL requests are built against. For a consul
	// base its host is the service name, rewritten per request by Transport.
	Base string
	// Service is the Consul service name, empty for static bases.
	Service string
}

// Parse interprets a configured base URL. http and https URLs are static;
// consul://<service>/<path> becomes http://<service>/<path>.
func Parse(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "http", "https":
		return Target{Base: raw}, nil
	case Scheme:
		if u.Host == "" {
			return Target{}, fmt.Errorf("consul base URL %q has no service name", raw)
		}
		service := u.Hostname()
		u.Scheme = "http"
		return Target{Base: u.String(), Service: service}, nil
	}
	return Target{}, fmt.Errorf("unsupported scheme in base URL %q", raw)
}

// Transport rewrites requests addressed to a registered service name so they
// reach an instance chosen by the resolver. Other requests pass through.
type Transport struct {
	resolver Resolver
	next     http.RoundTripper

	mu       sync.RWMutex
	services map[string]struct{}
}

// NewTransport wraps next, http.DefaultTransport when nil.
func NewTransport(resolver Resolver, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{
		resolver: resolver,
		next:     next,
		services: make(map[string]struct{}),
	}
}

// Register marks service as a name to resolve.
func (t *Transport) Register(service string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.services[service] = struct{}{}
}

func (t *Transport) managed(host string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.services[host]
	return ok
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	service := req.URL.Hostname()
	if !t.managed(service) {
		return t.next.RoundTrip(req)
	}

	addr, err := t.resolver.Resolve(req.Context(), service)
	if err != nil {
		return nil, err
	}

	out := req.Clone(req.Context())
	out.URL.Host = addr
	out.Host = addr

	resp, err := t.next.RoundTrip(out)
	if err != nil {
		if f, ok := t.resolver.(interface{ Forget(string) }); ok {
			f.Forget(service)
		}
		return nil, err
	}
	return resp, nil
}
