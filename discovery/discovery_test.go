package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ncobase/composite/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw     string
		base    string
		service string
		wantErr bool
	}{
		{raw: "http://users:8000/users", base: "http://users:8000/users"},
		{raw: "https://location/addresses", base: "https://location/addresses"},
		{raw: "consul://users/users", base: "http://users/users", service: "users"},
		{raw: "consul:///users", wantErr: true},
		{raw: "ftp://users", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.base, got.Base)
			assert.Equal(t, tt.service, got.Service)
		})
	}
}

type staticResolver struct {
	addr  string
	err   error
	calls atomic.Int32
}

func (r *staticResolver) Resolve(context.Context, string) (string, error) {
	r.calls.Add(1)
	return r.addr, r.err
}

func TestTransportRewritesRegisteredServices(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	resolver := &staticResolver{addr: u.Host}
	tr := NewTransport(resolver, nil)
	tr.Register("users")

	client := &http.Client{Transport: tr}
	resp, err := client.Get("http://users/users/1")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "/users/1", gotPath)
	assert.Equal(t, int32(1), resolver.calls.Load())

	// unregistered hosts are not resolved
	resp, err = client.Get(srv.URL + "/other")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), resolver.calls.Load())
}

func TestTransportResolveError(t *testing.T) {
	tr := NewTransport(&staticResolver{err: ErrNoInstances}, nil)
	tr.Register("users")

	_, err := (&http.Client{Transport: tr}).Get("http://users/users/1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoInstances))
}

func fakeConsul(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/v1/health/service/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Consul-Index", "1")
		w.Header().Set("X-Consul-LastContact", "0")
		w.Header().Set("X-Consul-KnownLeader", "true")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func consulConfig(srv *httptest.Server) *config.Consul {
	u, _ := url.Parse(srv.URL)
	cfg := &config.Consul{Address: u.Host, Scheme: "http"}
	cfg.Discovery.CacheTTL = time.Minute
	cfg.Discovery.OnlyPassing = true
	return cfg
}

func TestConsulResolve(t *testing.T) {
	var hits atomic.Int32
	srv := fakeConsul(t, `[
		{"Node":{"Address":"10.0.0.1"},"Service":{"Address":"","Port":8000}},
		{"Node":{"Address":"10.0.0.9"},"Service":{"Address":"10.0.0.2","Port":8000}}
	]`, &hits)

	c, err := NewConsul(consulConfig(srv))
	require.NoError(t, err)

	first, err := c.Resolve(context.Background(), "users")
	require.NoError(t, err)
	second, err := c.Resolve(context.Background(), "users")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"10.0.0.1:8000", "10.0.0.2:8000"}, []string{first, second})
	assert.Equal(t, int32(1), hits.Load(), "second lookup is served from cache")

	stats := c.GetStats()
	assert.Equal(t, int64(2), stats["lookups"])

	c.Forget("users")
	_, err = c.Resolve(context.Background(), "users")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestConsulNoInstances(t *testing.T) {
	var hits atomic.Int32
	srv := fakeConsul(t, `[]`, &hits)

	c, err := NewConsul(consulConfig(srv))
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), "users")
	assert.ErrorIs(t, err, ErrNoInstances)
}

func TestNewConsulRequiresAddress(t *testing.T) {
	_, err := NewConsul(&config.Consul{})
	assert.Error(t, err)
}
