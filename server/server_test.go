package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/users/1" {
			_, _ = io.WriteString(w, `{"id":1,"name":"Alice"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"user_id":1,"city":"Lagos"}]`)
	}))
	t.Cleanup(backend.Close)

	breaker := &config.Breaker{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, MinRequests: 5, FailureRatio: 0.6}
	return &config.Config{
		AppName:         "composite",
		RunMode:         "release",
		Host:            "127.0.0.1",
		Port:            8002,
		ShutdownTimeout: time.Second,
		Upstreams: &config.Upstreams{
			Users:     &config.Upstream{Name: config.UsersUpstream, Env: "USERS_BASE", Base: backend.URL + "/users", Timeout: time.Second, Breaker: breaker},
			Addresses: &config.Upstream{Name: config.AddressesUpstream, Env: "ADDRESSES_BASE", Base: backend.URL + "/addresses", Timeout: time.Second, Breaker: breaker},
		},
		Logger: &config.Logger{Level: "error", Format: "json", Output: "stdout"},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := testConfig(t)

	resolver, err := ProvideResolver(cfg)
	require.NoError(t, err)
	assert.Nil(t, resolver)

	u, err := ProvideUpstreams(cfg, ProvideTransport(resolver))
	require.NoError(t, err)

	rc, cleanup, err := ProvideRedis(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	assert.Nil(t, rc)

	svc := ProvideAggregator(u, ProvideUserCache(cfg, rc))
	h := ProvideHandler(svc, ProvideAddressProxy(u), u, resolver)
	return New(cfg, h, &Observability{}, nil)
}

func TestCompositeThroughMiddleware(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/composite/1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","city":"Lagos"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(ctxutil.RequestIDHeader))
}

func TestRequestIDEchoed(t *testing.T) {
	a := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(ctxutil.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(ctxutil.RequestIDHeader))
}

func TestRecoveryRendersInternalError(t *testing.T) {
	a := newTestApp(t)
	a.engine.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestLimiterShedsLoad(t *testing.T) {
	a := newTestApp(t)
	a.config.QueueTimeout = 10 * time.Millisecond
	l, err := ProvideLimiter(&config.Config{MaxInFlight: 1})
	require.NoError(t, err)
	a.limiter = l
	a.engine = a.newEngine()

	require.True(t, l.TryAcquire())
	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/composite/1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	l.Release()
	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/composite/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApp(t)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/health", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWriteTimeoutCoversUpstreams(t *testing.T) {
	a := newTestApp(t)
	a.config.Upstreams.Users.Timeout = 30 * time.Second
	assert.Equal(t, 35*time.Second, a.writeTimeout())
}

func TestServeShutsDownOnCancel(t *testing.T) {
	a := newTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		res, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		_ = res.Body.Close()
		return res.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
