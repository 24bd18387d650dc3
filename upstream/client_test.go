package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/ctxutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func testUpstream(name string, timeout time.Duration) *config.Upstream {
	return &config.Upstream{
		Name:    name,
		Timeout: timeout,
		Breaker: &config.Breaker{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      time.Minute,
			MinRequests:  3,
			FailureRatio: 0.6,
		},
	}
}

func newTestClient(t *testing.T, name string, timeout time.Duration, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(testUpstream(name, timeout), srv.URL+"/"+name+"/", opts...)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadBase(t *testing.T) {
	_, err := NewClient(testUpstream("users", time.Second), "consul://users")
	require.Error(t, err)

	_, err = NewClient(nil, "http://x")
	require.Error(t, err)
}

func TestURL(t *testing.T) {
	c, err := NewClient(testUpstream("users", time.Second), "http://users:8000/users/")
	require.NoError(t, err)

	assert.Equal(t, "http://users:8000/users/42", c.URL(nil, "42").String())
	assert.Equal(t, "http://users:8000/users?user_id=1", c.URL(map[string][]string{"user_id": {"1"}}).String())
}

func TestURLKeepsSegmentsInPlace(t *testing.T) {
	c, err := NewClient(testUpstream("addresses", time.Second), "http://location:8001/addresses")
	require.NoError(t, err)

	assert.Equal(t, "http://location:8001/addresses/..", c.URL(nil, "..").String())
	assert.Equal(t, "http://location:8001/addresses/a%2Fb", c.URL(nil, "a/b").String())
	assert.Equal(t, "/addresses/a/b", c.URL(nil, "a/b").Path)
	assert.Equal(t, "http://location:8001/addresses/a%20b", c.URL(nil, "a b").String())
}

func TestDoTimeout(t *testing.T) {
	c := newTestClient(t, "users", 50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})

	start := time.Now()
	_, err := NewUsers(c).Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoCanceledByCaller(t *testing.T) {
	c := newTestClient(t, "users", 5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(30*time.Millisecond, cancel)

	_, err := NewUsers(c).Get(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, ReasonCanceled, ReasonOf(err))
}

func TestDoStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reason Reason
	}{
		{"not found", http.StatusNotFound, ReasonNotFound},
		{"server error", http.StatusInternalServerError, ReasonBadStatus},
		{"bad request", http.StatusBadRequest, ReasonBadStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "users", time.Second, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"detail":"nope"}`))
			})

			_, err := NewUsers(c).Get(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, tt.reason, ReasonOf(err))
			assert.Equal(t, tt.status, StatusOf(err))
		})
	}
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(testUpstream("users", time.Second), base+"/users")
	require.NoError(t, err)

	_, err = NewUsers(c).Get(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, ReasonUnavailable, ReasonOf(err))
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, "users", time.Second, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	users := NewUsers(c)

	for i := 0; i < 3; i++ {
		_, err := users.Get(context.Background(), 1)
		assert.Equal(t, ReasonBadStatus, ReasonOf(err))
	}
	assert.Equal(t, gobreaker.StateOpen, c.State())

	_, err := users.Get(context.Background(), 1)
	assert.Equal(t, ReasonCircuitOpen, ReasonOf(err))
	assert.Equal(t, int32(3), hits.Load())
}

func TestBreakerIgnoresNotFound(t *testing.T) {
	c := newTestClient(t, "users", time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	users := NewUsers(c)

	for i := 0; i < 5; i++ {
		_, err := users.Get(context.Background(), 1)
		assert.True(t, IsNotFound(err))
	}
	assert.Equal(t, gobreaker.StateClosed, c.State())
}

func TestRequestHeaders(t *testing.T) {
	var gotID, gotAccept string
	c := newTestClient(t, "users", time.Second, func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(ctxutil.RequestIDHeader)
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	ctx := ctxutil.SetRequestID(context.Background(), "req-42")
	_, err := NewUsers(c).Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", gotID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClientSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	c := newTestClient(t, "users", time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, WithTracerProvider(tp))

	_, _ = NewUsers(c).Get(context.Background(), 7)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "users.get", spans[0].Name())
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}
