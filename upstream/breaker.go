package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ncobase/composite/config"
	"github.com/ncobase/composite/logging/logger"
	"github.com/sony/gobreaker"
)

// statusError marks a 5xx answer as a breaker failure while keeping the response.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream status %d", e.status)
}

// newBreaker creates the circuit breaker guarding one upstream.
func newBreaker(name string, cfg *config.Breaker) *gobreaker.CircuitBreaker {
	if cfg == nil {
		cfg = &config.Breaker{MaxRequests: 1, MinRequests: 5, FailureRatio: 0.6}
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			// A caller walking away says nothing about upstream health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf(context.Background(), "circuit breaker %s: %s -> %s", name, from, to)
		},
	})
}

// breakerTransport runs every round trip through a circuit breaker.
// Transport errors and 5xx answers count as failures; 5xx responses are
// still handed back to the caller.
type breakerTransport struct {
	next http.RoundTripper
	cb   *gobreaker.CircuitBreaker
}

func (t *breakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	v, err := t.cb.Execute(func() (any, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, &statusError{status: resp.StatusCode}
		}
		return resp, nil
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && v != nil {
			return v.(*http.Response), nil
		}
		return nil, err
	}
	return v.(*http.Response), nil
}
