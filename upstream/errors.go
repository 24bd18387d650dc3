package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/sony/gobreaker"
)

// Reason classifies why an upstream call failed.
type Reason string

// Failure reasons.
const (
	ReasonTimeout     Reason = "timeout"
	ReasonUnavailable Reason = "unavailable"
	ReasonBadStatus   Reason = "bad_status"
	ReasonNotFound    Reason = "not_found"
	ReasonMalformed   Reason = "malformed"
	ReasonCircuitOpen Reason = "circuit_open"
	ReasonCanceled    Reason = "canceled"
)

// Error is returned by every failed upstream call.
type Error struct {
	Upstream string
	Op       string
	Reason   Reason
	Status   int // upstream HTTP status, 0 when no response was read
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Upstream, e.Op, e.Reason)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// ReasonOf returns the failure reason carried by err, or ReasonUnavailable
// for errors that did not come from this package.
func ReasonOf(err error) Reason {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return ReasonUnavailable
}

// IsNotFound reports whether the upstream answered 404.
func IsNotFound(err error) bool {
	return err != nil && ReasonOf(err) == ReasonNotFound
}

// IsTimeout reports whether the upstream did not answer in time.
func IsTimeout(err error) bool {
	return err != nil && ReasonOf(err) == ReasonTimeout
}

// StatusOf returns the upstream HTTP status carried by err, if any.
func StatusOf(err error) int {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Status
	}
	return 0
}

// Classify maps a transport error to a failure reason. parent is the
// caller's context and call the one carrying the per-call timeout, used to
// tell client cancellation from our own deadline.
func Classify(parent, call context.Context, err error) Reason {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ReasonCircuitOpen
	case errors.Is(parent.Err(), context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(call.Err(), context.DeadlineExceeded):
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonUnavailable
}
