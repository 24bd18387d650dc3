package aggregator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ncobase/composite/upstream"
)

// ErrUserNotFound is returned when the Users service does not know the id.
var ErrUserNotFound = errors.New("user not found")

// UnavailableError is returned when no part of a record could be fetched,
// or when a write could not be completed.
type UnavailableError struct {
	Op       string
	Failures Failures
}

func (e *UnavailableError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for name, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %s", name, f.Reason))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s failed (%s)", e.Op, strings.Join(parts, ", "))
}

// Timeout reports whether every failure was a timeout.
func (e *UnavailableError) Timeout() bool {
	if len(e.Failures) == 0 {
		return false
	}
	for _, f := range e.Failures {
		if f.Reason != upstream.ReasonTimeout {
			return false
		}
	}
	return true
}

// failureOf converts an upstream error into its part failure.
func failureOf(err error) *PartFailure {
	f := &PartFailure{
		Reason:  upstream.ReasonOf(err),
		Message: err.Error(),
		Status:  upstream.StatusOf(err),
	}
	var ue *upstream.Error
	if errors.As(err, &ue) {
		f.Message = message(ue)
	}
	return f
}

func message(ue *upstream.Error) string {
	switch ue.Reason {
	case upstream.ReasonTimeout:
		return ue.Upstream + " service timed out"
	case upstream.ReasonCircuitOpen:
		return ue.Upstream + " service circuit is open"
	case upstream.ReasonBadStatus:
		return fmt.Sprintf("%s service answered %d", ue.Upstream, ue.Status)
	case upstream.ReasonMalformed:
		return ue.Upstream + " service returned an unusable body"
	case upstream.ReasonCanceled:
		return "request canceled"
	case upstream.ReasonNotFound:
		return ue.Upstream + " resource not found"
	}
	return ue.Upstream + " service unavailable"
}

// RejectedError is returned when an upstream refused a write with a 4xx
// status, which is the caller's fault rather than an outage.
type RejectedError struct {
	Op      string
	Part    string
	Failure *PartFailure
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected by %s (status %d)", e.Op, e.Part, e.Failure.Status)
}

// writeError classifies a failed write on part.
func writeError(op, part string, err error) error {
	f := failureOf(err)
	if f.Reason == upstream.ReasonBadStatus && f.Status >= 400 && f.Status < 500 {
		return &RejectedError{Op: op, Part: part, Failure: f}
	}
	return &UnavailableError{Op: op, Failures: Failures{part: f}}
}
