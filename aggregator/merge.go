package aggregator

import (
	"github.com/ncobase/composite/upstream"
)

// Keys added to a composite record when it is degraded.
const (
	partialKey  = "partial"
	failuresKey = "failures"
)

// mergeFlat builds the flat composite record: every user field, then the
// fields of the first address that the user does not already set. The
// address user_id is copied only when the user part is missing, so a
// degraded record still names its user.
func mergeFlat(user upstream.User, addresses []upstream.Address) map[string]any {
	out := make(map[string]any, len(user)+4)
	for k, v := range user {
		out[k] = v
	}
	if len(addresses) == 0 {
		return out
	}
	for k, v := range addresses[0] {
		if k == "user_id" && user != nil {
			continue
		}
		if _, taken := out[k]; !taken {
			out[k] = v
		}
	}
	return out
}
