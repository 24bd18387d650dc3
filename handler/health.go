package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/net/resp"
	"github.com/ncobase/composite/version"
)

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	resp.Success(c.Writer, map[string]string{"status": "healthy"})
}

// Upstreams reports the circuit breaker state of every upstream.
func (h *Handler) Upstreams(c *gin.Context) {
	upstreams := make(map[string]any, len(h.upstreams))
	for _, u := range h.upstreams {
		counts := u.Counts()
		upstreams[u.Name()] = map[string]any{
			"base":    u.Base().String(),
			"timeout": u.Timeout().String(),
			"breaker": map[string]any{
				"state":                 u.State().String(),
				"requests":              counts.Requests,
				"total_failures":        counts.TotalFailures,
				"consecutive_failures":  counts.ConsecutiveFailures,
				"consecutive_successes": counts.ConsecutiveSuccesses,
			},
		}
	}

	out := map[string]any{"upstreams": upstreams}
	if h.discovery != nil {
		out["discovery"] = h.discovery.GetStats()
	}
	resp.Success(c.Writer, out)
}

// Version reports build information.
func (h *Handler) Version(c *gin.Context) {
	resp.Success(c.Writer, version.GetVersionInfo())
}
