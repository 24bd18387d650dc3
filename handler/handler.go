package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/aggregator"
	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/net/resp"
	"github.com/ncobase/composite/proxy"
	"github.com/ncobase/composite/upstream"
)

// StatsProvider reports discovery statistics.
type StatsProvider interface {
	GetStats() map[string]any
}

// Handler serves the composite HTTP API.
type Handler struct {
	svc       *aggregator.Service
	addresses *proxy.Addresses
	upstreams []*upstream.Client
	discovery StatsProvider
}

// New creates the handler. upstreams are reported by the upstream health
// endpoint; discovery may be nil.
func New(svc *aggregator.Service, addresses *proxy.Addresses, upstreams []*upstream.Client, discovery StatsProvider) *Handler {
	return &Handler{
		svc:       svc,
		addresses: addresses,
		upstreams: upstreams,
		discovery: discovery,
	}
}

// RegisterRoutes registers every route on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/health/upstreams", h.Upstreams)
	r.GET("/version", h.Version)

	r.GET("/composite/:user_id", h.Composite)
	r.GET("/users/:user_id/profile", h.Profile)
	r.GET("/users/:user_id/addresses", h.UserAddresses)
	r.POST("/users-with-address", h.CreateUserWithAddress)

	r.GET("/addresses", h.ListAddresses)
	r.POST("/addresses", h.CreateAddress)
	r.DELETE("/addresses/:address_id", h.DeleteAddress)
}

// parseUserID reads the user_id path parameter, a positive integer.
func parseUserID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || id <= 0 {
		resp.Fail(c.Writer, resp.InvalidParams("user_id must be a positive integer"))
		return 0, false
	}
	return id, true
}

// fail renders an aggregator error.
func fail(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var unavailable *aggregator.UnavailableError
	var rejected *aggregator.RejectedError
	switch {
	case errors.Is(err, aggregator.ErrUserNotFound):
		resp.Fail(c.Writer, resp.NotFound("user not found"))
	case errors.Is(err, aggregator.ErrInvalidRequest):
		resp.Fail(c.Writer, resp.BadRequest(err.Error()))
	case errors.As(err, &rejected):
		logger.Infof(ctx, "%v", rejected)
		ex := resp.BadRequest(rejected.Part+" service rejected the request", map[string]any{rejected.Part: rejected.Failure})
		ex.Status = rejected.Failure.Status
		resp.Fail(c.Writer, ex)
	case errors.As(err, &unavailable):
		if ctx.Err() != nil {
			logger.Debugf(ctx, "client went away: %v", err)
			c.Status(499)
			return
		}
		logger.Warnf(ctx, "%v", unavailable)
		if unavailable.Timeout() {
			resp.Fail(c.Writer, resp.GatewayTimeout("upstream services timed out", unavailable.Failures))
			return
		}
		resp.Fail(c.Writer, resp.BadGateway("upstream services unavailable", unavailable.Failures))
	default:
		logger.Errorf(ctx, "unexpected error: %v", err)
		resp.Fail(c.Writer, resp.InternalServer(http.StatusText(http.StatusInternalServerError)))
	}
}
