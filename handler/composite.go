package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/aggregator"
	"github.com/ncobase/composite/logging/logger"
	"github.com/ncobase/composite/net/resp"
	"github.com/ncobase/composite/validator"
	"github.com/sirupsen/logrus"
)

// Composite returns the flat merge of a user and its first address.
// @Summary Get composite user record
// @Tags composite
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} resp.Exception
// @Failure 404 {object} resp.Exception
// @Failure 502 {object} resp.Exception
// @Failure 504 {object} resp.Exception
// @Router /composite/{user_id} [get]
func (h *Handler) Composite(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	record, err := h.svc.GetComposite(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Success(c.Writer, record)
}

// Profile returns a user with all of its addresses.
// @Summary Get user profile
// @Tags composite
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} aggregator.Profile
// @Failure 400 {object} resp.Exception
// @Failure 404 {object} resp.Exception
// @Failure 502 {object} resp.Exception
// @Router /users/{user_id}/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	profile, err := h.svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Success(c.Writer, profile)
}

// UserAddresses lists the addresses of a user.
// @Summary List user addresses
// @Tags composite
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} aggregator.UserAddresses
// @Failure 404 {object} resp.Exception
// @Failure 502 {object} resp.Exception
// @Router /users/{user_id}/addresses [get]
func (h *Handler) UserAddresses(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	list, err := h.svc.GetUserAddresses(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	resp.Success(c.Writer, list)
}

// CreateUserWithAddress creates a user and its first address.
// @Summary Create user with address
// @Tags composite
// @Accept json
// @Produce json
// @Param request body aggregator.UsersWithAddressRequest true "User and address"
// @Success 201 {object} aggregator.UsersWithAddressResponse
// @Failure 400 {object} resp.Exception
// @Failure 502 {object} resp.Exception
// @Router /users-with-address [post]
func (h *Handler) CreateUserWithAddress(c *gin.Context) {
	var req aggregator.UsersWithAddressRequest
	if !bindJSON(c, &req) {
		return
	}
	logger.WithFields(c.Request.Context(), logrus.Fields{"request": &req}).Debug("creating user with address")

	created, err := h.svc.CreateUserWithAddress(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, created)
}

// CreateAddress creates an address for an existing user.
// @Summary Create address for user
// @Tags addresses
// @Accept json
// @Produce json
// @Param request body aggregator.CompositeAddressCreate true "Address"
// @Success 201 {object} aggregator.CompositeAddressResponse
// @Failure 400 {object} resp.Exception
// @Failure 404 {object} resp.Exception
// @Failure 502 {object} resp.Exception
// @Router /addresses [post]
func (h *Handler) CreateAddress(c *gin.Context) {
	var req aggregator.CompositeAddressCreate
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.CreateAddress(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	resp.WithStatusCode(c.Writer, http.StatusCreated, created)
}

// bindJSON decodes and validates the request body into dst.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid request body", err.Error()))
		return false
	}
	if errs := validator.ValidateStruct(dst); len(errs) > 0 {
		resp.Fail(c.Writer, resp.InvalidParams("invalid request body", errs))
		return false
	}
	return true
}
