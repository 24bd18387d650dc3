package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/composite/net/resp"
	"github.com/ncobase/composite/proxy"
	"github.com/ncobase/composite/validator"
)

// ListAddresses forwards a filtered address listing.
// @Summary List addresses
// @Tags addresses
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Param city query string false "City"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} resp.Exception
// @Failure 502 {object} resp.Exception
// @Router /addresses [get]
func (h *Handler) ListAddresses(c *gin.Context) {
	q := proxy.DefaultAddressQuery()
	if err := c.ShouldBindQuery(q); err != nil {
		resp.Fail(c.Writer, resp.BadRequest("invalid query", err.Error()))
		return
	}
	if errs := validator.ValidateStruct(q); len(errs) > 0 {
		resp.Fail(c.Writer, resp.InvalidParams("invalid query", errs))
		return
	}

	h.addresses.List(c.Writer, c.Request, q)
}

// DeleteAddress forwards an address deletion.
// @Summary Delete address
// @Tags addresses
// @Param address_id path string true "Address ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} resp.Exception
// @Router /addresses/{address_id} [delete]
func (h *Handler) DeleteAddress(c *gin.Context) {
	h.addresses.Delete(c.Writer, c.Request, c.Param("address_id"))
}
