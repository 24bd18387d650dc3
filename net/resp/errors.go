package resp

import (
	"net/http"

	"github.com/ncobase/composite/ecode"
)

// BadRequest indicates that the request is malformed.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// InvalidParams indicates that the request failed validation. data usually
// maps field names to messages.
func InvalidParams(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.ParamErr, message, data...)
}

// NotFound indicates that the resource does not exist.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NotFound, message, data...)
}

// InternalServer indicates an internal server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}

// BadGateway indicates that an upstream service failed or returned an unusable answer.
func BadGateway(message string, data ...any) *Exception {
	return newResponse(http.StatusBadGateway, ecode.UpstreamUnavailable, message, data...)
}

// GatewayTimeout indicates that an upstream service did not answer in time.
func GatewayTimeout(message string, data ...any) *Exception {
	return newResponse(http.StatusGatewayTimeout, ecode.Deadline, message, data...)
}

// ServiceUnavailable indicates that the service is overloaded.
func ServiceUnavailable(message string, data ...any) *Exception {
	return newResponse(http.StatusServiceUnavailable, ecode.ServiceUnavailable, message, data...)
}
