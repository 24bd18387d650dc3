package ecode

import "net/http"

// Business codes returned in the "code" field of failure responses.
const (
	OK = 0

	RequestErr = -400
	ParamErr   = -401
	NotFound   = -404

	ServerErr           = -500
	UpstreamUnavailable = -502
	ServiceUnavailable  = -503
	Deadline            = -504
)

var (
	texts = map[int]string{
		OK:                  "ok",
		RequestErr:          "Invalid request",
		ParamErr:            "Invalid parameters",
		NotFound:            "Resource not found",
		ServerErr:           "Internal server error",
		UpstreamUnavailable: "Upstream service unavailable",
		ServiceUnavailable:  "Service unavailable",
		Deadline:            "Upstream deadline exceeded",
	}
	statuses = map[int]int{
		OK:                  http.StatusOK,
		RequestErr:          http.StatusBadRequest,
		ParamErr:            http.StatusBadRequest,
		NotFound:            http.StatusNotFound,
		ServerErr:           http.StatusInternalServerError,
		UpstreamUnavailable: http.StatusBadGateway,
		ServiceUnavailable:  http.StatusServiceUnavailable,
		Deadline:            http.StatusGatewayTimeout,
	}
)

// Text returns the message registered for code, or the server error text
// for unknown codes.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}

// ToHTTPStatus maps a business code to its HTTP status.
func ToHTTPStatus(code int) int {
	if s, ok := statuses[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}
