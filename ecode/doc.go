// Package ecode defines the business error codes carried in failure
// responses and their mapping to HTTP statuses.
//
// Codes follow the HTTP status they map to, negated:
//
//	ecode.RequestErr          // -400: Invalid request
//	ecode.ParamErr            // -401: Invalid parameters
//	ecode.NotFound            // -404: Resource not found
//	ecode.ServerErr           // -500: Internal server error
//	ecode.UpstreamUnavailable // -502: Upstream service unavailable
//	ecode.ServiceUnavailable  // -503: Service unavailable
//	ecode.Deadline            // -504: Upstream deadline exceeded
//
// Usage with the resp package:
//
//	resp.Fail(w, &resp.Exception{
//	    Status:  ecode.ToHTTPStatus(ecode.NotFound),
//	    Code:    ecode.NotFound,
//	    Message: ecode.Text(ecode.NotFound),
//	})
package ecode
