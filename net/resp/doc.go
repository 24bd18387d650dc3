// Package resp provides standardized HTTP response helpers so every handler
// answers with the same JSON shape.
//
// Success responses carry the payload itself:
//
//	resp.Success(w, profile)
//	resp.WithStatusCode(w, http.StatusCreated, created)
//
// Failure responses carry a business code from the ecode package:
//
//	{
//	  "code": -502,
//	  "message": "users service unavailable",
//	  "errors": {...}
//	}
//
// Built with the helpers:
//
//	resp.Fail(w, resp.NotFound("user not found"))
//	resp.Fail(w, resp.BadGateway("upstream failure", failures))
package resp
