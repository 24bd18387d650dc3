package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/composite/ecode"
)

// Exception is a failure answer. Status selects the HTTP status and is not
// written to the body.
type Exception struct {
	Status  int    `json:"status,omitempty"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// Error implements error.
func (e *Exception) Error() string {
	return e.Message
}

// newResponse builds an exception; data, when given, becomes its errors.
func newResponse(status, code int, message string, data ...any) *Exception {
	ex := &Exception{Status: status, Code: code, Message: message}
	if len(data) > 0 {
		ex.Errors = data[0]
	}
	return ex
}

// Success writes data with status 200.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes a success answer. The payload is written as is; a
// lone string becomes {"message": ...} and no payload {"message": "ok"}.
func WithStatusCode(w http.ResponseWriter, status int, data ...any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	var payload any = map[string]any{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		payload = data[0]
		if msg, ok := payload.(string); ok {
			payload = map[string]any{"message": msg}
		}
	}
	writeJSON(w, status, payload)
}

// Fail writes ex as {"code", "message", "errors"}. A nil ex is an internal
// error.
func Fail(w http.ResponseWriter, ex *Exception) {
	if ex == nil {
		ex = &Exception{Code: ecode.ServerErr}
	}

	code := ex.Code
	if code == 0 {
		code = ecode.RequestErr
	}
	status := ex.Status
	if status == 0 {
		status = ecode.ToHTTPStatus(code)
	}
	message := ex.Message
	if message == "" {
		message = ecode.Text(code)
	}

	writeJSON(w, status, &Exception{Code: code, Message: message, Errors: ex.Errors})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode JSON response", http.StatusInternalServerError)
	}
}
