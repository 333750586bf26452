package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/turtacn/patentlens/internal/interfaces/http/middleware"
	"github.com/turtacn/patentlens/internal/ui/form"
	"github.com/turtacn/patentlens/pkg/errors"
)

// errNoSession is reported when a form-bound handler is mounted without the
// session middleware.
var errNoSession = errors.Internal("no session bound to request")

// formFromRequest returns the session form attached by middleware.Session.
func formFromRequest(r *http.Request) (*form.Form, error) {
	if f := middleware.ContextGetForm(r.Context()); f != nil {
		return f, nil
	}
	return nil, errNoSession
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the error body of the JSON API. The "error" key matches
// what the analysis service itself returns.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, statusCode int, code errors.ErrorCode, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Code: code.String()})
}

// writeAppError maps err to an HTTP status through its AppError code.
// Messages of internal errors are masked.
func writeAppError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if status == http.StatusInternalServerError {
		writeError(w, status, errors.ErrCodeInternal, "internal server error")
		return
	}

	message := err.Error()
	var ae *errors.AppError
	if errors.As(err, &ae) {
		message = ae.Message
		if ae.Detail != "" {
			message += ": " + ae.Detail
		}
	}
	writeError(w, status, code, message)
}
