package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/kklayout/pkg/errors"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"request_id,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, ErrorBody{
		Error:     ErrorDetail{Code: code, Message: msg},
		RequestID: RequestIDFrom(r.Context()),
	})
}

// writeAPIError maps err to a status code and writes it. Internal errors
// are reported without their details.
func writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, r, status, code, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT"
	case stderrors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "CANCELLED"
	case errors.IsValidation(err):
		return http.StatusBadRequest, string(errors.GetCode(err))
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented, string(errors.ErrCodeUnsupported)
	default:
		return http.StatusInternalServerError, string(errors.ErrCodeInternal)
	}
}
