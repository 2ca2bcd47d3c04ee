package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/baharkarakas/point-ledger/internal/services"
)

type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details any) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// StatusFor maps a PointService error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, services.ErrStorageFailure), errors.Is(err, services.ErrLockTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func WriteServiceError(w http.ResponseWriter, err error) {
	msg := err.Error()
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	WriteError(w, status, services.ErrorCode(err), msg, nil)
}
