package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/logging"
)

// Machine-readable error codes.
const (
	CodeInvalidRange        = "INVALID_RANGE"
	CodeInvalidAllocation   = "INVALID_ALLOCATION"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeValidation          = "VALIDATION_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeForbidden           = "FORBIDDEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`

	// INSUFFICIENT_BALANCE
	Requested *string `json:"requested,omitempty"`
	Available *string `json:"available,omitempty"`
	Shortfall *string `json:"shortfall,omitempty"`

	// INVALID_STATUS
	CurrentStatus string `json:"current_status,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, detail string, extra func(*ErrorResponse)) {
	resp := ErrorResponse{Error: code, Detail: detail}
	if extra != nil {
		extra(&resp)
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps a domain error to status and code.
// Every domain failure is a 4xx; anything unrecognized is a 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		insufficient *generic.InsufficientBalanceError
		invalidState *generic.InvalidStateError
	)

	switch {
	case errors.As(err, &insufficient):
		writeError(w, http.StatusBadRequest, CodeInsufficientBalance, err.Error(), func(resp *ErrorResponse) {
			resp.Requested = strPtr(generic.FormatDecimal(insufficient.Requested))
			resp.Available = strPtr(generic.FormatDecimal(insufficient.Available))
			resp.Shortfall = strPtr(generic.FormatDecimal(insufficient.Shortfall))
		})
	case errors.As(err, &invalidState):
		writeError(w, http.StatusBadRequest, CodeInvalidStatus, err.Error(), func(resp *ErrorResponse) {
			resp.CurrentStatus = invalidState.Current
		})
	case errors.Is(err, generic.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, CodeInvalidRange, err.Error(), nil)
	case errors.Is(err, generic.ErrInvalidAllocation):
		writeError(w, http.StatusBadRequest, CodeInvalidAllocation, err.Error(), nil)
	case errors.Is(err, generic.ErrValidation):
		writeError(w, http.StatusBadRequest, CodeValidation, err.Error(), nil)
	case errors.Is(err, generic.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error(), nil)
	case errors.Is(err, generic.ErrForbidden):
		writeError(w, http.StatusForbidden, CodeForbidden, err.Error(), nil)
	default:
		logging.FromContext(r.Context()).Error("request failed",
			slog.String("path", r.URL.Path), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, CodeInternal, "internal error", nil)
	}
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	writeError(w, http.StatusBadRequest, CodeValidation, detail, nil)
}

func strPtr(s string) *string {
	return &s
}
