package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/gosend/internal/adapter/http/dto"
	"github.com/iho/gosend/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionTerminal),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrActionPending):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDraftInvalid),
		errors.Is(err, domain.ErrFieldNotEditable),
		errors.Is(err, domain.ErrOTPCodeLength):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOTPMismatch),
		errors.Is(err, domain.ErrOTPExpired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrOTPRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrOTPAttemptsExhausted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOTPSendFailed),
		errors.Is(err, domain.ErrSubmissionNetwork),
		errors.Is(err, domain.ErrSubmissionTimeout):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrSubmissionRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrUnknownCurrency),
		errors.Is(err, domain.ErrAmountNotANumber),
		errors.Is(err, domain.ErrAmountNotPositive),
		errors.Is(err, domain.ErrAmountExceedsMax),
		errors.Is(err, domain.ErrAddressTooShort),
		errors.Is(err, domain.ErrAddressInvalidFormat),
		errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
