package dto

import "net/http"

// Error codes returned by the API. Domain errors carry the same codes,
// so handlers can map them straight through.
const (
	ErrCodeNotFound              = "NOT_FOUND"
	ErrCodeAlreadyExists         = "ALREADY_EXISTS"
	ErrCodeInvalidInput          = "INVALID_INPUT"
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
	ErrCodeInvalidState          = "INVALID_STATE"
	ErrCodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	ErrCodeRateUnavailable       = "RATE_UNAVAILABLE"
	ErrCodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	ErrCodeConservationViolation = "CONSERVATION_VIOLATION"
	ErrCodeInternalError         = "INTERNAL_ERROR"
)

// errorStatusMap maps error codes to HTTP status codes
var errorStatusMap = map[string]int{
	ErrCodeNotFound:              http.StatusNotFound,
	ErrCodeAlreadyExists:         http.StatusConflict,
	ErrCodeInvalidInput:          http.StatusBadRequest,
	ErrCodeValidationFailed:      http.StatusBadRequest,
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeConcurrencyConflict:   http.StatusConflict,
	ErrCodeRateUnavailable:       http.StatusUnprocessableEntity,
	ErrCodeAccountNotFound:       http.StatusUnprocessableEntity,
	ErrCodeConservationViolation: http.StatusUnprocessableEntity,
	ErrCodeInternalError:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
