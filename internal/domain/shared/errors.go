package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound             = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists        = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput         = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict  = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState         = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrValidationFailed     = NewDomainError("VALIDATION_FAILED", "Document failed validation")
	ErrRateUnavailable      = NewDomainError("RATE_UNAVAILABLE", "No exchange rate available for currency pair")
	ErrAccountNotFound      = NewDomainError("ACCOUNT_NOT_FOUND", "Required account could not be resolved")
	ErrConservationViolated = NewDomainError("CONSERVATION_VIOLATION", "Allocated charges do not match total charges")
)
