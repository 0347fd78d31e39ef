package model

import "fmt"

// Standard error codes for domain errors
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodePersistence   = "PERSISTENCE_FAILED"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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
	ErrInvalidBody    = NewDomainError(ErrCodeInvalidJSON, "Invalid request body")
	ErrMissingFields  = NewDomainError(ErrCodeMissingField, "Missing required fields")
	ErrNotAJSONObject = NewDomainError(ErrCodeInvalidJSON, "Request body must be a JSON object")
)

// PersistenceError reports a failed read or write against a record store.
type PersistenceError struct {
	Op         string
	Collection string
	Err        error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// FailureResponse is the envelope returned when a submission is rejected.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
