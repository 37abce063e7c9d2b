package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for domain errors
const (
	ErrCodeOrderNotFound    = "ORDER_NOT_FOUND"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeCategoryNotFound = "CATEGORY_NOT_FOUND"
	ErrCodeInvalidLogin     = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
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
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCategoryNotFound   = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidLogin, "Invalid credentials")
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "Unauthorized")
)

// FieldViolation is one rejected field of a request.
type FieldViolation struct {
	Field   string
	Message string
}

func (v FieldViolation) String() string {
	if v.Field == "" {
		return v.Message
	}
	return fmt.Sprintf("%s %s", v.Field, v.Message)
}

// ValidationError reports client input that was rejected before anything was
// written. It is safe to retry once the input is fixed. Field and Message
// describe the first violation; Violations lists all of them when there was
// more than one.
type ValidationError struct {
	Field      string
	Message    string
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) > 1 {
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.String()
		}
		return strings.Join(parts, "; ")
	}
	return FieldViolation{Field: e.Field, Message: e.Message}.String()
}

// NewValidationError creates a validation error for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrors creates a validation error carrying every violation.
// violations must not be empty.
func NewValidationErrors(violations []FieldViolation) *ValidationError {
	return &ValidationError{
		Field:      violations[0].Field,
		Message:    violations[0].Message,
		Violations: violations,
	}
}

// PersistenceKind classifies storage failures for observability.
type PersistenceKind string

const (
	PersistenceUnavailable PersistenceKind = "unavailable"
	PersistenceConstraint  PersistenceKind = "constraint"
	PersistenceUnknown     PersistenceKind = "unknown"
)

// PersistenceError reports a storage failure that happened after validation
// passed. Any transaction in flight has been rolled back.
type PersistenceError struct {
	Op   string
	Kind PersistenceKind
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: storage %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// IsPersistence reports whether err is (or wraps) a PersistenceError.
func IsPersistence(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}
