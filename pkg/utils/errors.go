package utils

import (
	"errors"
	"fmt"
)

var (
	ErrLookupFailure      = errors.New("historical correlation lookup failed")
	ErrIntegrityViolation = errors.New("slate data integrity violation")
	ErrPSDViolation       = errors.New("correlation matrix not positive semi-definite")
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// LookupError reports a missing historical correlation for a value that is
// present on the slate. It is fatal: in-scope relations never fall back to a
// silent default.
type LookupError struct {
	What   string
	Detail string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrLookupFailure, e.What, e.Detail)
}

func (e *LookupError) Unwrap() error { return ErrLookupFailure }

// IntegrityError reports upstream data errors that violate the assembler's
// preconditions, such as an unresolvable or self-referencing opposing pitcher.
type IntegrityError struct {
	Player string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: player %q: %s", ErrIntegrityViolation, e.Player, e.Detail)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrityViolation }

// PSDError reports a symmetry or eigenvalue failure of the assembled matrix.
type PSDError struct {
	Detail string
}

func (e *PSDError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPSDViolation, e.Detail)
}

func (e *PSDError) Unwrap() error { return ErrPSDViolation }

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewAppError(code string, message string, details ...string) *AppError {
	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Common error codes
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeLookup     = "LOOKUP_FAILURE"
	ErrCodeIntegrity  = "INTEGRITY_VIOLATION"
	ErrCodePSD        = "PSD_VIOLATION"
)
