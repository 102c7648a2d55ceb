package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound reports that the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidCredentials reports a failed email/password check. Deliberately
// carries no detail about which of the two was wrong.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// FieldError ties a validation message to the offending payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the structured 400 payload: one entry per bad field.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// classifyWriteError reclassifies store-level errors into the service
// taxonomy: missing rows become ErrNotFound, unique-index violations become a
// field-tagged validation error on uniqueField. Anything else passes through
// for the HTTP layer to treat as internal.
func classifyWriteError(err error, uniqueField string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewValidationError(uniqueField, fmt.Sprintf("%s already in use", uniqueField))
	default:
		return err
	}
}
