package search

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation failed")

// ValidationError reports malformed or out-of-bounds query input. It is
// always a client fault; anything else escaping this package is an internal
// error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
