package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller-supplied input that cannot be scheduled.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError identifies the offending field of a malformed input.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidInput builds an *InvalidInputError for field.
func InvalidInput(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
