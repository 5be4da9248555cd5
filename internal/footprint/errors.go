package footprint

import (
	"errors"
	"fmt"
	"strings"
)

// Service and repository errors.
var (
	ErrMissingOwner   = errors.New("owner id is required")
	ErrRecordNotFound = errors.New("footprint record not found")
)

// InvalidInputError reports a single input field that cannot be used for a
// computation: unknown, non-numeric, not finite, or outside its valid range.
type InvalidInputError struct {
	Category Category
	Field    string
	Value    interface{}
	Reason   string
}

// Path returns the dotted field path, e.g. "transport.carKm".
func (e *InvalidInputError) Path() string {
	if e.Field == "" {
		return string(e.Category)
	}
	return string(e.Category) + "." + e.Field
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Path(), e.Reason)
}

// ValidationError collects every invalid field of a submission.
type ValidationError struct {
	Errors []*InvalidInputError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Path()+": "+fe.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the individual field errors to errors.As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe
	}
	return out
}

func validationErrorOrNil(errs []*InvalidInputError) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}
