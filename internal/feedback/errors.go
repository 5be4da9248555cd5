package feedback

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrMissingOwner = errors.New("owner id is required")
)

// ValidationError reports a rejected feedback field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid feedback %s: %s", e.Field, e.Reason)
}
