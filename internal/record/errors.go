package record

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports a submission rejected before anything was stored.
type ValidationError struct {
	// Mode is the record shape that failed validation.
	Mode Mode

	// Missing lists the required fields that were empty after trimming,
	// in form order.
	Missing []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s entry: missing %s", e.Mode, strings.Join(e.Missing, ", "))
}

// IsValidationError returns true if err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
