package store

import (
	"errors"
	"fmt"
)

// StorageError reports a write the persistence layer rejected (constraint
// violation, disk or quota full, closed database). The prior contents are
// unaffected.
type StorageError struct {
	// Op names the failed operation ("append", "clear", "save author", ...).
	Op string

	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
