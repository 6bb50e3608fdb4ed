package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when an update targets a row that does not exist.
var ErrNotFound = errors.New("not found")

// ConstraintError reports a write rejected by a foreign key or uniqueness
// constraint. It is fatal for that single write only.
type ConstraintError struct {
	// Op names the store operation, e.g. "insert hole".
	Op string

	// Err is the driver error.
	Err error
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: constraint violation: %v", e.Op, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraintViolation returns true if err is, or wraps, a *ConstraintError.
func IsConstraintViolation(err error) bool {
	var ce *ConstraintError
	return errors.As(err, &ce)
}

// IsNotFound returns true if err is, or wraps, ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// wrapErr classifies a driver error for op.
func wrapErr(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return &ConstraintError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
