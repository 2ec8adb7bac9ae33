package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("authentication code not correct")
	ErrNotFound     = errors.New("post not found")
	ErrRateLimited  = errors.New("too many requests")
)

// ValidationError reports malformed input or an out-of-range field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + " " + e.Reason
}

// PersistenceError wraps a storage failure. Its message never includes the
// driver error; use Unwrap for logging.
type PersistenceError struct {
	Op  string
	Err error
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s failed", e.Op)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPersistence(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
