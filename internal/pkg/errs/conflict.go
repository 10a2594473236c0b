package errs

import (
	"errors"
	"fmt"
)

var ErrConflict = errors.New("conflict")

// ConflictError reports an operation that contradicts the current state of
// an object: a duplicate key, an illegal state transition, a repeated payment.
type ConflictError struct {
	ParamName string
	Reason    string
}

func NewConflictError(paramName, reason string) *ConflictError {
	return &ConflictError{
		ParamName: paramName,
		Reason:    reason,
	}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConflict, e.ParamName, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}
