package errs

import (
	"errors"
	"fmt"
)

var ErrExternalService = errors.New("external service failure")

// ExternalServiceError wraps a failure of a third-party dependency such as
// the payment processor.
type ExternalServiceError struct {
	Service string
	Cause   error
}

func NewExternalServiceError(service string, cause error) *ExternalServiceError {
	return &ExternalServiceError{
		Service: service,
		Cause:   cause,
	}
}

func (e *ExternalServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrExternalService, e.Service, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrExternalService, e.Service)
}

// Unwrap exposes both the kind and the underlying cause.
func (e *ExternalServiceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrExternalService}
	}
	return []error{ErrExternalService, e.Cause}
}
