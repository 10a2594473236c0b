// Package errs provides the error taxonomy of the laundry backend.
//
// Every kind of failure has a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrConflict, ErrForbidden, ...) and a struct type carrying the details.
// The struct types unwrap to their sentinel so callers can classify an error
// with errors.Is without knowing the concrete type:
//
//	err := errs.NewConflictError("order", "already paid")
//	errors.Is(err, errs.ErrConflict) // true
//
// Domain packages declare their own named errors (order.ErrIllegalTransition,
// user.ErrDuplicateEmail, ...) as values of these types, which lets the HTTP
// adapter map an error to a status code by kind alone.
package errs
