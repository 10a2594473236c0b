package commands

import (
	"context"
	"errors"

	"laundry/internal/pkg/errs"
)

// maxWriteAttempts bounds how often a read-modify-write unit is replayed
// after losing an optimistic-concurrency race.
const maxWriteAttempts = 2

// ErrConcurrentModification is returned when every attempt lost the race.
var ErrConcurrentModification = errs.NewConflictError("order", "modified concurrently, retry the request")

// retryOnVersionConflict runs unit again when it fails with
// errs.ErrVersionIsInvalid. The replay re-reads the aggregate and
// re-evaluates every precondition, so a request that lost to a competing
// transition usually fails with that transition's own domain error.
func retryOnVersionConflict(ctx context.Context, unit func() error) error {
	var err error
	for range maxWriteAttempts {
		if err = unit(); !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return errors.Join(ErrConcurrentModification, err)
}
