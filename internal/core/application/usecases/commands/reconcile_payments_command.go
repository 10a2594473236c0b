package commands

import (
	"errors"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrReconcilePaymentsCommandIsNotConstructed = errors.New(
	"ReconcilePaymentsCommand must be created via NewReconcilePaymentsCommand constructor",
)

const maxReconcileBatch = 500

// ReconcilePaymentsCommand checks a batch of unpaid orders against the
// payment processor, catching confirmations whose webhook was lost.
type ReconcilePaymentsCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewReconcilePaymentsCommand(batchSize int) (ReconcilePaymentsCommand, error) {
	if batchSize <= 0 || batchSize > maxReconcileBatch {
		return ReconcilePaymentsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, maxReconcileBatch)
	}
	return ReconcilePaymentsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcilePaymentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePaymentsCommandIsNotConstructed)
}

func (c ReconcilePaymentsCommand) BatchSize() int {
	return c.batchSize
}
