package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrInitiatePaymentCommandIsNotConstructed = errors.New(
	"InitiatePaymentCommand must be created via NewInitiatePaymentCommand constructor",
)

// InitiatePaymentCommand starts (or resumes) the payment of a priced order
// by its customer.
type InitiatePaymentCommand struct {
	customerID kernel.UUID
	orderID    kernel.UUID

	guard guard.ConstructorGuard
}

func NewInitiatePaymentCommand(customerID, orderID kernel.UUID) (InitiatePaymentCommand, error) {
	if err := errors.Join(customerID.Validate(), orderID.Validate()); err != nil {
		return InitiatePaymentCommand{}, err
	}
	return InitiatePaymentCommand{
		customerID: customerID,
		orderID:    orderID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c InitiatePaymentCommand) Validate() error {
	return c.guard.Validate(ErrInitiatePaymentCommandIsNotConstructed)
}

func (c InitiatePaymentCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c InitiatePaymentCommand) OrderID() kernel.UUID {
	return c.orderID
}
