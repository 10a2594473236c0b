package commands

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand books a pickup for the authenticated customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customer.ID(), "1 Main St", "regular", day, "gate code 42")
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	pickup     order.Pickup

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	customerID kernel.UUID,
	pickupAddress string,
	laundryType string,
	pickupDate time.Time,
	instructions string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setPickup(pickupAddress, laundryType, pickupDate, instructions),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) Pickup() order.Pickup {
	return c.pickup
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setPickup(address, laundryType string, date time.Time, instructions string) error {
	pickup, err := order.NewPickup(address, order.LaundryType(laundryType), date, instructions)
	if err != nil {
		return err
	}
	c.pickup = pickup
	return nil
}
