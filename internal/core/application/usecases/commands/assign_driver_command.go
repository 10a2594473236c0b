package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand is the admin operation that puts a driver on an
// order and moves it to picked_up.
//
// Example:
//
//	cmd, err := NewAssignDriverCommand(orderID, driverID)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, services.ErrDriverNotFound):
//	    // 404
//	case errors.Is(err, order.ErrIllegalTransition):
//	    // 409, order already delivered
//	}
type AssignDriverCommand struct {
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(orderID, driverID kernel.UUID) (AssignDriverCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return AssignDriverCommand{}, err
	}
	return AssignDriverCommand{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignDriverCommand) DriverID() kernel.UUID {
	return c.driverID
}
