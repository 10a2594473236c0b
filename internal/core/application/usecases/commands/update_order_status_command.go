package commands

import (
	"errors"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand is a driver's request to move an order one step
// along its lifecycle.
type UpdateOrderStatusCommand struct {
	driverID kernel.UUID
	orderID  kernel.UUID
	status   order.Status

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand parses the requested status from its wire name.
func NewUpdateOrderStatusCommand(driverID, orderID kernel.UUID, status string) (UpdateOrderStatusCommand, error) {
	next, statusErr := order.ParseStatus(status)

	if err := errors.Join(driverID.Validate(), orderID.Validate(), statusErr); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return UpdateOrderStatusCommand{
		driverID: driverID,
		orderID:  orderID,
		status:   next,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}
