package services

import (
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/errs"
)

// ErrDriverNotFound is returned when the assignee is missing or is not a driver.
// A customer or admin id is reported exactly like an unknown id.
var ErrDriverNotFound = errs.NewObjectNotFoundError("driver", "driver id")

// DriverDispatcher is the domain service behind admin driver assignment.
//
// Business rules:
//   - The assignee must be a user with role driver
//   - Assignment forces the order into picked_up (see order.AssignDriver)
//   - Delivered orders cannot be reassigned
//
// Example usage:
//
//	dispatcher := services.NewDriverDispatcher()
//	if err := dispatcher.Dispatch(o, driver); err != nil {
//	    return err
//	}
type DriverDispatcher struct{}

func NewDriverDispatcher() DriverDispatcher {
	return DriverDispatcher{}
}

// Dispatch assigns driver to o.
//
// Parameters:
//   - o: the order to assign (must be valid)
//   - driver: the resolved assignee, nil when the id matched no user
//
// Returns:
//   - nil on success
//   - ErrDriverNotFound if driver is nil or not a driver
//   - order.ErrIllegalTransition if the order is delivered
func (d DriverDispatcher) Dispatch(o *order.Order, driver *user.User) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if driver == nil || driver.Validate() != nil || !driver.HasRole(user.RoleDriver) {
		return ErrDriverNotFound
	}

	return o.AssignDriver(driver.ID())
}
