package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/services"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// AssignDriverCommandHandler orchestrates driver assignment. The order row
// is locked for the duration of the unit of work and written back with a
// version check; a lost race is replayed once.
type AssignDriverCommandHandler struct {
	uowFactory  UoWFactory
	dispatcher  services.DriverDispatcher
	broadcaster OrderBroadcaster
}

func NewAssignDriverCommandHandler(uowFactory UoWFactory, broadcaster OrderBroadcaster) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory:  uowFactory,
		dispatcher:  services.NewDriverDispatcher(),
		broadcaster: broadcaster,
	}
}

// Handle returns the updated order. Errors: errs.ErrObjectNotFound for an
// unknown order, services.ErrDriverNotFound, order.ErrIllegalTransition.
func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var assigned *order.Order
	var customerEmail string
	err := retryOnVersionConflict(ctx, func() error {
		var unitErr error
		assigned, customerEmail, unitErr = h.assign(ctx, cmd)
		return unitErr
	})
	if err != nil {
		return nil, err
	}

	h.broadcaster.Publish(ctx, ports.OrderDriverAssigned, assigned)
	h.broadcaster.NotifyStatus(ctx, assigned, customerEmail)

	return assigned, nil
}

func (h AssignDriverCommandHandler) assign(ctx context.Context, cmd AssignDriverCommand) (*order.Order, string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()
	orders := uow.OrderRepository()

	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, "", err
	}

	driver, err := users.Get(ctx, cmd.DriverID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, "", err
	}

	if err = h.dispatcher.Dispatch(o, driver); err != nil {
		return nil, "", err
	}

	if err = orders.Update(ctx, o); err != nil {
		return nil, "", err
	}

	customerEmail := lookupEmail(ctx, users, o)

	if err = uow.Commit(ctx); err != nil {
		return nil, "", err
	}

	return o, customerEmail, nil
}

// lookupEmail resolves the customer's address for notifications, "" when
// it cannot be found.
func lookupEmail(ctx context.Context, users ports.UserRepository, o *order.Order) string {
	customer, err := users.Get(ctx, o.CustomerID())
	if err != nil || customer == nil {
		return ""
	}
	return customer.Email().String()
}
