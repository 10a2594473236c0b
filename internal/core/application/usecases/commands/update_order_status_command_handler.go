package commands

import (
	"context"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// UpdateOrderStatusCommandHandler applies driver status transitions.
//
// Two drivers (or two requests of one driver) racing on the same order are
// serialized by the row lock and the version check: exactly one transition
// commits, the other is replayed against the new status and fails with
// order.ErrIllegalTransition.
type UpdateOrderStatusCommandHandler struct {
	uowFactory  UoWFactory
	broadcaster OrderBroadcaster
}

func NewUpdateOrderStatusCommandHandler(uowFactory UoWFactory, broadcaster OrderBroadcaster) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var updated *order.Order
	var customerEmail string
	err := retryOnVersionConflict(ctx, func() error {
		var unitErr error
		updated, customerEmail, unitErr = h.advance(ctx, cmd)
		return unitErr
	})
	if err != nil {
		return nil, err
	}

	h.broadcaster.Publish(ctx, ports.OrderStatusChanged, updated)
	h.broadcaster.NotifyStatus(ctx, updated, customerEmail)

	return updated, nil
}

func (h UpdateOrderStatusCommandHandler) advance(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, string, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, "", err
	}

	if err = o.AdvanceStatus(cmd.DriverID(), cmd.Status()); err != nil {
		return nil, "", err
	}

	if err = orders.Update(ctx, o); err != nil {
		return nil, "", err
	}

	customerEmail := lookupEmail(ctx, uow.UserRepository(), o)

	if err = uow.Commit(ctx); err != nil {
		return nil, "", err
	}

	return o, customerEmail, nil
}
