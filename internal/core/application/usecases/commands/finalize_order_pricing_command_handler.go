package commands

import (
	"context"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// FinalizeOrderPricingCommandHandler persists the price breakdown computed
// from the order's frozen rates.
type FinalizeOrderPricingCommandHandler struct {
	uowFactory  OrderUoWFactory
	broadcaster OrderBroadcaster
}

func NewFinalizeOrderPricingCommandHandler(
	uowFactory OrderUoWFactory,
	broadcaster OrderBroadcaster,
) FinalizeOrderPricingCommandHandler {
	return FinalizeOrderPricingCommandHandler{
		uowFactory:  uowFactory,
		broadcaster: broadcaster,
	}
}

// Handle returns order.ErrAlreadyPaid for paid orders.
func (h FinalizeOrderPricingCommandHandler) Handle(ctx context.Context, cmd FinalizeOrderPricingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var priced *order.Order
	err := retryOnVersionConflict(ctx, func() error {
		var unitErr error
		priced, unitErr = h.finalize(ctx, cmd)
		return unitErr
	})
	if err != nil {
		return nil, err
	}

	h.broadcaster.Publish(ctx, ports.OrderPriced, priced)

	return priced, nil
}

func (h FinalizeOrderPricingCommandHandler) finalize(ctx context.Context, cmd FinalizeOrderPricingCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.FinalizePricing(cmd.WeightLbs()); err != nil {
		return nil, err
	}

	if err = orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
