package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/domain/model/pricing"
	"laundry/internal/core/ports"
)

// CreateOrderCommandHandler stores new Scheduled orders priced with the
// global rates current at booking time.
type CreateOrderCommandHandler struct {
	uowFactory  OrderUoWFactory
	rates       pricing.Rates
	broadcaster OrderBroadcaster
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	rates pricing.Rates,
	broadcaster OrderBroadcaster,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:  uowFactory,
		rates:       rates,
		broadcaster: broadcaster,
	}
}

func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	created, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerID(), cmd.Pickup(), h.rates, time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.broadcaster.Publish(ctx, ports.OrderCreated, created)

	return created, nil
}
