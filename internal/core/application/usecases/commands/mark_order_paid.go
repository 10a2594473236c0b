package commands

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// markOrderPaid applies a succeeded intent to the order in its own unit of
// work. It reports whether the paid flag changed; an already paid order is
// left untouched. order.ErrPaymentMismatch is returned, and nothing is
// written, when the intent does not settle the current price.
func markOrderPaid(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	intent ports.PaymentIntent,
) (*order.Order, bool, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	changed, err := o.MarkPaid(intent.ID, intent.AmountCents)
	if err != nil {
		return o, false, err
	}
	if !changed {
		return o, false, nil
	}

	if err = orders.Update(ctx, o); err != nil {
		return nil, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}

	return o, true, nil
}
