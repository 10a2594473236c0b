package commands

import (
	"context"
	"log/slog"

	"laundry/internal/core/ports"
)

// ReconcilePaymentsResult summarizes one reconciliation pass.
type ReconcilePaymentsResult struct {
	Checked int
	Settled int
	Failed  int
}

// ReconcilePaymentsCommandHandler retrieves the intents of unpaid orders
// and applies the same idempotent paid merge as the webhook for those the
// processor reports as succeeded. Provider failures on single orders are
// logged and counted; they do not abort the pass.
type ReconcilePaymentsCommandHandler struct {
	uowFactory  OrderUoWFactory
	provider    ports.PaymentProvider
	broadcaster OrderBroadcaster
	logger      *slog.Logger
}

func NewReconcilePaymentsCommandHandler(
	uowFactory OrderUoWFactory,
	provider ports.PaymentProvider,
	broadcaster OrderBroadcaster,
	logger *slog.Logger,
) ReconcilePaymentsCommandHandler {
	return ReconcilePaymentsCommandHandler{
		uowFactory:  uowFactory,
		provider:    provider,
		broadcaster: broadcaster,
		logger:      logger.With("component", "payment_reconciliation"),
	}
}

func (h ReconcilePaymentsCommandHandler) Handle(ctx context.Context, cmd ReconcilePaymentsCommand) (ReconcilePaymentsResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcilePaymentsResult{}, err
	}

	pending, err := h.uowFactory.Create().OrderRepository().ListAwaitingPayment(ctx, cmd.BatchSize())
	if err != nil {
		return ReconcilePaymentsResult{}, err
	}

	var result ReconcilePaymentsResult
	for _, o := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Checked++

		intent, retrieveErr := h.provider.RetrieveIntent(ctx, o.PaymentIntentID())
		if retrieveErr != nil {
			result.Failed++
			h.logger.WarnContext(ctx, "payment intent not retrieved",
				"order_id", o.ID().String(), "intent_id", o.PaymentIntentID(), "error", retrieveErr)
			continue
		}
		if !intent.Succeeded() {
			continue
		}

		paid, changed, markErr := markOrderPaid(ctx, h.uowFactory, o.ID(), intent)
		if markErr != nil {
			result.Failed++
			h.logger.WarnContext(ctx, "order not settled", "order_id", o.ID().String(),
				"intent_id", intent.ID, "charged_cents", intent.AmountCents, "error", markErr)
			continue
		}
		if changed {
			result.Settled++
			h.broadcaster.Publish(ctx, ports.OrderPaid, paid)
		}
	}

	return result, nil
}
