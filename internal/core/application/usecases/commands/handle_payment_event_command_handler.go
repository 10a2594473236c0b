package commands

import (
	"context"
	"errors"
	"log/slog"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

const paymentEventNamespace = "payment-events"

// HandlePaymentEventCommandHandler applies payment confirmations delivered
// by the processor's webhook.
//
// Deliveries are at-least-once. Each event id is recorded in the
// de-duplication store before processing and released again if processing
// fails, and the paid merge itself is idempotent, so a redelivered event
// neither errors nor repeats side effects.
type HandlePaymentEventCommandHandler struct {
	uowFactory  OrderUoWFactory
	provider    ports.PaymentProvider
	dedup       ports.EventDeduplicator
	broadcaster OrderBroadcaster
	logger      *slog.Logger
}

func NewHandlePaymentEventCommandHandler(
	uowFactory OrderUoWFactory,
	provider ports.PaymentProvider,
	dedup ports.EventDeduplicator,
	broadcaster OrderBroadcaster,
	logger *slog.Logger,
) HandlePaymentEventCommandHandler {
	return HandlePaymentEventCommandHandler{
		uowFactory:  uowFactory,
		provider:    provider,
		dedup:       dedup,
		broadcaster: broadcaster,
		logger:      logger.With("component", "payment_webhook"),
	}
}

// Handle returns ports.ErrInvalidSignature for unverifiable payloads and nil
// for every verified event, including ones it deliberately ignores.
func (h HandlePaymentEventCommandHandler) Handle(ctx context.Context, cmd HandlePaymentEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	event, err := h.provider.ParseEvent(cmd.Payload(), cmd.Signature())
	if err != nil {
		return err
	}

	if event.Type != ports.PaymentEventIntentSucceeded {
		h.logger.DebugContext(ctx, "payment event ignored", "event_id", event.ID, "type", event.Type)
		return nil
	}

	first, err := h.dedup.FirstSeen(ctx, paymentEventNamespace, event.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "event de-duplication unavailable", "event_id", event.ID, "error", err)
		first = true
	}
	if !first {
		h.logger.InfoContext(ctx, "duplicate payment event", "event_id", event.ID)
		return nil
	}

	if err = h.apply(ctx, event); err != nil {
		if forgetErr := h.dedup.Forget(ctx, paymentEventNamespace, event.ID); forgetErr != nil {
			h.logger.WarnContext(ctx, "event de-duplication not released", "event_id", event.ID, "error", forgetErr)
		}
		return err
	}

	return nil
}

func (h HandlePaymentEventCommandHandler) apply(ctx context.Context, event ports.PaymentEvent) error {
	orderID, err := kernel.UUIDFromString(event.Intent.OrderID)
	if err != nil {
		h.logger.WarnContext(ctx, "payment event without valid order_id",
			"event_id", event.ID, "order_id", event.Intent.OrderID)
		return nil
	}

	paid, changed, err := markOrderPaid(ctx, h.uowFactory, orderID, event.Intent)
	if errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "payment event for unknown order", "event_id", event.ID, "order_id", orderID.String())
		return nil
	}
	if errors.Is(err, order.ErrPaymentMismatch) || errors.Is(err, order.ErrPricingNotFinalized) {
		// redelivery cannot fix this; the charge needs a manual refund
		h.logger.ErrorContext(ctx, "payment does not settle the order",
			"event_id", event.ID, "order_id", orderID.String(),
			"intent_id", event.Intent.ID, "stored_intent_id", paid.PaymentIntentID(),
			"charged_cents", event.Intent.AmountCents, "total_cents", totalCents(paid))
		return nil
	}
	if err != nil {
		return err
	}

	if changed {
		h.logger.InfoContext(ctx, "order paid", "order_id", orderID.String(), "event_id", event.ID)
		h.broadcaster.Publish(ctx, ports.OrderPaid, paid)
	}

	return nil
}

func totalCents(o *order.Order) int64 {
	if o.Breakdown() == nil {
		return 0
	}
	return o.Breakdown().TotalCents
}
