package commands

import (
	"context"
	"log/slog"
	"time"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
)

// OrderBroadcaster fans committed order changes out to the customer
// notifier and the order event stream. Both are best effort: failures are
// logged and never reach the caller.
type OrderBroadcaster struct {
	notifier  ports.Notifier
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

func NewOrderBroadcaster(
	notifier ports.Notifier,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) OrderBroadcaster {
	return OrderBroadcaster{
		notifier:  notifier,
		publisher: publisher,
		logger:    logger.With("component", "order_broadcaster"),
	}
}

// Publish emits an order event of type t.
func (b OrderBroadcaster) Publish(ctx context.Context, t ports.OrderEventType, o *order.Order) {
	if b.publisher == nil {
		return
	}
	if err := b.publisher.Publish(ctx, ports.NewOrderEvent(t, o, time.Now())); err != nil {
		b.logger.WarnContext(ctx, "order event not published",
			"event", string(t), "order_id", o.ID().String(), "error", err)
	}
}

// NotifyStatus tells the customer about the order's current status.
func (b OrderBroadcaster) NotifyStatus(ctx context.Context, o *order.Order, customerEmail string) {
	if b.notifier == nil || customerEmail == "" {
		return
	}
	msg := ports.StatusUpdateMessage{
		OrderID:       o.ID(),
		CustomerEmail: customerEmail,
		Status:        o.Status(),
	}
	if err := b.notifier.SendStatusUpdate(ctx, msg); err != nil {
		b.logger.WarnContext(ctx, "status notification failed",
			"order_id", o.ID().String(), "status", o.Status().String(), "error", err)
	}
}
