package ports

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
)

// VerificationMessage asks the user to confirm their email address.
type VerificationMessage struct {
	UserID kernel.UUID
	Email  string
	Token  string
	Link   string
}

// StatusUpdateMessage tells a customer their order moved.
type StatusUpdateMessage struct {
	OrderID       kernel.UUID
	CustomerEmail string
	Status        order.Status
}

// Notifier delivers messages to users. Callers treat failures as
// non-fatal: they are logged and never fail the triggering operation.
type Notifier interface {
	SendVerification(ctx context.Context, msg VerificationMessage) error
	SendStatusUpdate(ctx context.Context, msg StatusUpdateMessage) error
}

// OrderEventType names an order lifecycle event.
type OrderEventType string

const (
	OrderCreated        OrderEventType = "order.created"
	OrderDriverAssigned OrderEventType = "order.driver_assigned"
	OrderStatusChanged  OrderEventType = "order.status_changed"
	OrderPriced         OrderEventType = "order.priced"
	OrderPaid           OrderEventType = "order.paid"
)

// OrderEvent is published after a committed order change.
type OrderEvent struct {
	Type       OrderEventType
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	DriverID   *kernel.UUID
	Status     order.Status
	TotalCents *int64
	IsPaid     bool
	OccurredAt time.Time
}

// NewOrderEvent snapshots o into an event of type t.
func NewOrderEvent(t OrderEventType, o *order.Order, now time.Time) OrderEvent {
	event := OrderEvent{
		Type:       t,
		OrderID:    o.ID(),
		CustomerID: o.CustomerID(),
		DriverID:   o.Driver(),
		Status:     o.Status(),
		IsPaid:     o.IsPaid(),
		OccurredAt: now.UTC(),
	}
	if b := o.Breakdown(); b != nil {
		total := b.TotalCents
		event.TotalCents = &total
	}
	return event
}

// OrderEventPublisher emits order lifecycle events to downstream consumers.
type OrderEventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}
