package ports

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

// PaymentEventIntentSucceeded is the only event type that changes order state.
const PaymentEventIntentSucceeded = "payment_intent.succeeded"

// ErrInvalidSignature is returned for webhook payloads that fail signature verification.
var ErrInvalidSignature = errs.NewValueIsInvalidError("webhook signature")

// PaymentIntent is the processor-side record of a pending charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string

	// OrderID is the order_id metadata attached at creation, verbatim.
	OrderID string
}

func (p PaymentIntent) Succeeded() bool {
	return p.Status == "succeeded"
}

// PaymentEvent is a verified webhook notification.
type PaymentEvent struct {
	ID     string
	Type   string
	Intent PaymentIntent
}

// CreatePaymentIntentRequest describes a charge for one order.
type CreatePaymentIntentRequest struct {
	OrderID     kernel.UUID
	AmountCents int64

	// IdempotencyKey makes retried creations return the same intent.
	IdempotencyKey string
}

// PaymentProvider is the external payment processor. Transport failures
// match errs.ErrExternalService.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, req CreatePaymentIntentRequest) (PaymentIntent, error)
	RetrieveIntent(ctx context.Context, intentID string) (PaymentIntent, error)

	// ParseEvent verifies signature against the webhook secret and decodes
	// payload. Verification failures return ErrInvalidSignature.
	ParseEvent(payload []byte, signature string) (PaymentEvent, error)
}

// EventDeduplicator remembers processed external event ids.
type EventDeduplicator interface {
	// FirstSeen atomically records id under namespace and reports whether
	// it was not recorded before.
	FirstSeen(ctx context.Context, namespace, id string) (bool, error)

	// Forget removes id so a failed delivery can be processed again.
	Forget(ctx context.Context, namespace, id string) error
}
