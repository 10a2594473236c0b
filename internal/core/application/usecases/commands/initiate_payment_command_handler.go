package commands

import (
	"context"
	"errors"
	"fmt"

	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// PaymentSession is what the client needs to confirm the payment.
type PaymentSession struct {
	PaymentIntentID string
	ClientSecret    string
	AmountCents     int64
	Currency        string
}

// InitiatePaymentCommandHandler creates the processor-side payment intent
// for a priced order.
//
// The whole operation runs under the order's row lock, so concurrent
// initiations for one order are serialized and at most one intent is
// created. An open intent for the same amount is reused instead of creating
// another; the idempotency key (order id, version and amount) covers
// retries of the provider call itself.
type InitiatePaymentCommandHandler struct {
	uowFactory  OrderUoWFactory
	provider    ports.PaymentProvider
	broadcaster OrderBroadcaster
}

func NewInitiatePaymentCommandHandler(
	uowFactory OrderUoWFactory,
	provider ports.PaymentProvider,
	broadcaster OrderBroadcaster,
) InitiatePaymentCommandHandler {
	return InitiatePaymentCommandHandler{
		uowFactory:  uowFactory,
		provider:    provider,
		broadcaster: broadcaster,
	}
}

// Handle errors: errs.ErrObjectNotFound, order.ErrNotOwner,
// order.ErrPricingNotFinalized, order.ErrAlreadyPaid, errs.ErrExternalService.
func (h InitiatePaymentCommandHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (PaymentSession, error) {
	if err := cmd.Validate(); err != nil {
		return PaymentSession{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PaymentSession{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()

	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return PaymentSession{}, err
	}

	if err = o.EnsurePayable(cmd.CustomerID()); err != nil {
		return PaymentSession{}, err
	}

	total := o.Breakdown().TotalCents

	if o.HasPaymentIntent() {
		existing, retrieveErr := h.provider.RetrieveIntent(ctx, o.PaymentIntentID())
		if retrieveErr != nil {
			return PaymentSession{}, asExternalServiceError(retrieveErr)
		}

		if existing.Succeeded() {
			return PaymentSession{}, h.settle(ctx, uow, o, existing)
		}

		if existing.Status != "canceled" && existing.AmountCents == total {
			return sessionFrom(existing), nil
		}
	}

	intent, err := h.provider.CreateIntent(ctx, ports.CreatePaymentIntentRequest{
		OrderID:        o.ID(),
		AmountCents:    total,
		IdempotencyKey: paymentIdempotencyKey(o),
	})
	if err != nil {
		return PaymentSession{}, asExternalServiceError(err)
	}

	if err = o.AttachPaymentIntent(intent.ID); err != nil {
		return PaymentSession{}, err
	}

	if err = orders.Update(ctx, o); err != nil {
		return PaymentSession{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return PaymentSession{}, err
	}

	return sessionFrom(intent), nil
}

// settle records a payment the webhook has not delivered yet and reports
// the order as already paid.
func (h InitiatePaymentCommandHandler) settle(ctx context.Context, uow OrderUoW, o *order.Order, intent ports.PaymentIntent) error {
	if _, err := o.MarkPaid(intent.ID, intent.AmountCents); err != nil {
		return err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	h.broadcaster.Publish(ctx, ports.OrderPaid, o)
	return order.ErrAlreadyPaid
}

func paymentIdempotencyKey(o *order.Order) string {
	return fmt.Sprintf("order-%s-v%d-amount-%d", o.ID(), o.Version(), o.Breakdown().TotalCents)
}

func sessionFrom(intent ports.PaymentIntent) PaymentSession {
	return PaymentSession{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     intent.AmountCents,
		Currency:        intent.Currency,
	}
}

func asExternalServiceError(err error) error {
	if errors.Is(err, errs.ErrExternalService) {
		return err
	}
	return errs.NewExternalServiceError("payment provider", err)
}
