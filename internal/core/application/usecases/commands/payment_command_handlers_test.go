package commands_test

import (
	"errors"
	"testing"

	"laundry/internal/core/application/usecases/commands"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/order"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInitiatePaymentCommandHandler(t *testing.T) {
	t.Run("creates an intent for the priced total", func(t *testing.T) {
		f := newOrderFixture()
		o := newPricedOrder(f.store, f.customer.ID(), 10)

		provider := new(MockPaymentProvider)
		provider.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req ports.CreatePaymentIntentRequest) bool {
			return req.OrderID.IsEqual(o.ID()) && req.AmountCents == 2728 && req.IdempotencyKey != ""
		})).Return(ports.PaymentIntent{
			ID: "pi_1", ClientSecret: "pi_1_secret", Status: "requires_payment_method", AmountCents: 2728, Currency: "usd",
		}, nil).Once()

		cmd, err := commands.NewInitiatePaymentCommand(f.customer.ID(), o.ID())
		require.NoError(t, err)

		session, err := commands.NewInitiatePaymentCommandHandler(f.store.factory().orders(), provider, f.broadcaster()).
			Handle(t.Context(), cmd)
		require.NoError(t, err)

		assert.Equal(t, commands.PaymentSession{
			PaymentIntentID: "pi_1", ClientSecret: "pi_1_secret", AmountCents: 2728, Currency: "usd",
		}, session)
		assert.Equal(t, "pi_1", f.store.order(o.ID()).PaymentIntentID())
		assert.False(t, f.store.order(o.ID()).IsPaid())
		provider.AssertExpectations(t)
	})

	t.Run("reuses an open intent for the same amount", func(t *testing.T) {
		f := newOrderFixture()
		o := newPricedOrder(f.store, f.customer.ID(), 10)
		require.NoError(t, o.AttachPaymentIntent("pi_open"))
		f.store.putOrder(o)

		provider := new(MockPaymentProvider)
		provider.On("RetrieveIntent", mock.Anything, "pi_open").Return(ports.PaymentIntent{
			ID: "pi_open", ClientSecret: "secret", Status: "requires_payment_method", AmountCents: 2728, Currency: "usd",
		}, nil).Once()

		cmd, err := commands.NewInitiatePaymentCommand(f.customer.ID(), o.ID())
		require.NoError(t, err)

		session, err := commands.NewInitiatePaymentCommandHandler(f.store.factory().orders(), provider, f.broadcaster()).
			Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, "pi_open", session.PaymentIntentID)
		provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
	})

	t.Run("settles an intent that already succeeded", func(t *testing.T) {
		f := newOrderFixture()
		o := newPricedOrder(f.store, f.customer.ID(), 10)
		require.NoError(t, o.AttachPaymentIntent("pi_done"))
		f.store.putOrder(o)

		provider := new(MockPaymentProvider)
		provider.On("RetrieveIntent", mock.Anything, "pi_done").
			Return(ports.PaymentIntent{ID: "pi_done", Status: "succeeded", AmountCents: 2728}, nil).Once()

		cmd, err := commands.NewInitiatePaymentCommand(f.customer.ID(), o.ID())
		require.NoError(t, err)

		_, err = commands.NewInitiatePaymentCommandHandler(f.store.factory().orders(), provider, f.broadcaster()).
			Handle(t.Context(), cmd)
		require.ErrorIs(t, err, order.ErrAlreadyPaid)
		assert.True(t, f.store.order(o.ID()).IsPaid())
		assert.Equal(t, []ports.OrderEventType{ports.OrderPaid}, f.publisher.types())
	})

	t.Run("succeeded intent for another amount is refused", func(t *testing.T) {
		f := newOrderFixture()
		o := newPricedOrder(f.store, f.customer.ID(), 10)
		require.NoError(t, o.AttachPaymentIntent("pi_short"))
		f.store.putOrder(o)

		provider := new(MockPaymentProvider)
		provider.On("RetrieveIntent", mock.Anything, "pi_short").
			Return(ports.PaymentIntent{ID: "pi_short", Status: "succeeded", AmountCents: 1043}, nil).Once()

		cmd, err := commands.NewInitiatePaymentCommand(f.customer.ID(), o.ID())
		require.NoError(t, err)

		_, err = commands.NewInitiatePaymentCommandHandler(f.store.factory().orders(), provider, f.broadcaster()).
			Handle(t.Context(), cmd)
		require.ErrorIs(t, err, order.ErrPaymentMismatch)
		assert.False(t, f.store.order(o.ID()).IsPaid())
		assert.Empty(t, f.publisher.types())
	})

	t.Run("precondition failures", func(t *testing.T) {
		f := newOrderFixture()
		unpriced := newScheduledOrder(f.store, f.customer.ID())
		paid := newPaidOrder(f.store, f.customer.ID(), 5)
		foreign := newPricedOrder(f.store, kernel.NewUUID(), 5)

		provider := new(MockPaymentProvider)
		handler := commands.NewInitiatePaymentCommandHandler(f.store.factory().orders(), provider, f.broadcaster())

		tests := []struct {
			name    string
			orderID kernel.UUID
			wantErr error
		}{
			{"pricing not finalized", unpriced.ID(), order.ErrPricingNotFinalized},
			{"already paid", paid.ID(), order.ErrAlreadyPaid},
			{"another customer's order", foreign.ID(), order.ErrNotOwner},
			{"unknown order", kernel.NewUUID(), errs.ErrObjectNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cmd, err := commands.NewInitiatePaymentCommand(f.customer.ID(), tt.orderID)
				require.NoError(t, err)

				_, err = handler.Handle(t.Context(), cmd)
				require.ErrorIs(t, err, tt.wantErr)
			})
		}
		provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
	})

	t.Run("provider failure is an external service error", func(t *testing.T) {
		f := newOrderFixture()
		o := newPricedOrder(f.store, f.customer.ID(), 10)

		provider := new(MockPaymentProvider)
		provider.On("CreateIntent", mock.Anything, mock.Anything).
			Return(ports.PaymentIntent{}, errors.New("connection reset")).Once()

		cmd, err := commands.NewInitiatePaymentCommand(f.customer.ID(), o.ID())
		require.NoError(t, err)

		_, err = commands.NewInitiatePaymentCommandHandler(f.store.factory().orders(), provider, f.broadcaster()).
			Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrExternalService)
		assert.Empty(t, f.store.order(o.ID()).PaymentIntentID())
	})
}

func succeededEvent(eventID string, o *order.Order) ports.PaymentEvent {
	return ports.PaymentEvent{
		ID:   eventID,
		Type: ports.PaymentEventIntentSucceeded,
		Intent: ports.PaymentIntent{
			ID:          o.PaymentIntentID(),
			Status:      "succeeded",
			AmountCents: o.Breakdown().TotalCents,
			OrderID:     o.ID().String(),
		},
	}
}

func TestHandlePaymentEventCommandHandler(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)

	newPendingOrder := func(f *orderFixture) *order.Order {
		o := newPricedOrder(f.store, f.customer.ID(), 10)
		require.NoError(t, o.AttachPaymentIntent("pi_1"))
		f.store.putOrder(o)
		return o
	}

	t.Run("marks the order paid once", func(t *testing.T) {
		f := newOrderFixture()
		o := newPendingOrder(f)

		provider := new(MockPaymentProvider)
		provider.On("ParseEvent", payload, "sig").Return(succeededEvent("evt_1", o), nil).Twice()

		handler := commands.NewHandlePaymentEventCommandHandler(
			f.store.factory().orders(), provider, newMemDedup(), f.broadcaster(), discardLogger())

		cmd, err := commands.NewHandlePaymentEventCommand(payload, "sig")
		require.NoError(t, err)

		require.NoError(t, handler.Handle(t.Context(), cmd))
		require.NoError(t, handler.Handle(t.Context(), cmd))

		assert.True(t, f.store.order(o.ID()).IsPaid())
		assert.Equal(t, []ports.OrderEventType{ports.OrderPaid}, f.publisher.types())
	})

	t.Run("redelivery under a new event id is a no-op", func(t *testing.T) {
		f := newOrderFixture()
		o := newPendingOrder(f)

		provider := new(MockPaymentProvider)
		provider.On("ParseEvent", payload, "first").Return(succeededEvent("evt_1", o), nil).Once()
		provider.On("ParseEvent", payload, "second").Return(succeededEvent("evt_2", o), nil).Once()

		handler := commands.NewHandlePaymentEventCommandHandler(
			f.store.factory().orders(), provider, newMemDedup(), f.broadcaster(), discardLogger())

		for _, sig := range []string{"first", "second"} {
			cmd, err := commands.NewHandlePaymentEventCommand(payload, sig)
			require.NoError(t, err)
			require.NoError(t, handler.Handle(t.Context(), cmd))
		}
		assert.Equal(t, []ports.OrderEventType{ports.OrderPaid}, f.publisher.types())
	})

	t.Run("intent paid for a superseded price does not settle the order", func(t *testing.T) {
		f := newOrderFixture()
		o := newPendingOrder(f)
		stale := succeededEvent("evt_1", o)

		reprice, err := commands.NewFinalizeOrderPricingCommand(o.ID(), 100)
		require.NoError(t, err)
		repriced, err := commands.NewFinalizeOrderPricingCommandHandler(f.store.factory().orders(), f.broadcaster()).
			Handle(t.Context(), reprice)
		require.NoError(t, err)
		require.Equal(t, int64(19581), repriced.Breakdown().TotalCents)
		assert.False(t, f.store.order(o.ID()).HasPaymentIntent())

		provider := new(MockPaymentProvider)
		provider.On("ParseEvent", payload, "sig").Return(stale, nil).Once()

		cmd, err := commands.NewHandlePaymentEventCommand(payload, "sig")
		require.NoError(t, err)

		err = commands.NewHandlePaymentEventCommandHandler(
			f.store.factory().orders(), provider, newMemDedup(), f.broadcaster(), discardLogger()).Handle(t.Context(), cmd)
		require.NoError(t, err)

		assert.False(t, f.store.order(o.ID()).IsPaid())
		assert.Equal(t, []ports.OrderEventType{ports.OrderPriced}, f.publisher.types())
	})

	t.Run("charged amount must equal the order total", func(t *testing.T) {
		f := newOrderFixture()
		o := newPendingOrder(f)
		short := succeededEvent("evt_1", o)
		short.Intent.AmountCents = 100

		provider := new(MockPaymentProvider)
		provider.On("ParseEvent", payload, "sig").Return(short, nil).Once()

		cmd, err := commands.NewHandlePaymentEventCommand(payload, "sig")
		require.NoError(t, err)

		err = commands.NewHandlePaymentEventCommandHandler(
			f.store.factory().orders(), provider, newMemDedup(), f.broadcaster(), discardLogger()).Handle(t.Context(), cmd)
		require.NoError(t, err)

		assert.False(t, f.store.order(o.ID()).IsPaid())
		assert.Empty(t, f.publisher.types())
	})

	t.Run("invalid signature", func(t *testing.T) {
		f := newOrderFixture()
		provider := new(MockPaymentProvider)
		provider.On("ParseEvent", payload, "forged").Return(ports.PaymentEvent{}, ports.ErrInvalidSignature).Once()

		cmd, err := commands.NewHandlePaymentEventCommand(payload, "forged")
		require.NoError(t, err)

		err = commands.NewHandlePaymentEventCommandHandler(
			f.store.factory().orders(), provider, newMemDedup(), f.broadcaster(), discardLogger()).Handle(t.Context(), cmd)
		require.ErrorIs(t, err, ports.ErrInvalidSignature)
	})

	t.Run("other event types and unknown orders are acknowledged", func(t *testing.T) {
		f := newOrderFixture()
		provider := new(MockPaymentProvider)
		provider.On("ParseEvent", payload, "created").
			Return(ports.PaymentEvent{ID: "evt_c", Type: "payment_intent.created"}, nil).Once()
		provider.On("ParseEvent", payload, "orphan").Return(ports.PaymentEvent{
			ID:     "evt_o",
			Type:   ports.PaymentEventIntentSucceeded,
			Intent: ports.PaymentIntent{ID: "pi_x", Status: "succeeded", OrderID: kernel.NewUUID().String()},
		}, nil).Once()
		provider.On("ParseEvent", payload, "garbage").Return(ports.PaymentEvent{
			ID:     "evt_g",
			Type:   ports.PaymentEventIntentSucceeded,
			Intent: ports.PaymentIntent{ID: "pi_y", Status: "succeeded", OrderID: "not-a-uuid"},
		}, nil).Once()

		handler := commands.NewHandlePaymentEventCommandHandler(
			f.store.factory().orders(), provider, newMemDedup(), f.broadcaster(), discardLogger())

		for _, sig := range []string{"created", "orphan", "garbage"} {
			cmd, err := commands.NewHandlePaymentEventCommand(payload, sig)
			require.NoError(t, err)
			assert.NoError(t, handler.Handle(t.Context(), cmd), sig)
		}
		assert.Empty(t, f.publisher.types())
	})
}

func TestReconcilePaymentsCommandHandler(t *testing.T) {
	f := newOrderFixture()

	settled := newPricedOrder(f.store, f.customer.ID(), 10)
	require.NoError(t, settled.AttachPaymentIntent("pi_done"))
	f.store.putOrder(settled)

	pending := newPricedOrder(f.store, f.customer.ID(), 4)
	require.NoError(t, pending.AttachPaymentIntent("pi_open"))
	f.store.putOrder(pending)

	unreachable := newPricedOrder(f.store, f.customer.ID(), 6)
	require.NoError(t, unreachable.AttachPaymentIntent("pi_err"))
	f.store.putOrder(unreachable)

	underpaid := newPricedOrder(f.store, f.customer.ID(), 12)
	require.NoError(t, underpaid.AttachPaymentIntent("pi_short"))
	f.store.putOrder(underpaid)

	newPricedOrder(f.store, f.customer.ID(), 8) // no intent, not checked

	provider := new(MockPaymentProvider)
	provider.On("RetrieveIntent", mock.Anything, "pi_done").
		Return(ports.PaymentIntent{ID: "pi_done", Status: "succeeded", AmountCents: 2728}, nil).Once()
	provider.On("RetrieveIntent", mock.Anything, "pi_short").
		Return(ports.PaymentIntent{ID: "pi_short", Status: "succeeded", AmountCents: 2728}, nil).Once()
	provider.On("RetrieveIntent", mock.Anything, "pi_open").Return(ports.PaymentIntent{ID: "pi_open", Status: "processing"}, nil).Once()
	provider.On("RetrieveIntent", mock.Anything, "pi_err").Return(ports.PaymentIntent{}, errs.NewExternalServiceError("stripe", errors.New("timeout"))).Once()

	cmd, err := commands.NewReconcilePaymentsCommand(10)
	require.NoError(t, err)

	result, err := commands.NewReconcilePaymentsCommandHandler(f.store.factory().orders(), provider, f.broadcaster(), discardLogger()).
		Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.Equal(t, commands.ReconcilePaymentsResult{Checked: 4, Settled: 1, Failed: 2}, result)
	assert.True(t, f.store.order(settled.ID()).IsPaid())
	assert.False(t, f.store.order(pending.ID()).IsPaid())
	assert.False(t, f.store.order(underpaid.ID()).IsPaid())
	assert.Equal(t, []ports.OrderEventType{ports.OrderPaid}, f.publisher.types())
	provider.AssertExpectations(t)
}

func TestNewReconcilePaymentsCommand_BatchBounds(t *testing.T) {
	_, err := commands.NewReconcilePaymentsCommand(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}
