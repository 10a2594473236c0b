package order

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/pricing"
	"laundry/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrNotAssignedDriver is returned when a driver other than the assigned one requests a transition.
	ErrNotAssignedDriver = errs.NewForbiddenError("caller is not the driver assigned to this order")

	// ErrNotOwner is returned when a customer acts on another customer's order.
	ErrNotOwner = errs.NewForbiddenError("order belongs to another customer")

	// ErrPricingNotFinalized is returned when paying an order whose weight is not yet known.
	ErrPricingNotFinalized = errs.NewConflictError("order", "pricing has not been finalized")

	// ErrAlreadyPaid is returned for any attempt to pay or reprice a paid order.
	ErrAlreadyPaid = errs.NewConflictError("order", "order is already paid")

	// ErrPaymentMismatch is returned when a settled intent is not the order's
	// current intent or was charged for another amount than the current total.
	ErrPaymentMismatch = errs.NewConflictError("payment", "settled intent does not cover the current price")
)

// Order is the aggregate root of a laundry pickup. It owns the lifecycle
// status, the driver assignment, the price frozen from the rates that were
// current at booking time, and the payment state.
//
// Order follows these invariants:
//   - Must reference an existing customer
//   - Status transitions follow the table in Status
//   - Once paid, the price breakdown is never changed again
//   - Total equals Subtotal + Tax for the stored breakdown
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID

	// driverID is nil until AssignDriver
	driverID *kernel.UUID

	pickup Pickup
	status Status

	// rates are snapshotted at creation
	rates pricing.Rates

	// breakdown is nil until FinalizePricing
	breakdown *pricing.Breakdown

	isPaid          bool
	paymentIntentID string

	// version is the optimistic-concurrency counter kept by the repository
	version   int64
	createdAt time.Time

	isConstructed bool
}

// NewOrder books a pickup for a customer. The order starts Scheduled, without
// a driver, a price or a payment.
//
// Parameters:
//   - id: identifier of the new order
//   - customerID: the booking customer
//   - pickup: validated booking details
//   - rates: the current global tariff, frozen onto the order
//   - now: creation timestamp
//
// Example:
//
//	pickup, _ := order.NewPickup("1 Main St", order.LaundryRegular, date, "")
//	o, err := order.NewOrder(kernel.NewUUID(), customer.ID(), pickup, rates, time.Now())
func NewOrder(id, customerID kernel.UUID, pickup Pickup, rates pricing.Rates, now time.Time) (*Order, error) {
	o := &Order{
		status:        Scheduled,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setPickup(pickup),
		o.setRates(rates),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// State is the persisted form of an Order, used by repositories to rebuild it.
type State struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	DriverID        *kernel.UUID
	Pickup          Pickup
	Status          Status
	Rates           pricing.Rates
	Breakdown       *pricing.Breakdown
	IsPaid          bool
	PaymentIntentID string
	Version         int64
	CreatedAt       time.Time
}

// RestoreOrder rebuilds an order from storage, validating the cross-field
// rules a stored row must still satisfy.
func RestoreOrder(state State) (*Order, error) {
	o := &Order{
		driverID:        state.DriverID,
		status:          state.Status,
		breakdown:       state.Breakdown,
		isPaid:          state.IsPaid,
		paymentIntentID: state.PaymentIntentID,
		version:         state.Version,
		createdAt:       state.CreatedAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(state.ID),
		o.setCustomerID(state.CustomerID),
		o.setPickup(state.Pickup),
		o.setRates(state.Rates),
		state.Status.Validate(),
	); err != nil {
		return nil, err
	}

	if state.Status != Scheduled && state.DriverID == nil {
		return nil, errs.NewValueIsRequiredError("driver for status " + state.Status.String())
	}
	if state.Breakdown != nil && state.Breakdown.TotalCents != state.Breakdown.SubtotalCents+state.Breakdown.TaxCents {
		return nil, errs.NewValueIsInvalidError("price breakdown total")
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Pickup() Pickup {
	return o.pickup
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Rates() pricing.Rates {
	return o.rates
}

func (o *Order) IsPaid() bool {
	return o.isPaid
}

func (o *Order) PaymentIntentID() string {
	return o.paymentIntentID
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) HasPaymentIntent() bool {
	return o.paymentIntentID != ""
}

func (o *Order) IsOwnedBy(id kernel.UUID) bool {
	return o.customerID.IsEqual(id)
}

// Driver returns the assigned driver, nil if none.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Breakdown returns the finalized price, nil before FinalizePricing.
func (o *Order) Breakdown() *pricing.Breakdown {
	return o.breakdown
}

// AssignDriver sets the driver and forces the order into PickedUp, whatever
// non-terminal status it was in. Reassignment replaces the previous driver.
//
// The caller is responsible for checking that driverID belongs to a user
// with the driver role (see services.DriverDispatcher).
//
// Returns:
//   - nil on success
//   - *IllegalTransitionError if the order is Delivered
func (o *Order) AssignDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	next, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.driverID = &driverID
	o.status = next
	return nil
}

// AdvanceStatus applies a driver-requested transition.
//
// Returns:
//   - ErrNotAssignedDriver if driverID is not the order's driver
//   - *IllegalTransitionError if next is not the allowed successor
//
// Example:
//
//	if err := o.AdvanceStatus(caller.ID(), order.InCleaning); err != nil {
//	    return err
//	}
func (o *Order) AdvanceStatus(driverID kernel.UUID, next Status) error {
	if o.driverID == nil || !o.driverID.IsEqual(driverID) {
		return ErrNotAssignedDriver
	}

	status, err := o.status.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = status
	return nil
}

// FinalizePricing records the measured weight and prices it with the rates
// frozen on the order. It may be repeated to correct the weight until the
// order is paid. A new total detaches the payment intent created for the
// old one; the customer has to initiate payment again.
func (o *Order) FinalizePricing(weightLbs int64) error {
	if o.isPaid {
		return ErrAlreadyPaid
	}

	breakdown, err := pricing.Calculate(weightLbs, o.rates)
	if err != nil {
		return err
	}

	if o.breakdown != nil && o.breakdown.TotalCents != breakdown.TotalCents {
		o.paymentIntentID = ""
	}
	o.breakdown = &breakdown
	return nil
}

// EnsurePayable checks that customerID may start a payment for this order.
func (o *Order) EnsurePayable(customerID kernel.UUID) error {
	if !o.IsOwnedBy(customerID) {
		return ErrNotOwner
	}
	if o.breakdown == nil {
		return ErrPricingNotFinalized
	}
	if o.isPaid {
		return ErrAlreadyPaid
	}
	return nil
}

// AttachPaymentIntent stores the processor's intent identifier.
func (o *Order) AttachPaymentIntent(intentID string) error {
	if intentID == "" {
		return errs.NewValueIsRequiredError("payment intent id")
	}
	if o.isPaid {
		return ErrAlreadyPaid
	}
	o.paymentIntentID = intentID
	return nil
}

// MarkPaid records the settlement of intentID for amountCents. It reports
// whether the flag changed, so redelivered confirmations are no-ops.
//
// Returns:
//   - ErrPricingNotFinalized if the order has no price
//   - ErrPaymentMismatch if intentID is not the attached intent or
//     amountCents differs from the current total
func (o *Order) MarkPaid(intentID string, amountCents int64) (bool, error) {
	if o.isPaid {
		return false, nil
	}
	if o.breakdown == nil {
		return false, ErrPricingNotFinalized
	}
	if intentID == "" || intentID != o.paymentIntentID || amountCents != o.breakdown.TotalCents {
		return false, ErrPaymentMismatch
	}
	o.isPaid = true
	return true, nil
}

// AdvanceVersion is called by the repository after a successful write.
func (o *Order) AdvanceVersion() {
	o.version++
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setPickup(pickup Pickup) error {
	if pickup.isEmpty() {
		return errs.NewValueIsRequiredError("pickup")
	}
	o.pickup = pickup
	return nil
}

func (o *Order) setRates(rates pricing.Rates) error {
	if err := rates.Validate(); err != nil {
		return err
	}
	o.rates = rates
	return nil
}
