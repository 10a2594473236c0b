package order

import (
	"errors"
	"fmt"

	"laundry/internal/pkg/errs"
)

// Status represents the lifecycle state of a laundry order.
//
// State transitions:
//
//	Scheduled ──(assign driver)──> PickedUp ──> InCleaning ──> ReadyForDelivery ──> Delivered
//
// Scheduled -> PickedUp happens only through driver assignment; the three
// later steps are requested by the assigned driver. Delivered is terminal.
type Status int

const (
	// Unknown (0) catches uninitialized Status values.
	Unknown Status = iota

	// Scheduled is the initial status: the customer booked a pickup.
	Scheduled

	// PickedUp means a driver has been assigned and collected the laundry.
	PickedUp

	// InCleaning means the laundry is being processed.
	InCleaning

	// ReadyForDelivery means cleaning is done and the order awaits delivery.
	ReadyForDelivery

	// Delivered is the final state with no further transitions.
	Delivered
)

// ErrIllegalTransition is matched by every rejected status transition.
// Rejections also match errs.ErrConflict.
var ErrIllegalTransition = errors.New("illegal status transition")

// IllegalTransitionError names the rejected move.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move to %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() []error {
	return []error{ErrIllegalTransition, errs.ErrConflict}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "unknown",
		Scheduled:        "scheduled",
		PickedUp:         "picked_up",
		InCleaning:       "in_cleaning",
		ReadyForDelivery: "ready_for_delivery",
		Delivered:        "delivered",
	}
}

// transitions is the table used by the generic status-update operation.
// Scheduled is absent on purpose: leaving it requires AssignDriver.
func transitions() map[Status]Status {
	return map[Status]Status{
		PickedUp:         InCleaning,
		InCleaning:       ReadyForDelivery,
		ReadyForDelivery: Delivered,
	}
}

// Lifecycle lists the valid statuses in lifecycle order.
func Lifecycle() []Status {
	return []Status{Scheduled, PickedUp, InCleaning, ReadyForDelivery, Delivered}
}

// ParseStatus converts a wire name ("in_cleaning") into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the lifecycle states.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no transition can leave this status.
func (s Status) IsTerminal() bool {
	return s == Delivered
}

// AllowedNext returns the only status a driver may move to from s, if any.
func (s Status) AllowedNext() (Status, bool) {
	next, ok := transitions()[s]
	return next, ok
}

// CanTransitionTo reports whether next is the allowed successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	allowed, ok := s.AllowedNext()
	return ok && allowed == next
}

// TransitionTo validates a driver-requested transition.
//
// Returns:
//   - (next, nil) when next is the allowed successor of s
//   - (Unknown, *IllegalTransitionError) otherwise
//
// Example:
//
//	next, err := order.InCleaning.TransitionTo(order.Delivered)
//	// err: illegal status transition: in_cleaning cannot move to delivered
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(next) {
		return Unknown, newIllegalTransitionError(s, next)
	}
	return next, nil
}

// Assign validates the forced move to PickedUp performed by driver
// assignment. Any status but Delivered can be (re)assigned.
func (s Status) Assign() (Status, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, newIllegalTransitionError(s, PickedUp)
	}
	return PickedUp, nil
}

// Reached reports whether an order in status s has passed through target.
func (s Status) Reached(target Status) bool {
	return s.Validate() == nil && target.Validate() == nil && s >= target
}

func newIllegalTransitionError(from, to Status) error {
	return &IllegalTransitionError{From: from, To: to}
}
