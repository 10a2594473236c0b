package order

import (
	"errors"
	"strings"
	"time"

	"laundry/internal/pkg/errs"
)

const maxInstructionsLength = 1000

// Pickup describes what the customer booked: where to collect the laundry,
// on which calendar day and for which service.
type Pickup struct {
	address      string
	laundryType  LaundryType
	date         time.Time
	instructions string
}

// NewPickup validates the booking details. The date is truncated to the
// calendar day in UTC; instructions are optional.
func NewPickup(address string, laundryType LaundryType, date time.Time, instructions string) (Pickup, error) {
	address = strings.TrimSpace(address)
	instructions = strings.TrimSpace(instructions)

	var errList []error
	if address == "" {
		errList = append(errList, errs.NewValueIsRequiredError("pickup address"))
	}
	if err := laundryType.Validate(); err != nil {
		errList = append(errList, err)
	}
	if date.IsZero() {
		errList = append(errList, errs.NewValueIsRequiredError("pickup date"))
	}
	if len(instructions) > maxInstructionsLength {
		errList = append(errList, errs.NewValueIsOutOfRangeError("instructions length", len(instructions), 0, maxInstructionsLength))
	}
	if err := errors.Join(errList...); err != nil {
		return Pickup{}, err
	}

	return Pickup{
		address:      address,
		laundryType:  laundryType,
		date:         truncateToDay(date),
		instructions: instructions,
	}, nil
}

func (p Pickup) Address() string {
	return p.address
}

func (p Pickup) LaundryType() LaundryType {
	return p.laundryType
}

func (p Pickup) Date() time.Time {
	return p.date
}

func (p Pickup) Instructions() string {
	return p.instructions
}

func (p Pickup) isEmpty() bool {
	return p.address == ""
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
