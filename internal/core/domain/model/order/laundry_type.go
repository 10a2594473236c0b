package order

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// LaundryType is the service the customer booked.
type LaundryType string

const (
	LaundryRegular  LaundryType = "regular"
	LaundryDryClean LaundryType = "dry_clean"
)

func ParseLaundryType(s string) (LaundryType, error) {
	t := LaundryType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t LaundryType) Validate() error {
	switch t {
	case LaundryRegular, LaundryDryClean:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("laundry type", fmt.Errorf("%q is not a valid laundry type", string(t)))
	}
}

func (t LaundryType) String() string {
	return string(t)
}
