package user

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"laundry/internal/pkg/errs"
)

const maxEmailLength = 254

// Email is a syntactically valid bare address. It is compared exactly as
// stored; no case folding is applied.
type Email struct {
	value string
}

// NewEmail validates raw as a bare RFC 5322 address (no display name, no
// surrounding whitespace).
func NewEmail(raw string) (Email, error) {
	if raw == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}
	if len(raw) > maxEmailLength {
		return Email{}, errs.NewValueIsOutOfRangeError("email length", len(raw), 3, maxEmailLength)
	}
	if strings.TrimSpace(raw) != raw {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", errors.New("surrounding whitespace"))
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	if addr.Address != raw || addr.Name != "" {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", fmt.Errorf("%q is not a bare address", raw))
	}

	return Email{value: raw}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) IsEmpty() bool {
	return e.value == ""
}
