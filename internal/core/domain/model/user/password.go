package user

import (
	"fmt"
	"unicode"

	"laundry/internal/pkg/errs"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// ErrWeakPassword is returned for passwords that fail the strength policy.
var ErrWeakPassword = errs.NewValueIsInvalidErrorWithCause(
	"password",
	fmt.Errorf("must be at least %d characters and contain upper case, lower case, digit and symbol", MinPasswordLength),
)

// ValidatePasswordStrength enforces the registration policy: at least
// MinPasswordLength characters and at most MaxPasswordBytes bytes, with one
// upper-case letter, one lower-case letter, one digit and one symbol.
func ValidatePasswordStrength(password string) error {
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: longer than %d bytes", ErrWeakPassword, MaxPasswordBytes)
	}

	var length int
	var upper, lower, digit, symbol bool
	for _, r := range password {
		length++
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if length < MinPasswordLength || !upper || !lower || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}
