package commands

import (
	"errors"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrVerifyEmailCommandIsNotConstructed = errors.New(
	"VerifyEmailCommand must be created via NewVerifyEmailCommand constructor",
)

// VerifyEmailCommand confirms an email address with the token from the
// verification link.
type VerifyEmailCommand struct {
	token string

	guard guard.ConstructorGuard
}

func NewVerifyEmailCommand(token string) (VerifyEmailCommand, error) {
	if token == "" {
		return VerifyEmailCommand{}, errs.NewValueIsRequiredError("token")
	}
	return VerifyEmailCommand{
		token: token,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyEmailCommand) Validate() error {
	return c.guard.Validate(ErrVerifyEmailCommandIsNotConstructed)
}

func (c VerifyEmailCommand) Token() string {
	return c.token
}
