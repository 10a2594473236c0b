package commands

import (
	"errors"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrLoginCommandIsNotConstructed = errors.New(
	"LoginCommand must be created via NewLoginCommand constructor",
)

// LoginCommand exchanges credentials for an access and a refresh token.
// The email is kept raw: a malformed address fails like an unknown one.
type LoginCommand struct {
	email    string
	password string

	guard guard.ConstructorGuard
}

func NewLoginCommand(email, password string) (LoginCommand, error) {
	var errList []error
	if email == "" {
		errList = append(errList, errs.NewValueIsRequiredError("email"))
	}
	if password == "" {
		errList = append(errList, errs.NewValueIsRequiredError("password"))
	}
	if err := errors.Join(errList...); err != nil {
		return LoginCommand{}, err
	}

	return LoginCommand{
		email:    email,
		password: password,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c LoginCommand) Validate() error {
	return c.guard.Validate(ErrLoginCommandIsNotConstructed)
}

func (c LoginCommand) Email() string {
	return c.email
}

func (c LoginCommand) Password() string {
	return c.password
}
