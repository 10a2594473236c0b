package commands

import (
	"errors"

	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/guard"
)

var ErrRegisterUserCommandIsNotConstructed = errors.New(
	"RegisterUserCommand must be created via NewRegisterUserCommand constructor",
)

// RegisterUserCommand signs up a new customer account.
//
// Example:
//
//	cmd, err := NewRegisterUserCommand("ann@example.com", "Sup3r$ecret")
//	if err != nil {
//	    return err // invalid email or user.ErrWeakPassword
//	}
//	result, err := handler.Handle(ctx, cmd)
type RegisterUserCommand struct {
	email    user.Email
	password string

	guard guard.ConstructorGuard
}

func NewRegisterUserCommand(email, password string) (RegisterUserCommand, error) {
	cmd := RegisterUserCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setEmail(email),
		cmd.setPassword(password),
	); err != nil {
		return RegisterUserCommand{}, err
	}

	return cmd, nil
}

func (c RegisterUserCommand) Validate() error {
	return c.guard.Validate(ErrRegisterUserCommandIsNotConstructed)
}

func (c RegisterUserCommand) Email() user.Email {
	return c.email
}

func (c RegisterUserCommand) Password() string {
	return c.password
}

func (c *RegisterUserCommand) setEmail(raw string) error {
	email, err := user.NewEmail(raw)
	if err != nil {
		return err
	}
	c.email = email
	return nil
}

func (c *RegisterUserCommand) setPassword(password string) error {
	if err := user.ValidatePasswordStrength(password); err != nil {
		return err
	}
	c.password = password
	return nil
}
