package commands

import (
	"errors"

	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrCreateStaffUserCommandIsNotConstructed = errors.New(
	"CreateStaffUserCommand must be created via NewCreateStaffUserCommand constructor",
)

// CreateStaffUserCommand creates a driver or admin account. Staff accounts
// are provisioned by an admin (or at startup) and start verified.
type CreateStaffUserCommand struct {
	email    user.Email
	password string
	role     user.Role

	guard guard.ConstructorGuard
}

func NewCreateStaffUserCommand(email, password, role string) (CreateStaffUserCommand, error) {
	cmd := CreateStaffUserCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setEmail(email),
		cmd.setPassword(password),
		cmd.setRole(role),
	); err != nil {
		return CreateStaffUserCommand{}, err
	}

	return cmd, nil
}

func (c CreateStaffUserCommand) Validate() error {
	return c.guard.Validate(ErrCreateStaffUserCommandIsNotConstructed)
}

func (c CreateStaffUserCommand) Email() user.Email {
	return c.email
}

func (c CreateStaffUserCommand) Password() string {
	return c.password
}

func (c CreateStaffUserCommand) Role() user.Role {
	return c.role
}

func (c *CreateStaffUserCommand) setEmail(raw string) error {
	email, err := user.NewEmail(raw)
	if err != nil {
		return err
	}
	c.email = email
	return nil
}

func (c *CreateStaffUserCommand) setPassword(password string) error {
	if err := user.ValidatePasswordStrength(password); err != nil {
		return err
	}
	c.password = password
	return nil
}

func (c *CreateStaffUserCommand) setRole(raw string) error {
	role, err := user.ParseRole(raw)
	if err != nil {
		return err
	}
	if role == user.RoleCustomer {
		return errs.NewValueIsInvalidErrorWithCause("role", errors.New("customers register themselves"))
	}
	c.role = role
	return nil
}
