package commands

import (
	"context"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
)

// CreateStaffUserCommandHandler provisions verified driver and admin accounts.
type CreateStaffUserCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
}

func NewCreateStaffUserCommandHandler(uowFactory UserUoWFactory, hasher ports.PasswordHasher) CreateStaffUserCommandHandler {
	return CreateStaffUserCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
	}
}

// Handle returns user.ErrDuplicateEmail when the address is taken.
func (h CreateStaffUserCommandHandler) Handle(ctx context.Context, cmd CreateStaffUserCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	hash, err := h.hasher.Hash(cmd.Password())
	if err != nil {
		return kernel.UUID{}, err
	}

	account, err := user.NewUser(kernel.NewUUID(), cmd.Email(), hash, cmd.Role(), time.Now())
	if err != nil {
		return kernel.UUID{}, err
	}
	account.Verify()

	if err = addNewUser(ctx, h.uowFactory, account); err != nil {
		return kernel.UUID{}, err
	}

	return account.ID(), nil
}
