package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/errs"
)

// addNewUser stores account in its own unit of work, rejecting an email
// that is already registered.
func addNewUser(ctx context.Context, uowFactory UserUoWFactory, account *user.User) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()

	_, err := users.GetByEmail(ctx, account.Email())
	if err == nil {
		return user.ErrDuplicateEmail
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	// The unique index still decides when two registrations race past the lookup.
	if err = users.Add(ctx, account); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
