package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// ErrInvalidOrExpiredToken is returned for verification tokens with a bad
// signature, a past expiry or another scope.
var ErrInvalidOrExpiredToken = errs.NewUnauthenticatedError("verification token is invalid or expired")

// VerifyEmailCommandHandler marks the token's subject as verified.
// Verifying an already verified account succeeds without writing.
type VerifyEmailCommandHandler struct {
	uowFactory UserUoWFactory
	tokens     ports.TokenManager
}

func NewVerifyEmailCommandHandler(uowFactory UserUoWFactory, tokens ports.TokenManager) VerifyEmailCommandHandler {
	return VerifyEmailCommandHandler{
		uowFactory: uowFactory,
		tokens:     tokens,
	}
}

func (h VerifyEmailCommandHandler) Handle(ctx context.Context, cmd VerifyEmailCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	claims, err := h.tokens.Verify(cmd.Token(), user.ScopeEmailVerification)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	users := uow.UserRepository()

	account, err := users.Get(ctx, claims.Subject)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if !account.Verify() {
		return nil
	}

	if err = users.Update(ctx, account); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
