package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// LoginCommandHandler authenticates credentials.
//
// Unknown emails and wrong passwords both return user.ErrInvalidCredentials,
// and both pay for one hash comparison. Account state (disabled, not
// verified) is only revealed to a caller who proved the password.
type LoginCommandHandler struct {
	uowFactory UserUoWFactory
	hasher     ports.PasswordHasher
	tokens     ports.TokenManager
}

func NewLoginCommandHandler(
	uowFactory UserUoWFactory,
	hasher ports.PasswordHasher,
	tokens ports.TokenManager,
) LoginCommandHandler {
	return LoginCommandHandler{
		uowFactory: uowFactory,
		hasher:     hasher,
		tokens:     tokens,
	}
}

func (h LoginCommandHandler) Handle(ctx context.Context, cmd LoginCommand) (TokenPair, error) {
	if err := cmd.Validate(); err != nil {
		return TokenPair{}, err
	}

	account, err := h.findAccount(ctx, cmd.Email())
	if err != nil {
		return TokenPair{}, err
	}

	if account == nil {
		_ = h.hasher.Compare(h.hasher.DummyHash(), cmd.Password())
		return TokenPair{}, user.ErrInvalidCredentials
	}

	if err = h.hasher.Compare(account.PasswordHash(), cmd.Password()); err != nil {
		if errors.Is(err, ports.ErrPasswordMismatch) {
			return TokenPair{}, user.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}

	if err = account.EnsureCanLogin(); err != nil {
		return TokenPair{}, err
	}

	return issueTokenPair(h.tokens, account)
}

// findAccount returns nil without error when no account matches.
func (h LoginCommandHandler) findAccount(ctx context.Context, rawEmail string) (*user.User, error) {
	email, err := user.NewEmail(rawEmail)
	if err != nil {
		return nil, nil //nolint:nilerr // malformed emails are reported as invalid credentials
	}

	account, err := h.uowFactory.Create().UserRepository().GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}
