package commands

import (
	"context"
	"errors"

	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"
)

// ErrInvalidRefreshToken is returned for refresh tokens that fail verification.
var ErrInvalidRefreshToken = errs.NewUnauthenticatedError("refresh token is invalid or expired")

// RefreshTokensCommandHandler re-issues tokens for a still existing, active
// account. The role in the new access token is read from the store, not
// copied from the old token.
type RefreshTokensCommandHandler struct {
	uowFactory UserUoWFactory
	tokens     ports.TokenManager
}

func NewRefreshTokensCommandHandler(uowFactory UserUoWFactory, tokens ports.TokenManager) RefreshTokensCommandHandler {
	return RefreshTokensCommandHandler{
		uowFactory: uowFactory,
		tokens:     tokens,
	}
}

func (h RefreshTokensCommandHandler) Handle(ctx context.Context, cmd RefreshTokensCommand) (TokenPair, error) {
	if err := cmd.Validate(); err != nil {
		return TokenPair{}, err
	}

	claims, err := h.tokens.Verify(cmd.RefreshToken(), user.ScopeRefresh)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	account, err := h.uowFactory.Create().UserRepository().Get(ctx, claims.Subject)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return TokenPair{}, user.ErrUserNotFound
	}
	if err != nil {
		return TokenPair{}, err
	}

	if err = account.EnsureActive(); err != nil {
		return TokenPair{}, err
	}

	return issueTokenPair(h.tokens, account)
}
