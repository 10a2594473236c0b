package commands

import (
	"errors"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var ErrRefreshTokensCommandIsNotConstructed = errors.New(
	"RefreshTokensCommand must be created via NewRefreshTokensCommand constructor",
)

// RefreshTokensCommand trades a refresh token for a fresh token pair.
type RefreshTokensCommand struct {
	refreshToken string

	guard guard.ConstructorGuard
}

func NewRefreshTokensCommand(refreshToken string) (RefreshTokensCommand, error) {
	if refreshToken == "" {
		return RefreshTokensCommand{}, errs.NewValueIsRequiredError("refresh token")
	}
	return RefreshTokensCommand{
		refreshToken: refreshToken,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RefreshTokensCommand) Validate() error {
	return c.guard.Validate(ErrRefreshTokensCommandIsNotConstructed)
}

func (c RefreshTokensCommand) RefreshToken() string {
	return c.refreshToken
}
