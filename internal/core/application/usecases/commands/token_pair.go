package commands

import (
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
)

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

func issueTokenPair(tokens ports.TokenManager, account *user.User) (TokenPair, error) {
	access, err := tokens.Issue(account.ID(), account.Role(), user.ScopeAccess)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := tokens.Issue(account.ID(), account.Role(), user.ScopeRefresh)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
