package queries

import (
	"errors"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var (
	ErrAuthenticateQueryIsNotConstructed = errors.New(
		"AuthenticateQuery must be created via NewAuthenticateQuery constructor",
	)

	// ErrInvalidToken covers missing, malformed, expired and wrongly scoped access tokens.
	ErrInvalidToken = errs.NewUnauthenticatedError("invalid or expired access token")
)

// AuthenticateQuery resolves a bearer access token to the calling user.
//
// Example:
//
//	query, err := NewAuthenticateQuery(bearer)
//	if err != nil {
//	    return err // ErrInvalidToken
//	}
//	principal, err := handler.Handle(ctx, query)
type AuthenticateQuery struct {
	token string

	guard guard.ConstructorGuard
}

func NewAuthenticateQuery(token string) (AuthenticateQuery, error) {
	if token == "" {
		return AuthenticateQuery{}, ErrInvalidToken
	}
	return AuthenticateQuery{token: token, guard: guard.NewConstructorGuard()}, nil
}

func (q AuthenticateQuery) Validate() error {
	return q.guard.Validate(ErrAuthenticateQueryIsNotConstructed)
}

func (q AuthenticateQuery) Token() string {
	return q.token
}
