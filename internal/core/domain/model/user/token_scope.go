package user

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// TokenScope names the purpose a signed token was issued for. A token is
// only ever accepted by the flow matching its scope.
type TokenScope string

const (
	ScopeEmailVerification TokenScope = "email_verification"
	ScopeAccess            TokenScope = "access_token"
	ScopeRefresh           TokenScope = "refresh_token"
)

func (s TokenScope) Validate() error {
	switch s {
	case ScopeEmailVerification, ScopeAccess, ScopeRefresh:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("scope", fmt.Errorf("%q is not a token scope", string(s)))
	}
}

func (s TokenScope) String() string {
	return string(s)
}
