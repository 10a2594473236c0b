package ports

import (
	"errors"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
)

// ErrPasswordMismatch is returned by PasswordHasher.Compare for a wrong password.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher turns plain passwords into salted, slow hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns nil when password matches hash and ErrPasswordMismatch
	// when it does not.
	Compare(hash, password string) error

	// DummyHash is a valid hash of an unknown password, compared against when
	// the login email does not exist so both failure paths cost the same.
	DummyHash() string
}

// TokenClaims is the verified content of a signed token.
type TokenClaims struct {
	Subject   kernel.UUID
	Role      user.Role
	Scope     user.TokenScope
	ExpiresAt time.Time
}

// TokenManager issues and verifies signed, expiring tokens.
type TokenManager interface {
	// Issue signs a token for subject with the lifetime configured for scope.
	Issue(subject kernel.UUID, role user.Role, scope user.TokenScope) (string, error)

	// Verify checks signature, expiry and that the token carries exactly
	// scope. Every failure matches errs.ErrUnauthenticated.
	Verify(token string, scope user.TokenScope) (TokenClaims, error)
}
