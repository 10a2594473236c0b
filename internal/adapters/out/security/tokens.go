package security

import (
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"
	"laundry/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const minSecretLength = 32

// TokenConfig holds the signing key and per-scope lifetimes.
type TokenConfig struct {
	Secret          string
	Algorithm       string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
}

type tokenClaims struct {
	Role  string `json:"role,omitempty"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTTokenManager implements ports.TokenManager with HS256/384/512 tokens.
// Every token carries its scope; Verify rejects a token of another scope so
// that a verification link cannot be replayed as a bearer token.
type JWTTokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttls   map[user.TokenScope]time.Duration
	now    func() time.Time
}

func NewJWTTokenManager(cfg TokenConfig, now func() time.Time) (*JWTTokenManager, error) {
	if len(cfg.Secret) < minSecretLength {
		return nil, errs.NewValueIsOutOfRangeError("jwt secret length", len(cfg.Secret), minSecretLength, 4096)
	}

	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause("jwt algorithm",
			fmt.Errorf("%q is not one of HS256, HS384, HS512", cfg.Algorithm))
	}

	ttls := map[user.TokenScope]time.Duration{
		user.ScopeAccess:            cfg.AccessTTL,
		user.ScopeRefresh:           cfg.RefreshTTL,
		user.ScopeEmailVerification: cfg.VerificationTTL,
	}
	for scope, ttl := range ttls {
		if ttl <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("token lifetime",
				fmt.Errorf("%s lifetime must be positive", scope))
		}
	}

	if now == nil {
		now = time.Now
	}

	return &JWTTokenManager{
		secret: []byte(cfg.Secret),
		method: method,
		ttls:   ttls,
		now:    now,
	}, nil
}

// Issue signs a token for subject. The role claim is only embedded in
// access tokens.
func (m *JWTTokenManager) Issue(subject kernel.UUID, role user.Role, scope user.TokenScope) (string, error) {
	if err := subject.Validate(); err != nil {
		return "", err
	}
	if err := scope.Validate(); err != nil {
		return "", err
	}

	issuedAt := m.now()
	c := tokenClaims{
		Scope: scope.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.ttls[scope])),
		},
	}
	if scope == user.ScopeAccess {
		c.Role = role.String()
	}

	signed, err := jwt.NewWithClaims(m.method, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", scope, err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and scope.
func (m *JWTTokenManager) Verify(token string, scope user.TokenScope) (ports.TokenClaims, error) {
	var c tokenClaims
	_, err := jwt.ParseWithClaims(token, &c,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return ports.TokenClaims{}, errs.NewUnauthenticatedErrorWithCause("invalid token", err)
	}

	if c.Scope != scope.String() {
		return ports.TokenClaims{}, errs.NewUnauthenticatedErrorWithCause("invalid token",
			fmt.Errorf("scope %q, want %q", c.Scope, scope))
	}

	subject, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return ports.TokenClaims{}, errs.NewUnauthenticatedErrorWithCause("invalid token subject", err)
	}

	var role user.Role
	if c.Role != "" {
		if role, err = user.ParseRole(c.Role); err != nil {
			return ports.TokenClaims{}, errs.NewUnauthenticatedErrorWithCause("invalid token role", err)
		}
	}

	return ports.TokenClaims{
		Subject:   subject,
		Role:      role,
		Scope:     scope,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}
