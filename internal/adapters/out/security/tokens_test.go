package security_test

import (
	"strings"
	"testing"
	"time"

	"laundry/internal/adapters/out/security"
	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

func newManager(t *testing.T, c *clock) *security.JWTTokenManager {
	t.Helper()
	m, err := security.NewJWTTokenManager(security.TokenConfig{
		Secret:          testSecret,
		Algorithm:       "HS256",
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      7 * 24 * time.Hour,
		VerificationTTL: 24 * time.Hour,
	}, c.Now)
	require.NoError(t, err)
	return m
}

func TestJWTTokenManager_IssueAndVerify(t *testing.T) {
	c := &clock{now: time.Now()}
	m := newManager(t, c)
	subject := kernel.NewUUID()

	token, err := m.Issue(subject, user.RoleDriver, user.ScopeAccess)
	require.NoError(t, err)

	claims, err := m.Verify(token, user.ScopeAccess)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, user.RoleDriver, claims.Role)
	assert.Equal(t, user.ScopeAccess, claims.Scope)
	assert.WithinDuration(t, c.now.Add(15*time.Minute), claims.ExpiresAt, time.Second)
}

func TestJWTTokenManager_RefreshTokenCarriesNoRole(t *testing.T) {
	m := newManager(t, &clock{now: time.Now()})

	token, err := m.Issue(kernel.NewUUID(), user.RoleAdmin, user.ScopeRefresh)
	require.NoError(t, err)

	claims, err := m.Verify(token, user.ScopeRefresh)
	require.NoError(t, err)
	assert.Empty(t, claims.Role)
}

func TestJWTTokenManager_RejectsOtherScope(t *testing.T) {
	m := newManager(t, &clock{now: time.Now()})

	token, err := m.Issue(kernel.NewUUID(), user.RoleCustomer, user.ScopeEmailVerification)
	require.NoError(t, err)

	_, err = m.Verify(token, user.ScopeAccess)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestJWTTokenManager_RejectsExpiredToken(t *testing.T) {
	c := &clock{now: time.Now()}
	m := newManager(t, c)

	token, err := m.Issue(kernel.NewUUID(), user.RoleCustomer, user.ScopeAccess)
	require.NoError(t, err)

	c.now = c.now.Add(16 * time.Minute)
	_, err = m.Verify(token, user.ScopeAccess)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTTokenManager_RejectsTamperedAndForeignTokens(t *testing.T) {
	m := newManager(t, &clock{now: time.Now()})

	token, err := m.Issue(kernel.NewUUID(), user.RoleCustomer, user.ScopeAccess)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   kernel.NewUUID().String(),
		"scope": "access_token",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("another-secret-another-secret-32b"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   kernel.NewUUID().String(),
		"scope": "access_token",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, candidate := range map[string]string{
		"tampered":  tampered,
		"foreign":   foreign,
		"no expiry": noExpiry,
		"garbage":   "not.a.jwt",
		"empty":     "",
	} {
		t.Run(name, func(t *testing.T) {
			_, verifyErr := m.Verify(candidate, user.ScopeAccess)
			assert.ErrorIs(t, verifyErr, errs.ErrUnauthenticated)
		})
	}
}

func TestJWTTokenManager_RejectsOtherAlgorithm(t *testing.T) {
	m := newManager(t, &clock{now: time.Now()})

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":   kernel.NewUUID().String(),
		"scope": "access_token",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Verify(hs512, user.ScopeAccess)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestNewJWTTokenManager_InvalidConfig(t *testing.T) {
	valid := security.TokenConfig{
		Secret:          testSecret,
		Algorithm:       "HS256",
		AccessTTL:       time.Minute,
		RefreshTTL:      time.Hour,
		VerificationTTL: time.Hour,
	}

	short := valid
	short.Secret = "short"
	_, err := security.NewJWTTokenManager(short, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	rsa := valid
	rsa.Algorithm = "RS256"
	_, err = security.NewJWTTokenManager(rsa, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	zeroTTL := valid
	zeroTTL.AccessTTL = 0
	_, err = security.NewJWTTokenManager(zeroTTL, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)

	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		cfg := valid
		cfg.Algorithm = alg
		_, err = security.NewJWTTokenManager(cfg, nil)
		assert.NoError(t, err, alg)
	}
}
