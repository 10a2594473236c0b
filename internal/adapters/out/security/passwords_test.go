package security_test

import (
	"testing"

	"laundry/internal/adapters/out/security"
	"laundry/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("S3cure!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cure!pass", hash)

	assert.NoError(t, h.Compare(hash, "S3cure!pass"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ports.ErrPasswordMismatch)
}

func TestBcryptHasher_DummyHashNeverMatchesUserInput(t *testing.T) {
	h, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h.DummyHash()))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
	assert.ErrorIs(t, h.Compare(h.DummyHash(), "S3cure!pass"), ports.ErrPasswordMismatch)
}

func TestNewBcryptHasher_RejectsCostOutOfRange(t *testing.T) {
	_, err := security.NewBcryptHasher(bcrypt.MaxCost + 1)
	assert.Error(t, err)
}
