package security

import (
	"errors"
	"fmt"

	"laundry/internal/core/ports"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements ports.PasswordHasher.
type BcryptHasher struct {
	cost      int
	dummyHash string
}

// NewBcryptHasher precomputes the dummy hash compared against for unknown
// login emails, so it has the same cost as real hashes.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password-never-matches"), cost)
	if err != nil {
		return nil, err
	}

	return &BcryptHasher{cost: cost, dummyHash: string(dummy)}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ports.ErrPasswordMismatch
	}
	return err
}

func (h *BcryptHasher) DummyHash() string {
	return h.dummyHash
}
