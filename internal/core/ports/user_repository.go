package ports

import (
	"context"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
)

// UserRepository is the identity store.
type UserRepository interface {
	// Add persists a new user. An email already taken returns user.ErrDuplicateEmail.
	Add(ctx context.Context, aggregate *user.User) error

	// Update persists the mutable flags (verified, active) of an existing user.
	Update(ctx context.Context, aggregate *user.User) error

	// Get retrieves a user by id. Missing users match errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*user.User, error)

	// GetByEmail retrieves a user by exact email. Missing users match errs.ErrObjectNotFound.
	GetByEmail(ctx context.Context, email user.Email) (*user.User, error)
}
