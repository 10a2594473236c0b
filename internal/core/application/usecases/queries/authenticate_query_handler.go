package queries

import (
	"context"
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthenticateQueryHandler verifies an access token and loads the account
// it was issued for. Accounts disabled after the token was issued are
// rejected even though the token itself is still valid.
type AuthenticateQueryHandler struct {
	db     *gorm.DB
	tokens ports.TokenManager
}

func NewAuthenticateQueryHandler(db *gorm.DB, tokens ports.TokenManager) AuthenticateQueryHandler {
	return AuthenticateQueryHandler{db: db, tokens: tokens}
}

func (h AuthenticateQueryHandler) Handle(ctx context.Context, query AuthenticateQuery) (Principal, error) {
	if err := query.Validate(); err != nil {
		return Principal{}, err
	}

	claims, err := h.tokens.Verify(query.Token(), user.ScopeAccess)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			email,
			role,
			is_active,
			is_verified
		FROM users
		WHERE id = ?
	`, claims.Subject.Bytes()).Rows()
	if err != nil {
		return Principal{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return Principal{}, err
		}
		return Principal{}, user.ErrUserNotFound
	}

	var (
		id         uuid.UUID
		email      string
		role       string
		isActive   bool
		isVerified bool
	)
	if err = rows.Scan(&id, &email, &role, &isActive, &isVerified); err != nil {
		return Principal{}, err
	}

	if !isActive {
		return Principal{}, user.ErrAccountDisabled
	}

	userID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return Principal{}, err
	}

	parsedRole, err := user.ParseRole(role)
	if err != nil {
		return Principal{}, err
	}

	return Principal{
		ID:         userID,
		Email:      email,
		Role:       parsedRole,
		IsVerified: isVerified,
	}, nil
}
