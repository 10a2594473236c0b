// Package userrepo persists user aggregates in the users table.
package userrepo

import (
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"

	"github.com/google/uuid"
)

// UserDTO is the row layout of the users table. Email carries the unique
// index that settles racing registrations.
type UserDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(254);uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(16);index;not null"`
	IsActive     bool      `gorm:"not null"`
	IsVerified   bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	return UserDTO{
		ID:           u.ID().Bytes(),
		Email:        u.Email().String(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		IsActive:     u.IsActive(),
		IsVerified:   u.IsVerified(),
		CreatedAt:    u.CreatedAt(),
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	email, err := user.NewEmail(dto.Email)
	if err != nil {
		return nil, err
	}

	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	return user.RestoreUser(id, email, dto.PasswordHash, role, dto.IsActive, dto.IsVerified, dto.CreatedAt)
}
