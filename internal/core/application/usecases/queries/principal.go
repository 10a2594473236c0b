package queries

import (
	"fmt"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/core/domain/model/user"
	"laundry/internal/pkg/errs"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	ID         kernel.UUID
	Email      string
	Role       user.Role
	IsVerified bool
}

// Authorize succeeds only for the exact role; there is no role hierarchy.
func (p Principal) Authorize(required user.Role) error {
	if p.Role != required {
		return errs.NewForbiddenError(fmt.Sprintf("role %s required", required))
	}
	return nil
}
