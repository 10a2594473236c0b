package user

import (
	"fmt"

	"laundry/internal/pkg/errs"
)

// Role is the single, immutable role of a user.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

func validRoles() map[Role]struct{} {
	return map[Role]struct{}{
		RoleCustomer: {},
		RoleDriver:   {},
		RoleAdmin:    {},
	}
}

// ParseRole converts a stored or claimed role name into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// Validate reports whether the role belongs to the closed set.
func (r Role) Validate() error {
	if _, ok := validRoles()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
	return nil
}

func (r Role) String() string {
	return string(r)
}
