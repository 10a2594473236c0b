package user

import (
	"errors"
	"fmt"
	"time"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
)

var (
	// ErrUserIsNotConstructed is returned when a User bypassed NewUser/RestoreUser.
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

	// ErrDuplicateEmail is returned when registering an email that already has an account.
	ErrDuplicateEmail = errs.NewConflictError("email", "an account with this email already exists")

	// ErrInvalidCredentials is the single answer for an unknown email and for
	// a wrong password, so that callers cannot probe for registered addresses.
	ErrInvalidCredentials = errs.NewUnauthenticatedError("invalid email or password")

	// ErrEmailNotVerified is returned on login with a correct password before verification.
	ErrEmailNotVerified = errs.NewForbiddenError("email address is not verified")

	// ErrAccountDisabled is returned for inactive accounts.
	ErrAccountDisabled = errs.NewForbiddenError("account is disabled")

	// ErrUserNotFound is returned when a token subject no longer resolves to a user.
	ErrUserNotFound = errs.NewObjectNotFoundError("user", "token subject")
)

// User is the identity aggregate. The role is fixed at creation; the
// verified flag only ever moves from false to true.
type User struct {
	id           kernel.UUID
	email        Email
	passwordHash string
	role         Role
	isActive     bool
	isVerified   bool
	createdAt    time.Time

	isConstructed bool
}

// NewUser registers a new account: active and not yet verified.
//
// Parameters:
//   - id: identifier of the new user
//   - email: validated address, unique across users (enforced by the store)
//   - passwordHash: output of the password hasher, never the plain password
//   - role: the permanent role of the account
//   - now: creation timestamp
//
// Example:
//
//	email, _ := user.NewEmail("ann@example.com")
//	hash, _ := hasher.Hash(password)
//	u, err := user.NewUser(kernel.NewUUID(), email, hash, user.RoleCustomer, time.Now())
func NewUser(id kernel.UUID, email Email, passwordHash string, role Role, now time.Time) (*User, error) {
	u := &User{
		isActive:      true,
		isVerified:    false,
		createdAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
		u.setRole(role),
	); err != nil {
		return nil, err
	}

	return u, nil
}

// RestoreUser rebuilds a persisted user without applying registration defaults.
func RestoreUser(
	id kernel.UUID,
	email Email,
	passwordHash string,
	role Role,
	isActive bool,
	isVerified bool,
	createdAt time.Time,
) (*User, error) {
	u := &User{
		isActive:      isActive,
		isVerified:    isVerified,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		u.setID(id),
		u.setEmail(email),
		u.setPasswordHash(passwordHash),
		u.setRole(role),
	); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID {
	return u.id
}

func (u *User) Email() Email {
	return u.email
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) Role() Role {
	return u.role
}

func (u *User) IsActive() bool {
	return u.isActive
}

func (u *User) IsVerified() bool {
	return u.isVerified
}

func (u *User) CreatedAt() time.Time {
	return u.createdAt
}

func (u *User) HasRole(role Role) bool {
	return u.role == role
}

// Verify marks the email address as confirmed. It reports whether the flag
// changed; verifying twice is harmless.
func (u *User) Verify() bool {
	if u.isVerified {
		return false
	}
	u.isVerified = true
	return true
}

// EnsureActive returns ErrAccountDisabled for deactivated accounts.
func (u *User) EnsureActive() error {
	if !u.isActive {
		return ErrAccountDisabled
	}
	return nil
}

// EnsureCanLogin is checked only after the password matched: a disabled
// account is reported before an unverified one.
func (u *User) EnsureCanLogin() error {
	if err := u.EnsureActive(); err != nil {
		return err
	}
	if !u.isVerified {
		return ErrEmailNotVerified
	}
	return nil
}

// Authorize succeeds only when the user holds exactly the required role.
func (u *User) Authorize(required Role) error {
	if u.role != required {
		return errs.NewForbiddenError(fmt.Sprintf("role %s required", required))
	}
	return nil
}

func (u *User) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	u.id = id
	return nil
}

func (u *User) setEmail(email Email) error {
	if email.IsEmpty() {
		return errs.NewValueIsRequiredError("email")
	}
	u.email = email
	return nil
}

func (u *User) setPasswordHash(hash string) error {
	if hash == "" {
		return errs.NewValueIsRequiredError("password hash")
	}
	u.passwordHash = hash
	return nil
}

func (u *User) setRole(role Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	u.role = role
	return nil
}
