package auth

import (
	"context"
	"errors"
	"time"
)

// Store-level sentinel errors. The service layer maps these to apperror
// types; the store itself stays free of HTTP concerns.
var (
	// ErrNotFound means no matching active user row exists.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateEmail means the email is already taken, by an active or
	// an inactive account.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateUsername means the username is already taken.
	ErrDuplicateUsername = errors.New("username already registered")
)

// ProfileUpdate is an explicit partial-update structure: a nil field means
// "leave unchanged". The store applies only the present fields, always via
// parameterized SQL.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	LanguageLevel *string
	Email         *string
}

// IsEmpty reports whether no field is present.
func (p ProfileUpdate) IsEmpty() bool {
	return p.FirstName == nil && p.LastName == nil && p.LanguageLevel == nil && p.Email == nil
}

// UserStore persists user records. The pre-insert duplicate check in the
// service is advisory only; implementations must enforce uniqueness with a
// constraint and report races as ErrDuplicate*.
type UserStore interface {
	// Create inserts a new user and returns it with ID and timestamps set.
	Create(ctx context.Context, user *User) (*User, error)
	// GetByEmail returns the active user with the given email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID returns the active user with the given id.
	GetByID(ctx context.Context, id int) (*User, error)
	// TouchLastLogin records a successful login at the given instant.
	TouchLastLogin(ctx context.Context, id int, at time.Time) error
	// UpdateProfile applies a partial update and returns the updated user.
	UpdateProfile(ctx context.Context, id int, upd ProfileUpdate) (*User, error)
	// Deactivate soft-deletes the user. Rows are never hard-deleted.
	Deactivate(ctx context.Context, id int) error
}
