package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserStore persists user records.
//
// GetUserByEmail must return ErrUserNotFound when no user holds the email.
// CreateUser must return ErrEmailAlreadyExists when the email is taken,
// including when a concurrent request won the race; the resolver relies on
// that to fall back to the login path.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// ProfileStore persists the companion profile created with every new user.
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *Profile) error
}

// InviteStore reports whether an email holds a standing workspace
// invitation. Invited emails may sign up even when the instance has signup
// disabled.
type InviteStore interface {
	HasInviteForEmail(ctx context.Context, email string) (bool, error)
}

// AccountStore persists external provider account links. Upsert is keyed
// by (provider, provider account id) and refreshes token material on
// repeat logins.
type AccountStore interface {
	UpsertAccount(ctx context.Context, account *Account) error
}
