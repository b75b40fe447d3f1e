package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/authkit/authkit/pkg/sanitizer"
	"github.com/authkit/authkit/pkg/validator"
)

var _ Adapter = (*CredentialsAdapter)(nil)

// CredentialsAdapter authenticates one email/password attempt. For a known
// email the password is checked against the stored hash; for an unknown
// email the flow becomes a signup and the resolver applies the strength
// and signup-policy checks.
type CredentialsAdapter struct {
	users    UserStore
	resolver *Resolver
	email    string
	password string
}

// NewCredentialsAdapter builds a single-use adapter for one attempt.
func NewCredentialsAdapter(users UserStore, resolver *Resolver, email, password string) *CredentialsAdapter {
	return &CredentialsAdapter{
		users:    users,
		resolver: resolver,
		email:    sanitizer.NormalizeEmail(email),
		password: password,
	}
}

func (a *CredentialsAdapter) Provider() string { return ProviderCredentials }

// GetUserToken verifies the password when the email already has an
// account. Unknown emails pass through so Authenticate can run the signup
// path. Failures are reported as ErrInvalidCredentials without revealing
// which part was wrong.
func (a *CredentialsAdapter) GetUserToken(ctx context.Context) (*TokenData, error) {
	if err := validator.Apply(
		validator.Required("email", a.email),
		validator.ValidEmail("email", a.email),
	); err != nil {
		return nil, ErrInvalidEmail
	}
	if a.password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.users.GetUserByEmail(ctx, a.email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(a.password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return nil, nil
}

func (a *CredentialsAdapter) GetUserResponse(_ context.Context) (UserData, error) {
	return UserData{
		Email:    a.email,
		Password: a.password,
		User:     UserAttributes{IsPasswordAutoset: false},
	}, nil
}

// CreateUpdateAccount is a no-op: password logins have no external
// provider account.
func (a *CredentialsAdapter) CreateUpdateAccount(context.Context, *User) error { return nil }

func (a *CredentialsAdapter) Authenticate(ctx context.Context, login LoginContext) (*User, bool, error) {
	token, err := a.GetUserToken(ctx)
	if err != nil {
		return nil, false, err
	}
	data, err := a.GetUserResponse(ctx)
	if err != nil {
		return nil, false, err
	}
	return a.resolver.CompleteLoginOrSignup(ctx, data, token, a.Provider(), login, a)
}
