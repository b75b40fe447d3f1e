package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/authkit/authkit/pkg/logger"
	"github.com/authkit/authkit/pkg/strength"
)

// Resolver owns the account-resolution flow shared by every adapter:
// look the user up by email, create the account on first contact, record
// login provenance, and link external provider accounts.
type Resolver struct {
	users    UserStore
	profiles ProfileStore
	invites  InviteStore
	settings SettingsSource

	strength   *strength.Checker
	bcryptCost int
	log        *slog.Logger
	now        func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger. Logging is discarded by default.
func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// WithBcryptCost overrides the bcrypt cost used for password hashing.
// Tests use bcrypt.MinCost to stay fast.
func WithBcryptCost(cost int) ResolverOption {
	return func(r *Resolver) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			r.bcryptCost = cost
		}
	}
}

// WithStrengthChecker overrides the password strength checker.
func WithStrengthChecker(c *strength.Checker) ResolverOption {
	return func(r *Resolver) {
		if c != nil {
			r.strength = c
		}
	}
}

// NewResolver wires a resolver over the given stores. settings may be nil,
// in which case environment variables drive the signup policy.
func NewResolver(users UserStore, profiles ProfileStore, invites InviteStore, settings SettingsSource, opts ...ResolverOption) *Resolver {
	if settings == nil {
		settings = EnvSettings{}
	}
	r := &Resolver{
		users:      users,
		profiles:   profiles,
		invites:    invites,
		settings:   settings,
		strength:   strength.New(),
		bcryptCost: bcrypt.DefaultCost,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CompleteLoginOrSignup resolves the identity payload to a user account,
// creating it when the email is unknown, then records login provenance and
// links the provider account when token material is present. The boolean
// reports whether a new user was created.
//
// Callers must pass an already-normalized email in data.Email.
func (r *Resolver) CompleteLoginOrSignup(ctx context.Context, data UserData, token *TokenData, provider string, login LoginContext, linker AccountLinker) (*User, bool, error) {
	user, err := r.users.GetUserByEmail(ctx, data.Email)
	created := false

	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		user, err = r.signup(ctx, data)
		if errors.Is(err, ErrEmailAlreadyExists) {
			// A concurrent request created the account first; resolve it as
			// an existing user.
			user, err = r.users.GetUserByEmail(ctx, data.Email)
			if err != nil {
				return nil, false, fmt.Errorf("failed to load concurrently created user: %w", err)
			}
		} else if err != nil {
			return nil, false, err
		} else {
			created = true
		}
	default:
		return nil, false, fmt.Errorf("failed to look up user by email: %w", err)
	}

	now := r.now()
	user.LastLoginMedium = provider
	user.LastActive = now
	user.LastLoginTime = now
	user.LastLoginIP = login.IPAddress
	user.LastLoginUserAgent = login.UserAgent
	user.TokenUpdatedAt = now

	if err := r.users.UpdateUser(ctx, user); err != nil {
		return nil, false, errors.Join(ErrFailedToUpdateUser, err)
	}

	if token != nil && linker != nil {
		if err := linker.CreateUpdateAccount(ctx, user); err != nil {
			return nil, false, fmt.Errorf("failed to link provider account: %w", err)
		}
	}

	r.log.InfoContext(ctx, "login completed",
		logger.UserID(user.ID.String()),
		logger.Provider(provider),
		slog.Bool("created", created))

	return user, created, nil
}

func (r *Resolver) signup(ctx context.Context, data UserData) (*User, error) {
	if err := r.checkSignupAllowed(ctx, data.Email); err != nil {
		return nil, err
	}

	hash, verified, err := r.initialPassword(data)
	if err != nil {
		return nil, err
	}

	now := r.now()
	user := &User{
		ID:                uuid.New(),
		Email:             data.Email,
		Username:          randomUsername(),
		PasswordHash:      hash,
		IsPasswordAutoset: data.User.IsPasswordAutoset,
		IsEmailVerified:   verified,
		IsActive:          true,
		Avatar:            data.User.Avatar,
		FirstName:         data.User.FirstName,
		LastName:          data.User.LastName,
		CreatedAt:         now,
	}

	if err := r.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, err
		}
		return nil, errors.Join(ErrFailedToCreateUser, err)
	}

	profile := &Profile{ID: uuid.New(), UserID: user.ID, CreatedAt: now}
	if err := r.profiles.CreateProfile(ctx, profile); err != nil {
		// Roll the half-created account back so the email is not burned.
		if derr := r.users.DeleteUser(ctx, user.ID); derr != nil {
			r.log.ErrorContext(ctx, "failed to clean up user after profile creation failure",
				logger.UserID(user.ID.String()), logger.Error(derr))
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	r.log.InfoContext(ctx, "user created", logger.UserID(user.ID.String()), logger.Email(user.Email))
	return user, nil
}

// checkSignupAllowed enforces the instance signup policy. A standing
// workspace invitation overrides a disabled instance.
func (r *Resolver) checkSignupAllowed(ctx context.Context, email string) error {
	enabled, err := r.settings.Get(ctx, KeyEnableSignup, "1")
	if err != nil {
		return fmt.Errorf("failed to read signup setting: %w", err)
	}
	if enabled != "0" {
		return nil
	}

	invited, err := r.invites.HasInviteForEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check invitations: %w", err)
	}
	if !invited {
		return ErrSignupDisabled
	}
	return nil
}

// initialPassword produces the stored hash for a new account. Autoset
// flows get a random throwaway secret and count as email-verified since
// the provider already proved mailbox ownership.
func (r *Resolver) initialPassword(data UserData) ([]byte, bool, error) {
	secret := data.Password
	if data.User.IsPasswordAutoset {
		secret = randomUsername()
	} else if !r.strength.Allows(secret, data.Email, data.User.FirstName, data.User.LastName) {
		return nil, false, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), r.bcryptCost)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, data.User.IsPasswordAutoset, nil
}

// randomUsername returns a 32-char hex handle derived from a random UUID.
func randomUsername() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
