package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/authkit/authkit/pkg/auth"
	"github.com/authkit/authkit/pkg/pg"
)

// DB is the subset of pgxpool.Pool the storage needs. pgxmock satisfies
// it too, which keeps the tests driverless.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ auth.UserStore    = (*Storage)(nil)
	_ auth.ProfileStore = (*Storage)(nil)
	_ auth.InviteStore  = (*Storage)(nil)
	_ auth.AccountStore = (*Storage)(nil)
)

// Storage implements the auth storage interfaces over a single database
// handle.
type Storage struct {
	db DB
}

// New wraps the given database handle.
func New(db DB) *Storage {
	return &Storage{db: db}
}

const userColumns = `id, email, username, password_hash, is_password_autoset, is_email_verified,
	is_active, avatar, first_name, last_name, last_login_medium, last_active, last_login_time,
	last_login_ip, last_login_user_agent, token_updated_at, created_at, updated_at`

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.IsPasswordAutoset, &u.IsEmailVerified,
		&u.IsActive, &u.Avatar, &u.FirstName, &u.LastName, &u.LastLoginMedium, &u.LastActive,
		&u.LastLoginTime, &u.LastLoginIP, &u.LastLoginUserAgent, &u.TokenUpdatedAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if pg.IsNotFoundError(err) {
		return nil, auth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	return user, nil
}

func (s *Storage) CreateUser(ctx context.Context, u *auth.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, email, username, password_hash, is_password_autoset,
			is_email_verified, is_active, avatar, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.IsPasswordAutoset,
		u.IsEmailVerified, u.IsActive, u.Avatar, u.FirstName, u.LastName, u.CreatedAt)
	if pg.IsDuplicateKeyError(err) {
		return auth.ErrEmailAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Storage) UpdateUser(ctx context.Context, u *auth.User) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET
			email = $2, username = $3, password_hash = $4, is_password_autoset = $5,
			is_email_verified = $6, is_active = $7, avatar = $8, first_name = $9, last_name = $10,
			last_login_medium = $11, last_active = $12, last_login_time = $13, last_login_ip = $14,
			last_login_user_agent = $15, token_updated_at = $16, updated_at = now()
		WHERE id = $1`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.IsPasswordAutoset,
		u.IsEmailVerified, u.IsActive, u.Avatar, u.FirstName, u.LastName,
		u.LastLoginMedium, u.LastActive, u.LastLoginTime, u.LastLoginIP,
		u.LastLoginUserAgent, u.TokenUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (s *Storage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (s *Storage) CreateProfile(ctx context.Context, p *auth.Profile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)`,
		p.ID, p.UserID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

// HasInviteForEmail reports whether the email has at least one pending
// workspace invitation.
func (s *Storage) HasInviteForEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM workspace_member_invites
			WHERE lower(email) = lower($1) AND NOT accepted
		)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check invitations: %w", err)
	}
	return exists, nil
}

// UpsertAccount inserts the provider account link or refreshes its token
// material when the (provider, provider account id) pair already exists.
func (s *Storage) UpsertAccount(ctx context.Context, a *auth.Account) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (user_id, provider, provider_account_id, access_token,
			refresh_token, access_token_expires_at, last_connected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider, provider_account_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			access_token_expires_at = EXCLUDED.access_token_expires_at,
			last_connected_at = EXCLUDED.last_connected_at`,
		a.UserID, a.Provider, a.ProviderAccountID, a.AccessToken,
		a.RefreshToken, a.AccessTokenExpiresAt, a.LastConnectedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

var _ auth.SettingsSource = (*Settings)(nil)

// Settings resolves instance configuration from the instance_settings
// table, falling back to environment variables for unset keys. Persisted
// values win so admin-panel changes apply without a restart.
type Settings struct {
	db  DB
	env auth.EnvSettings
}

// NewSettings wraps the given database handle.
func NewSettings(db DB) *Settings {
	return &Settings{db: db}
}

func (s *Settings) Get(ctx context.Context, key, def string) (string, error) {
	var value string
	err := s.db.QueryRow(ctx, `SELECT value FROM instance_settings WHERE key = $1`, key).Scan(&value)
	if pg.IsNotFoundError(err) {
		return s.env.Get(ctx, key, def)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read instance setting: %w", err)
	}
	return value, nil
}

// Set stores an instance configuration value.
func (s *Settings) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO instance_settings (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to store instance setting: %w", err)
	}
	return nil
}

// Delete removes a persisted setting so the environment fallback applies
// again. Deleting an absent key is not an error.
func (s *Settings) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM instance_settings WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete instance setting: %w", err)
	}
	return nil
}
