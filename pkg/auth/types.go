package auth

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifiers recorded as the login medium.
const (
	ProviderMagicCode   = "magic-code"
	ProviderCredentials = "email"
	ProviderGoogle      = "google"
	ProviderGitHub      = "github"
)

// User is the canonical account record. Email is unique per instance.
type User struct {
	ID                 uuid.UUID
	Email              string
	Username           string
	PasswordHash       []byte
	IsPasswordAutoset  bool
	IsEmailVerified    bool
	IsActive           bool
	Avatar             string
	FirstName          string
	LastName           string
	LastLoginMedium    string
	LastActive         time.Time
	LastLoginTime      time.Time
	LastLoginIP        string
	LastLoginUserAgent string
	TokenUpdatedAt     time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DisplayName returns the best human-readable name available for the user.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Profile is the companion record created alongside every new user.
// Application-level preferences hang off it; authentication only
// guarantees its existence.
type Profile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account links a user to an external identity provider and carries the
// most recent token material received from it.
type Account struct {
	ID                   uuid.UUID
	UserID               uuid.UUID
	Provider             string
	ProviderAccountID    string
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresAt time.Time
	LastConnectedAt      time.Time
	CreatedAt            time.Time
}

// UserAttributes are the provider-supplied profile fields applied when a
// new user is created. Existing users keep whatever they already have.
type UserAttributes struct {
	IsPasswordAutoset bool
	Avatar            string
	FirstName         string
	LastName          string
}

// UserData is the normalized identity payload an adapter hands to the
// resolver. Password is the transient user-chosen secret; it is empty on
// flows where the password is autoset and is never stored as-is.
type UserData struct {
	Email    string
	Password string
	User     UserAttributes
}

// TokenData carries provider token material for flows that have it.
// Challenge-based flows pass nil instead.
type TokenData struct {
	AccessToken          string
	RefreshToken         string
	AccessTokenExpiresAt time.Time
}

// LoginContext captures request provenance recorded on every successful
// authentication.
type LoginContext struct {
	IPAddress string
	UserAgent string
}
