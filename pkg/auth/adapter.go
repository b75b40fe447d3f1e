package auth

import "context"

// Adapter is a single authentication attempt for one sign-in method. An
// adapter is constructed per request with the credentials it will judge,
// validates them in GetUserToken, exposes the resulting identity through
// GetUserResponse, and finishes by running the shared resolution flow in
// Authenticate.
type Adapter interface {
	// Provider returns the stable identifier recorded as the login medium.
	Provider() string

	// GetUserToken validates the credential the adapter owns. Token-based
	// flows return the provider token material; challenge-based flows
	// return nil on success.
	GetUserToken(ctx context.Context) (*TokenData, error)

	// GetUserResponse returns the normalized identity payload. It must only
	// be called after GetUserToken succeeded.
	GetUserResponse(ctx context.Context) (UserData, error)

	// Authenticate runs the full flow: credential validation, account
	// resolution, and provenance recording. The boolean reports whether a
	// new user was created.
	Authenticate(ctx context.Context, login LoginContext) (*User, bool, error)

	AccountLinker
}

// AccountLinker records an external provider account for a resolved user.
// Adapters without provider accounts implement it as a no-op.
type AccountLinker interface {
	CreateUpdateAccount(ctx context.Context, user *User) error
}
