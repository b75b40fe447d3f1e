package auth

import (
	"context"
	"os"
)

// Instance configuration keys consulted by the auth flows.
const (
	// KeyEnableSignup gates self-serve account creation. Any value other
	// than "0" means signup is open.
	KeyEnableSignup = "ENABLE_SIGNUP"
)

// SettingsSource resolves instance-level configuration values. Get returns
// the stored value for key, or def when the key is unset.
type SettingsSource interface {
	Get(ctx context.Context, key, def string) (string, error)
}

// EnvSettings resolves configuration from process environment variables.
// It is the default source; deployments with an admin panel plug in a
// persisted source instead.
type EnvSettings struct{}

func (EnvSettings) Get(_ context.Context, key, def string) (string, error) {
	if v, ok := os.LookupEnv(key); ok {
		return v, nil
	}
	return def, nil
}

// SettingsFunc adapts a plain function to the SettingsSource interface.
type SettingsFunc func(ctx context.Context, key, def string) (string, error)

func (f SettingsFunc) Get(ctx context.Context, key, def string) (string, error) {
	return f(ctx, key, def)
}
