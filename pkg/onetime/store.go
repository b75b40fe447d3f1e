package onetime

import (
	"context"
	"time"
)

// Store manages the lifecycle of one-time codes.
type Store interface {
	// Generate creates a new pending code for the key, superseding any prior
	// pending code. It returns the raw code for out-of-band delivery; the
	// code must never appear in an API response body.
	Generate(ctx context.Context, key string) (string, error)

	// Verify consumes the pending code for the key. It returns nil exactly
	// once per generated code: concurrent verifications of the same code
	// race for a single success. Failures are ErrCodeExpired (no pending
	// code) or ErrCodeMismatch (wrong submission; repeated wrong submissions
	// exhaust the code).
	Verify(ctx context.Context, key, code string) error
}

const (
	// DefaultTTL bounds how long a generated code stays verifiable.
	DefaultTTL = 10 * time.Minute
	// DefaultCodeLength is the number of characters in a generated code.
	DefaultCodeLength = 6
	// DefaultMaxAttempts is the number of wrong submissions tolerated before
	// the pending code is discarded.
	DefaultMaxAttempts = 3
)

type options struct {
	ttl         time.Duration
	codeLength  int
	maxAttempts int
	keyPrefix   string
}

func defaultOptions() options {
	return options{
		ttl:         DefaultTTL,
		codeLength:  DefaultCodeLength,
		maxAttempts: DefaultMaxAttempts,
		keyPrefix:   "onetime:",
	}
}

// Option configures a store implementation.
type Option func(*options)

// WithTTL sets the code lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithCodeLength sets the generated code length.
func WithCodeLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.codeLength = n
		}
	}
}

// WithMaxAttempts sets the wrong-submission budget per pending code.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithKeyPrefix sets the storage key namespace. Only meaningful for stores
// sharing a backend with other data, such as RedisStore.
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}
