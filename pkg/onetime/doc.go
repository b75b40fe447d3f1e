// Package onetime issues and verifies short-lived single-use codes, keyed by
// the login attempt they belong to (typically a normalized email address).
//
// A key holds at most one pending code: generating a new code supersedes the
// previous one even if it has not expired. Verification consumes the code on
// the first successful match, enforces an attempt budget for wrong
// submissions, and compares codes in constant time.
//
// Two implementations are provided: RedisStore for production (atomicity via
// server-side scripts, expiry via key TTL) and MemoryStore for tests and
// single-process development setups.
//
//	store := onetime.NewRedisStore(redisClient)
//	code, err := store.Generate(ctx, email)  // deliver code out-of-band
//	...
//	err = store.Verify(ctx, email, submitted)
package onetime
