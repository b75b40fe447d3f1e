package onetime

import "errors"

var (
	// ErrCodeExpired is returned when no pending code exists for the key:
	// never generated, expired, already consumed, or superseded.
	ErrCodeExpired = errors.New("one-time code expired or not found")
	// ErrCodeMismatch is returned when the submitted code does not match the
	// pending one. The pending code stays valid until the attempt budget is
	// exhausted.
	ErrCodeMismatch = errors.New("one-time code does not match")
	// ErrFailedToGenerateCode is returned when the random source fails.
	ErrFailedToGenerateCode = errors.New("failed to generate one-time code")
)
