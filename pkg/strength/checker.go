package strength

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// MinAcceptableScore is the lowest zxcvbn score accepted for a user-chosen
// password. Scores run 0 (trivially guessable) to 4 (very strong).
const MinAcceptableScore = 3

// Checker scores candidate secrets on the zxcvbn scale.
// Construct with New.
type Checker struct {
	minScore int
}

// Option configures a Checker.
type Option func(*Checker)

// WithMinScore overrides the acceptance threshold. Values outside 0-4 are
// clamped to the scale.
func WithMinScore(score int) Option {
	return func(c *Checker) {
		if score < 0 {
			score = 0
		}
		if score > 4 {
			score = 4
		}
		c.minScore = score
	}
}

// New creates a Checker with the default acceptance policy.
func New(opts ...Option) *Checker {
	c := &Checker{minScore: MinAcceptableScore}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Score returns the zxcvbn score (0-4) for the candidate secret.
// userInputs carry context the attacker likely knows (email, names) so
// passwords derived from them score lower.
func (c *Checker) Score(secret string, userInputs ...string) int {
	return zxcvbn.PasswordStrength(secret, userInputs).Score
}

// Allows reports whether the candidate secret meets the acceptance policy.
func (c *Checker) Allows(secret string, userInputs ...string) bool {
	return c.Score(secret, userInputs...) >= c.minScore
}
