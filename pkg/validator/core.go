package validator

import (
	"errors"
	"fmt"
	"strings"
)

// Rule pairs a validation check with the error reported on failure.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// ValidationError describes a single failed rule.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors aggregates failed rules. It implements error.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error was recorded for the given field.
func (ve ValidationErrors) Has(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Apply evaluates every rule and returns the aggregated failures, or nil
// when all rules pass. All rules are always evaluated so callers get the
// complete picture in one pass.
func Apply(rules ...Rule) error {
	var ve ValidationErrors

	for _, rule := range rules {
		if !rule.Check() {
			ve = append(ve, rule.Error)
		}
	}

	if len(ve) == 0 {
		return nil
	}
	return ve
}

// Extract returns the ValidationErrors wrapped in err, or nil when err does
// not carry any.
func Extract(err error) ValidationErrors {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
