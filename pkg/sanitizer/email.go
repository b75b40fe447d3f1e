package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lowercases and trims an email address and collapses
// consecutive dots in the local part. Account lookups, uniqueness checks,
// and one-time code keys all operate on the normalized form, so every
// entry point must call this before touching storage.
//
// Inputs that do not look like an email (no single "@") are returned
// lowercased and trimmed; validation is the validator package's job.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return email
	}

	local = consecutiveDots.ReplaceAllString(local, ".")
	local = strings.Trim(local, ".")

	return local + "@" + domain
}

// ExtractEmailDomain returns the domain part of a normalized email address,
// or an empty string when the input has no domain.
func ExtractEmailDomain(email string) string {
	_, domain, ok := strings.Cut(NormalizeEmail(email), "@")
	if !ok {
		return ""
	}
	return domain
}
