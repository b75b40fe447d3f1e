// Package sanitizer normalizes untrusted user input before it reaches
// validation or storage.
//
// The package currently focuses on email addresses: every authentication
// flow in this kit keys accounts by email, so a single canonical form is
// required before lookups, uniqueness checks, and one-time code keys.
//
// Usage:
//
//	email := sanitizer.NormalizeEmail("  John.Doe@Example.COM ")
//	// "john.doe@example.com"
package sanitizer
