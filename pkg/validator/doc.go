// Package validator provides a tiny rule-based validation engine used at the
// authentication boundaries.
//
// Rules are plain values combining a check closure with the error to report
// when the check fails. Apply evaluates all rules and aggregates failures
// into a ValidationErrors value, which implements error.
//
//	if err := validator.Apply(
//		validator.Required("email", email),
//		validator.ValidEmail("email", email),
//	); err != nil {
//		return err
//	}
package validator
