// Package strength scores candidate passwords on the zxcvbn 0-4 ordinal
// scale and applies the kit's acceptance policy.
//
// The checker is a pure function of its inputs: it never reports why a
// password scored low, only the score itself, so callers cannot leak
// policy internals to an attacker probing the signup endpoint.
//
//	checker := strength.New()
//	if !checker.Allows(password, email) {
//		// reject with a generic weak-password error
//	}
package strength
