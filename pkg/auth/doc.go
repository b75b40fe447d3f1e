// Package auth implements provider-agnostic authentication on top of
// consumer-supplied storage.
//
// Every sign-in method (one-time email codes, email/password, OAuth) is
// expressed as an Adapter: a small state machine that validates the
// credential it owns and hands a normalized UserData payload to the
// Resolver. The Resolver owns the shared account-resolution flow: it looks
// the user up by email, creates the account on first contact (subject to
// the instance signup policy), records login provenance, and links
// external provider accounts.
//
// Storage is abstracted behind narrow interfaces (UserStore, ProfileStore,
// InviteStore, AccountStore) so the package stays portable; a pgx-backed
// implementation lives in the postgres subpackage.
package auth
