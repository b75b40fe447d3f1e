// Package postgres implements the auth storage interfaces over pgx.
//
// Storage satisfies auth.UserStore, auth.ProfileStore, auth.InviteStore,
// auth.AccountStore and auth.SettingsSource; one value over a pgxpool.Pool
// serves the whole auth package. Schema migrations are embedded and
// applied with Migrate.
package postgres
