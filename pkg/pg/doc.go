// Package pg bootstraps a resilient PostgreSQL layer on top of pgx/v5:
// env-driven pool configuration, connection with retry, goose schema
// migrations from an embedded filesystem, and error classification helpers
// shared by the storage implementations in this kit.
package pg
