// Package database provides the data context handle used by the repositories:
// connection configuration and settings loading, a Bun-backed manager per
// dialect, sessions with change tracking and an identity map, generic entity
// sets with deferred queries, query diagnostics, schema bootstrap for the
// registered models, SQL seed files and store error classification.
package database
