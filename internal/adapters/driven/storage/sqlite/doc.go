// Package sqlite provides SQLite-backed persistence for tasks and the
// calendar credential record.
//
// A single Store owns the database connection; the per-interface store
// views (TaskStore, CredentialStore) are thin wrappers over it. Schema
// changes ship as embedded .up.sql migrations applied at startup.
package sqlite
