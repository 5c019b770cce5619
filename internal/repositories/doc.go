// Package repositories implements SQLite persistence for users and their movie list entries.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
// Users are soft-deleted via deleted_at and excluded from queries by default.
//
// Key Implementations:
//   - [UserRepository] : User account persistence with email-based lookups
//   - [ListEntryRepository] : Per-user movie list entries with an atomic (user, movie) upsert
//
// Sequence numbers give entries a stable insertion order independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
