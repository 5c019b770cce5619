// Package models defines domain entities and persistence interfaces for the reelist movie list service.
//
// Persistent entities:
//   - [User] : accounts created by sign-in or the CLI, looked up by id or email
//   - [ListEntry] : one user's relationship to one catalog movie, tagged with a [Category]
//
// [Category] is the closed set of list buckets. [NormalizeCategory] maps the labels clients send
// ("Will Watch", "already watched", ...) onto it and reports anything else as [shared.ErrUnknownCategory].
//
// Entities validate with go-playground/validator struct tags through [Validate].
// The [Repository] interface defines the CRUD surface the repositories package implements.
package models
