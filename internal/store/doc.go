// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic. Uniqueness rules (slugs, enrollments,
// completions, account emails) are enforced by the storage layer and
// surface here as ErrDuplicate-wrapping errors, so callers treat a
// constraint violation as the authoritative answer instead of checking
// for existence first.
package store
