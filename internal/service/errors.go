package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Store Errors =====
var (
	// ErrStoreNotConfigured is returned by every remote call when no hosted
	// store is configured. Callers treat it as local-only mode, not a failure.
	ErrStoreNotConfigured = errors.New("hosted store not configured: running in local-only mode")
	// ErrStoreWrite wraps a failed remote write. The local change has already
	// been reverted when a command returns it.
	ErrStoreWrite = errors.New("hosted store write failed")
	ErrStoreRead  = errors.New("hosted store read failed")
)

// ===== Habit Errors =====
var (
	ErrInvalidHabit  = errors.New("invalid habit")
	ErrInvalidStatus = errors.New("status must be Active, Paused or Archived")
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
)

// ===== Owner Errors =====
var (
	ErrOwnerRequired = errors.New("owner id is required")
	ErrOwnerMismatch = errors.New("change belongs to a different owner")
)

// ===== Challenge Errors =====
var (
	ErrChallengesUnavailable = errors.New("weekly challenges require a hosted store")
)
