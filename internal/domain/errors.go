package domain

import "errors"

var (
	// ErrProfileNotFound is returned when no profile exists for a user ID.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrVersionConflict signals a lost optimistic-concurrency race on a
	// profile write; callers re-read and reapply.
	ErrVersionConflict = errors.New("profile version conflict")
	// ErrInvalidGameResult rejects a game result that violates the caller
	// contract (e.g. zero questions).
	ErrInvalidGameResult = errors.New("invalid game result")
	// ErrNoQuestions indicates no questions matched the requested filters.
	ErrNoQuestions = errors.New("no questions available")
	// ErrNotQueued is returned when acting on a user absent from the
	// matchmaking pool.
	ErrNotQueued = errors.New("user not in matchmaking pool")
)
