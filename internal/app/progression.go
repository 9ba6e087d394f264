package app

import (
	"context"
	"errors"
	"time"

	"quiz-arena-service/internal/domain"
	"quiz-arena-service/internal/engine"
)

// ProfileRepository abstracts durable profile storage (in-memory, Postgres).
// Save must enforce optimistic concurrency and return
// domain.ErrVersionConflict when a concurrent writer got there first.
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (domain.UserProfile, error)
	Save(ctx context.Context, profile domain.UserProfile) error
}

// DefaultSaveRetries bounds how often a lost write race is retried before
// the conflict is surfaced to the caller.
const DefaultSaveRetries = 3

// ProgressionService folds completed games into durable profiles.
type ProgressionService struct {
	profiles ProfileRepository
	retries  int
	now      func() time.Time
}

func NewProgressionService(profiles ProfileRepository, retries int) *ProgressionService {
	if retries <= 0 {
		retries = DefaultSaveRetries
	}
	return &ProgressionService{profiles: profiles, retries: retries, now: time.Now}
}

// NewProgressionServiceWithClock is test-only for deterministic timestamps.
func NewProgressionServiceWithClock(profiles ProfileRepository, retries int, now func() time.Time) *ProgressionService {
	s := NewProgressionService(profiles, retries)
	s.now = now
	return s
}

// ApplyGameResult validates the incoming result, folds it into the stored
// profile and persists the outcome. A missing profile is created on first
// play. Version conflicts are retried by re-reading and reapplying, so no
// concurrent game completion is silently dropped.
func (s *ProgressionService) ApplyGameResult(ctx context.Context, userID, username string, result domain.GameResult) (domain.UserProfile, error) {
	if err := validateResult(result); err != nil {
		return domain.UserProfile{}, err
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		profile, err := s.profiles.Get(ctx, userID)
		if errors.Is(err, domain.ErrProfileNotFound) {
			profile = engine.NewProfile(userID, username, s.now())
		} else if err != nil {
			return domain.UserProfile{}, err
		}

		updated := engine.ApplyGameResult(profile, result, s.now())
		err = s.profiles.Save(ctx, updated)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return domain.UserProfile{}, err
		}
		lastErr = err
	}
	return domain.UserProfile{}, lastErr
}

// Profile returns the stored profile for a user; absence surfaces as
// domain.ErrProfileNotFound.
func (s *ProgressionService) Profile(ctx context.Context, userID string) (domain.UserProfile, error) {
	return s.profiles.Get(ctx, userID)
}

func validateResult(result domain.GameResult) error {
	if result.TotalQuestions <= 0 {
		return domain.ErrInvalidGameResult
	}
	if result.CorrectAnswers < 0 || result.CorrectAnswers > result.TotalQuestions {
		return domain.ErrInvalidGameResult
	}
	if result.Score < 0 || result.TimeSpent < 0 {
		return domain.ErrInvalidGameResult
	}
	return nil
}
