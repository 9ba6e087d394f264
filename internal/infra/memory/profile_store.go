package memory

import (
	"context"
	"sync"

	"quiz-arena-service/internal/domain"
)

// ProfileStore is an in-memory implementation of app.ProfileRepository with
// the same compare-and-swap discipline as the Postgres store, so concurrent
// game completions for one user never silently clobber each other.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.UserProfile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		profiles: make(map[string]domain.UserProfile),
	}
}

func (s *ProfileStore) Get(_ context.Context, userID string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profile, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

// Save persists the profile only when its version still matches the stored
// one, then bumps the version. A mismatch means another writer won the race.
func (s *ProfileStore) Save(_ context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.profiles[profile.ID]
	if !ok {
		if profile.Version != 0 {
			return domain.ErrVersionConflict
		}
		profile.Version = 1
		s.profiles[profile.ID] = profile
		return nil
	}
	if current.Version != profile.Version {
		return domain.ErrVersionConflict
	}
	profile.Version = current.Version + 1
	s.profiles[profile.ID] = profile
	return nil
}
