package app

import (
	"context"
	"time"

	"quiz-arena-service/internal/domain"
	"quiz-arena-service/internal/engine"
)

// MatchmakingPool abstracts the shared waiting pool (in-memory, Redis).
// RemovePair must be atomic with respect to concurrent pairing attempts:
// either both entries disappear together or neither does.
type MatchmakingPool interface {
	Insert(ctx context.Context, entry domain.MatchmakingEntry) error
	Remove(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (domain.MatchmakingEntry, bool, error)
	Snapshot(ctx context.Context, mode domain.MatchMode) ([]domain.MatchmakingEntry, error)
	RemovePair(ctx context.Context, requesterID, opponentID string) (bool, error)
}

// MatchmakingService owns queue membership and pairing.
type MatchmakingService struct {
	pool MatchmakingPool
	band int
	now  func() time.Time
}

func NewMatchmakingService(pool MatchmakingPool, ratingBand int) *MatchmakingService {
	if ratingBand <= 0 {
		ratingBand = engine.DefaultRatingBand
	}
	return &MatchmakingService{pool: pool, band: ratingBand, now: time.Now}
}

// NewMatchmakingServiceWithClock is test-only for deterministic join times.
func NewMatchmakingServiceWithClock(pool MatchmakingPool, ratingBand int, now func() time.Time) *MatchmakingService {
	s := NewMatchmakingService(pool, ratingBand)
	s.now = now
	return s
}

// Join inserts the user into the waiting pool. Rejoining overwrites the
// entry and restarts the wait clock.
func (s *MatchmakingService) Join(ctx context.Context, userID string, mode domain.MatchMode, rating int, category string) (domain.MatchmakingEntry, error) {
	entry := domain.MatchmakingEntry{
		UserID:   userID,
		Mode:     mode,
		Category: category,
		Rating:   rating,
		JoinedAt: s.now(),
	}
	if err := s.pool.Insert(ctx, entry); err != nil {
		return domain.MatchmakingEntry{}, err
	}
	return entry, nil
}

// Leave withdraws a waiting user. Removing an absent entry is not an error:
// the user may have just been paired away.
func (s *MatchmakingService) Leave(ctx context.Context, userID string) error {
	return s.pool.Remove(ctx, userID)
}

// IsQueued reports whether the user still holds a pool entry. A waiting
// player whose entry vanished without their own cancel was claimed by
// another requester's pairing.
func (s *MatchmakingService) IsQueued(ctx context.Context, userID string) (bool, error) {
	_, ok, err := s.pool.Get(ctx, userID)
	return ok, err
}

// FindMatch runs one pairing attempt for the requester. On success both
// entries are removed from the pool as one logical unit; when the chosen
// opponent was raced away by a concurrent requester the attempt reports
// no-match so the caller simply polls again.
func (s *MatchmakingService) FindMatch(ctx context.Context, userID string, mode domain.MatchMode, rating int) (domain.MatchmakingEntry, bool, error) {
	pool, err := s.pool.Snapshot(ctx, mode)
	if err != nil {
		return domain.MatchmakingEntry{}, false, err
	}

	opponent, ok := engine.FindOpponent(userID, mode, rating, s.band, pool)
	if !ok {
		return domain.MatchmakingEntry{}, false, nil
	}

	removed, err := s.pool.RemovePair(ctx, userID, opponent.UserID)
	if err != nil {
		return domain.MatchmakingEntry{}, false, err
	}
	if !removed {
		return domain.MatchmakingEntry{}, false, nil
	}
	return opponent, true, nil
}
