package engine

import "quiz-arena-service/internal/domain"

// DefaultRatingBand is the widest rating gap two players may have and still
// be paired.
const DefaultRatingBand = 200

// FindOpponent selects a compatible opponent from the waiting pool: same
// mode, not the requester, rating within band, oldest waiter first (the
// anti-starvation rule). The boolean is false when nobody qualifies, which
// is an expected outcome, not an error.
func FindOpponent(requesterID string, mode domain.MatchMode, rating, band int, pool []domain.MatchmakingEntry) (domain.MatchmakingEntry, bool) {
	var best domain.MatchmakingEntry
	found := false
	for _, entry := range pool {
		if entry.Mode != mode || entry.UserID == requesterID {
			continue
		}
		diff := entry.Rating - rating
		if diff < -band || diff > band {
			continue
		}
		if !found || entry.JoinedAt.Before(best.JoinedAt) {
			best = entry
			found = true
		}
	}
	return best, found
}
