package memory

import (
	"context"
	"sync"

	"quiz-arena-service/internal/domain"
)

// MatchmakingPool is an in-memory implementation of app.MatchmakingPool.
// One mutex guards the whole pool, so RemovePair is atomic with respect to
// any other pairing attempt.
type MatchmakingPool struct {
	mu      sync.RWMutex
	entries map[string]domain.MatchmakingEntry
}

func NewMatchmakingPool() *MatchmakingPool {
	return &MatchmakingPool{
		entries: make(map[string]domain.MatchmakingEntry),
	}
}

func (p *MatchmakingPool) Insert(_ context.Context, entry domain.MatchmakingEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[entry.UserID] = entry
	return nil
}

func (p *MatchmakingPool) Remove(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.entries, userID)
	return nil
}

func (p *MatchmakingPool) Get(_ context.Context, userID string) (domain.MatchmakingEntry, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entry, ok := p.entries[userID]
	return entry, ok, nil
}

func (p *MatchmakingPool) Snapshot(_ context.Context, mode domain.MatchMode) ([]domain.MatchmakingEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.MatchmakingEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		if entry.Mode == mode {
			out = append(out, entry)
		}
	}
	return out, nil
}

// RemovePair deletes both entries in one critical section. It reports false
// without removing anything when the opponent is already gone, which the
// service treats as a lost race, not an error.
func (p *MatchmakingPool) RemovePair(_ context.Context, requesterID, opponentID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.entries[opponentID]; !ok {
		return false, nil
	}
	delete(p.entries, opponentID)
	delete(p.entries, requesterID)
	return true, nil
}
