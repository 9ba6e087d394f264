package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-arena-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// MatchmakingPool is a Redis-backed implementation of app.MatchmakingPool.
// Layout:
//   - ZADD mm:{mode}:queue  {joinedAt unix-nano} {userID}   (wait order)
//   - SET  mm:entry:{userID} {entry JSON}                   (full entry)
//
// RemovePair runs under WATCH on the opponent's entry key, so two
// requesters racing for the same opponent cannot both succeed: the loser's
// transaction aborts and reports a lost race.
type MatchmakingPool struct {
	client *redis.Client
}

func NewMatchmakingPool(client *redis.Client) *MatchmakingPool {
	return &MatchmakingPool{client: client}
}

func (p *MatchmakingPool) Insert(ctx context.Context, entry domain.MatchmakingEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	pipe := p.client.TxPipeline()
	pipe.Set(ctx, p.entryKey(entry.UserID), raw, 0)
	pipe.ZAdd(ctx, p.queueKey(entry.Mode), redis.Z{
		Score:  float64(entry.JoinedAt.UnixNano()),
		Member: entry.UserID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (p *MatchmakingPool) Remove(ctx context.Context, userID string) error {
	entry, err := p.loadEntry(ctx, userID)
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := p.client.TxPipeline()
	pipe.Del(ctx, p.entryKey(userID))
	pipe.ZRem(ctx, p.queueKey(entry.Mode), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove entry: %w", err)
	}
	return nil
}

func (p *MatchmakingPool) Get(ctx context.Context, userID string) (domain.MatchmakingEntry, bool, error) {
	entry, err := p.loadEntry(ctx, userID)
	if errors.Is(err, redis.Nil) {
		return domain.MatchmakingEntry{}, false, nil
	}
	if err != nil {
		return domain.MatchmakingEntry{}, false, err
	}
	return entry, true, nil
}

func (p *MatchmakingPool) Snapshot(ctx context.Context, mode domain.MatchMode) ([]domain.MatchmakingEntry, error) {
	userIDs, err := p.client.ZRange(ctx, p.queueKey(mode), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("range queue: %w", err)
	}

	entries := make([]domain.MatchmakingEntry, 0, len(userIDs))
	for _, userID := range userIDs {
		entry, err := p.loadEntry(ctx, userID)
		if errors.Is(err, redis.Nil) {
			// entry withdrawn between ZRANGE and GET; skip
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RemovePair deletes both entries atomically. A concurrent requester who
// already claimed the opponent makes the watched transaction fail, which is
// reported as a lost race (false), not an error.
func (p *MatchmakingPool) RemovePair(ctx context.Context, requesterID, opponentID string) (bool, error) {
	opponentKey := p.entryKey(opponentID)
	requesterKey := p.entryKey(requesterID)

	err := p.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, opponentKey).Result()
		if err != nil {
			return err
		}
		var opponent domain.MatchmakingEntry
		if err := json.Unmarshal([]byte(raw), &opponent); err != nil {
			return fmt.Errorf("unmarshal entry: %w", err)
		}

		var requesterMode domain.MatchMode
		if rawReq, err := tx.Get(ctx, requesterKey).Result(); err == nil {
			var requester domain.MatchmakingEntry
			if err := json.Unmarshal([]byte(rawReq), &requester); err == nil {
				requesterMode = requester.Mode
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, opponentKey)
			pipe.ZRem(ctx, p.queueKey(opponent.Mode), opponentID)
			if requesterMode != "" {
				pipe.Del(ctx, requesterKey)
				pipe.ZRem(ctx, p.queueKey(requesterMode), requesterID)
			}
			return nil
		})
		return err
	}, opponentKey)

	if errors.Is(err, redis.Nil) || errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove pair: %w", err)
	}
	return true, nil
}

func (p *MatchmakingPool) loadEntry(ctx context.Context, userID string) (domain.MatchmakingEntry, error) {
	raw, err := p.client.Get(ctx, p.entryKey(userID)).Result()
	if err != nil {
		return domain.MatchmakingEntry{}, err
	}
	var entry domain.MatchmakingEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return domain.MatchmakingEntry{}, fmt.Errorf("unmarshal entry: %w", err)
	}
	return entry, nil
}

func (p *MatchmakingPool) queueKey(mode domain.MatchMode) string {
	return "mm:" + string(mode) + ":queue"
}

func (p *MatchmakingPool) entryKey(userID string) string {
	return "mm:entry:" + userID
}
