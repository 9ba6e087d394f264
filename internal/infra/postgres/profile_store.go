package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-arena-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProfileStore persists profiles as JSONB rows with a version column for
// optimistic concurrency: an UPDATE only lands when the caller still holds
// the latest version, otherwise the write is rejected and retried upstream.
type ProfileStore struct {
	pool *pgxpool.Pool
}

func NewProfileStore(pool *pgxpool.Pool) *ProfileStore {
	return &ProfileStore{pool: pool}
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (domain.UserProfile, error) {
	var raw []byte
	var version int64
	err := s.pool.QueryRow(ctx,
		`SELECT data, version FROM profiles WHERE id=$1`, userID).Scan(&raw, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	profile.Version = version
	return profile, nil
}

func (s *ProfileStore) Save(ctx context.Context, profile domain.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	if profile.Version == 0 {
		tag, err := s.pool.Exec(ctx,
			`INSERT INTO profiles (id, data, version) VALUES ($1, $2, 1)
			 ON CONFLICT (id) DO NOTHING`, profile.ID, raw)
		if err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		// an existing row means another first-play write won the race
		if tag.RowsAffected() == 0 {
			return domain.ErrVersionConflict
		}
		return nil
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE profiles SET data=$2, version=version+1 WHERE id=$1 AND version=$3`,
		profile.ID, raw, profile.Version)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// TopByLeaguePoints returns the highest-ranked profiles for the leaderboard
// surface, optionally filtered to one league.
func (s *ProfileStore) TopByLeaguePoints(ctx context.Context, league domain.League, limit int) ([]domain.UserProfile, error) {
	query := `SELECT data, version FROM profiles
	          ORDER BY (data->>'leaguePoints')::int DESC LIMIT $1`
	args := []interface{}{limit}
	if league != "" {
		query = `SELECT data, version FROM profiles WHERE data->>'league' = $2
		         ORDER BY (data->>'leaguePoints')::int DESC LIMIT $1`
		args = append(args, string(league))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var profiles []domain.UserProfile
	for rows.Next() {
		var raw []byte
		var version int64
		if err := rows.Scan(&raw, &version); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		var profile domain.UserProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, fmt.Errorf("unmarshal profile: %w", err)
		}
		profile.Version = version
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
