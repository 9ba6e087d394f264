package engine

import (
	"sort"
	"time"

	"quiz-arena-service/internal/domain"
)

// Per-game XP formula pieces.
const (
	XPGameWin       = 50
	XPGameLoss      = 10
	XPPerStreak     = 5
	XPStreakCap     = 50
	scoreXPDivisor  = 10
	DefaultRating   = 1000
	LeagueDeltaWin  = 25
	LeagueDeltaDuel = -10
	LeagueDeltaLoss = 5
)

// NewProfile creates the initial profile for a first-time player.
func NewProfile(userID, username string, now time.Time) domain.UserProfile {
	level := LevelFromTotalXP(0)
	return domain.UserProfile{
		ID:            userID,
		Username:      username,
		Level:         level.Level,
		XP:            level.CurrentXP,
		XPToNextLevel: level.XPToNext,
		League:        domain.LeagueBronze,
		Stats: domain.UserStats{
			Categories: map[string]domain.CategoryStats{},
		},
		Achievements: NewAchievements(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyGameResult folds one completed game into a profile and returns the
// updated copy; the input profile is never mutated. Callers validate the
// result (TotalQuestions > 0) before invoking.
func ApplyGameResult(profile domain.UserProfile, result domain.GameResult, now time.Time) domain.UserProfile {
	updated := profile
	stats := profile.Stats

	stats.GamesPlayed++
	stats.TotalQuestions += result.TotalQuestions
	stats.CorrectAnswers += result.CorrectAnswers
	stats.Accuracy = roundPercent(stats.CorrectAnswers, stats.TotalQuestions)
	stats.PlayTimeSeconds += result.TimeSpent

	if result.IsWin {
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
	} else {
		stats.Losses++
		stats.CurrentStreak = 0
	}
	stats.WinRate = roundPercent(stats.Wins, stats.GamesPlayed)

	stats.Categories = updateCategory(stats.Categories, result)
	stats.FavoriteCategory = favoriteCategory(stats.Categories)

	updated.Stats = stats

	// XP: score share plus outcome award plus capped win-streak bonus.
	gained := result.Score/scoreXPDivisor + XPGameLoss
	if result.IsWin {
		gained = result.Score/scoreXPDivisor + XPGameWin
	}
	streakBonus := stats.CurrentStreak * XPPerStreak
	if streakBonus > XPStreakCap {
		streakBonus = XPStreakCap
	}
	gained += streakBonus

	updated.TotalXP += gained
	level := LevelFromTotalXP(updated.TotalXP)
	updated.Level = level.Level
	updated.XP = level.CurrentXP
	updated.XPToNextLevel = level.XPToNext

	updated.LeaguePoints += leagueDelta(result)
	if updated.LeaguePoints < 0 {
		updated.LeaguePoints = 0
	}
	updated.League = LeagueFromPoints(updated.LeaguePoints).League

	updated.Achievements = evaluateAchievements(profile.Achievements, stats, result, now)
	updated.UpdatedAt = now
	return updated
}

func leagueDelta(result domain.GameResult) int {
	switch {
	case result.IsWin:
		return LeagueDeltaWin
	case result.IsDuel:
		return LeagueDeltaDuel
	default:
		return LeagueDeltaLoss
	}
}

func updateCategory(categories map[string]domain.CategoryStats, result domain.GameResult) map[string]domain.CategoryStats {
	out := make(map[string]domain.CategoryStats, len(categories)+1)
	for k, v := range categories {
		out[k] = v
	}
	bucket := out[result.Category]
	bucket.Played++
	bucket.Questions += result.TotalQuestions
	bucket.Correct += result.CorrectAnswers
	bucket.Accuracy = roundPercent(bucket.Correct, bucket.Questions)
	if result.Score > bucket.BestScore {
		bucket.BestScore = result.Score
	}
	out[result.Category] = bucket
	return out
}

// favoriteCategory picks the most-played category. Ties break alphabetically
// so the result is deterministic regardless of map iteration order.
func favoriteCategory(categories map[string]domain.CategoryStats) string {
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	favorite := ""
	best := 0
	for _, k := range keys {
		if categories[k].Played > best {
			best = categories[k].Played
			favorite = k
		}
	}
	return favorite
}
