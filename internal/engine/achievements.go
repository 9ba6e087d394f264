package engine

import (
	"time"

	"quiz-arena-service/internal/domain"
)

// Achievement catalog IDs.
const (
	AchFirstVictory   = "first-victory"
	AchVeteran        = "veteran-10"
	AchCenturyScholar = "century-scholar"
	AchFlawlessRun    = "flawless-run"
	AchSharpshooter   = "sharpshooter"
	AchCategoryAce    = "category-ace"
)

// Thresholds used by accuracy-gated achievements.
const (
	sharpshooterMinAccuracy  = 90
	sharpshooterMinQuestions = 50
	categoryAceMinQuestions  = 10
)

// AchievementCatalog is the fixed set every profile tracks. Order is the
// display order and is stable.
var AchievementCatalog = []domain.Achievement{
	{ID: AchFirstVictory, Title: "First Victory", Description: "Win your first game", Target: 1},
	{ID: AchVeteran, Title: "Veteran", Description: "Win 10 games", Target: 10},
	{ID: AchCenturyScholar, Title: "Century Scholar", Description: "Answer 100 questions", Target: 100},
	{ID: AchFlawlessRun, Title: "Flawless Run", Description: "Answer 10 questions in a row without a miss", Target: 10},
	{ID: AchSharpshooter, Title: "Sharpshooter", Description: "Reach 90% lifetime accuracy over 50+ questions", Target: 1},
	{ID: AchCategoryAce, Title: "Category Ace", Description: "Score 100% in a game of 10 or more questions", Target: 1},
}

// NewAchievements returns a fresh locked copy of the catalog for a new
// profile.
func NewAchievements() []domain.Achievement {
	out := make([]domain.Achievement, len(AchievementCatalog))
	copy(out, AchievementCatalog)
	return out
}

// evaluateAchievements advances every still-locked achievement against the
// updated stats and this game's result. Unlocking is a one-way latch:
// already-unlocked entries are returned untouched, and progress never
// decreases.
func evaluateAchievements(achievements []domain.Achievement, stats domain.UserStats, result domain.GameResult, now time.Time) []domain.Achievement {
	out := make([]domain.Achievement, len(achievements))
	copy(out, achievements)

	perfectGame := result.CorrectAnswers == result.TotalQuestions

	for i := range out {
		a := &out[i]
		if a.Unlocked {
			continue
		}

		progress := a.Progress
		switch a.ID {
		case AchFirstVictory:
			if stats.Wins > 0 {
				progress = 1
			}
		case AchVeteran:
			progress = stats.Wins
		case AchCenturyScholar:
			progress = stats.TotalQuestions
		case AchFlawlessRun:
			if perfectGame && result.TotalQuestions > progress {
				progress = result.TotalQuestions
			}
		case AchSharpshooter:
			if stats.Accuracy >= sharpshooterMinAccuracy && stats.TotalQuestions >= sharpshooterMinQuestions {
				progress = a.Target
			}
		case AchCategoryAce:
			if perfectGame && result.TotalQuestions >= categoryAceMinQuestions {
				progress = 1
			}
		}

		if progress > a.Progress {
			a.Progress = progress
		}
		if a.Progress >= a.Target {
			a.Unlocked = true
			unlockedAt := now
			a.UnlockedAt = &unlockedAt
		}
	}
	return out
}
