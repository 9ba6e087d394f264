package engine

import (
	"math"

	"quiz-arena-service/internal/domain"
)

// Completion bonuses applied once per game.
const (
	XPBonusPerfectGame = 100
	XPBonusWin         = 50
	CoinsPerCorrect    = 1
	CoinBonusPerfect   = 25
	CoinBonusWin       = 10
)

// RankThreshold maps a minimum accuracy to a rank letter.
type RankThreshold struct {
	MinAccuracy int
	Rank        domain.Rank
}

// RankTable is checked high-to-low; lower bounds are inclusive.
var RankTable = []RankThreshold{
	{MinAccuracy: 100, Rank: domain.RankS},
	{MinAccuracy: 80, Rank: domain.RankA},
	{MinAccuracy: 60, Rank: domain.RankB},
	{MinAccuracy: 40, Rank: domain.RankC},
}

// Summarize folds the ordered score results of one game into its summary.
// totalQuestions must be positive; callers validate before invoking.
func Summarize(scores []domain.ScoreResult, totalQuestions int, totalTimeSpent float64) domain.GameSummary {
	correct := 0
	totalScore := 0
	xp := 0
	bestStreak := 0
	run := 0
	for _, s := range scores {
		totalScore += s.TotalPoints
		xp += s.XPGained
		if s.TotalPoints > 0 {
			correct++
			run++
			if run > bestStreak {
				bestStreak = run
			}
		} else {
			run = 0
		}
	}

	accuracy := roundPercent(correct, totalQuestions)
	perfect := correct == totalQuestions
	win := correct*2 >= totalQuestions

	coins := correct * CoinsPerCorrect
	switch {
	case perfect:
		xp += XPBonusPerfectGame
		coins += CoinBonusPerfect
	case win:
		xp += XPBonusWin
		coins += CoinBonusWin
	}

	return domain.GameSummary{
		TotalScore:         totalScore,
		CorrectAnswers:     correct,
		TotalQuestions:     totalQuestions,
		Accuracy:           accuracy,
		AverageTimeSeconds: totalTimeSpent / float64(totalQuestions),
		BestStreak:         bestStreak,
		XPEarned:           xp,
		CoinsEarned:        coins,
		Rank:               RankForAccuracy(accuracy),
	}
}

// RankForAccuracy maps an accuracy percentage to its letter rank.
func RankForAccuracy(accuracy int) domain.Rank {
	for _, t := range RankTable {
		if accuracy >= t.MinAccuracy {
			return t.Rank
		}
	}
	return domain.RankD
}

func roundPercent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}
