package engine

import (
	"math/rand"

	"quiz-arena-service/internal/domain"
)

// BasePoints is the per-difficulty base award for a correct answer.
var BasePoints = map[domain.Difficulty]int{
	domain.DifficultyEasy:   5,
	domain.DifficultyMedium: 7,
	domain.DifficultyHard:   10,
}

// TimeBonusTier maps a minimum remaining time to a bonus and grade.
type TimeBonusTier struct {
	MinSeconds float64
	Bonus      int
	Grade      domain.Grade
}

// TimeBonusTable is checked top-down; the first satisfied tier wins.
// A correct answer slower than every tier is graded ok with no bonus.
var TimeBonusTable = []TimeBonusTier{
	{MinSeconds: 10, Bonus: 5, Grade: domain.GradePerfect},
	{MinSeconds: 7, Bonus: 3, Grade: domain.GradeGreat},
	{MinSeconds: 4, Bonus: 1, Grade: domain.GradeGood},
}

// StreakBonusTier maps a minimum streak to a bonus.
type StreakBonusTier struct {
	MinStreak int
	Bonus     int
}

// StreakBonusTable is checked top-down; the highest satisfied tier wins,
// bonuses are not cumulative.
var StreakBonusTable = []StreakBonusTier{
	{MinStreak: 10, Bonus: 5},
	{MinStreak: 7, Bonus: 3},
	{MinStreak: 5, Bonus: 2},
	{MinStreak: 3, Bonus: 1},
}

// XP awards per answer. Streak milestones pay out once, at exactly 5 and 10.
const (
	XPPerAnswer        = 10
	XPPerfectAnswer    = 15
	XPStreakMilestone5 = 20
	XPStreakMilestone  = 50
)

var gradeMessages = map[domain.Grade][]string{
	domain.GradePerfect: {"Lightning fast!", "Perfect timing!", "Unstoppable!"},
	domain.GradeGreat:   {"Great answer!", "Quick thinking!", "Nice one!"},
	domain.GradeGood:    {"Good job!", "Correct!", "Keep it up!"},
	domain.GradeOK:      {"Just in time!", "That counts!", "Phew, got it!"},
	domain.GradeMiss:    {"Not this time.", "Missed it!", "Better luck next question."},
}

// Score converts one answer event into points, XP and a grade.
// Callers clamp timeRemaining at 0 before calling; a miss yields the
// all-zero result regardless of the other inputs.
func Score(isCorrect bool, difficulty domain.Difficulty, timeRemaining float64, currentStreak int) domain.ScoreResult {
	if !isCorrect {
		return domain.ScoreResult{
			Grade:   domain.GradeMiss,
			Message: pickMessage(domain.GradeMiss),
		}
	}

	base := BasePoints[difficulty]

	timeBonus := 0
	grade := domain.GradeOK
	for _, tier := range TimeBonusTable {
		if timeRemaining >= tier.MinSeconds {
			timeBonus = tier.Bonus
			grade = tier.Grade
			break
		}
	}

	streakBonus := 0
	for _, tier := range StreakBonusTable {
		if currentStreak >= tier.MinStreak {
			streakBonus = tier.Bonus
			break
		}
	}

	xp := XPPerAnswer
	if grade == domain.GradePerfect {
		xp = XPPerfectAnswer
	}
	switch currentStreak {
	case 5:
		xp += XPStreakMilestone5
	case 10:
		xp += XPStreakMilestone
	}

	return domain.ScoreResult{
		BasePoints:  base,
		TimeBonus:   timeBonus,
		StreakBonus: streakBonus,
		TotalPoints: base + timeBonus + streakBonus,
		XPGained:    xp,
		Grade:       grade,
		Message:     pickMessage(grade),
	}
}

func pickMessage(grade domain.Grade) string {
	msgs := gradeMessages[grade]
	return msgs[rand.Intn(len(msgs))]
}
