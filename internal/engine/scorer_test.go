package engine

import (
	"testing"

	"quiz-arena-service/internal/domain"
)

func TestMissIsAbsorbing(t *testing.T) {
	result := Score(false, domain.DifficultyHard, 12, 10)
	if result.TotalPoints != 0 || result.XPGained != 0 {
		t.Fatalf("expected zero result on miss, got %+v", result)
	}
	if result.Grade != domain.GradeMiss {
		t.Fatalf("expected miss grade, got %s", result.Grade)
	}
	if result.Message == "" {
		t.Fatalf("expected a message even on miss")
	}
}

func TestBasePointsByDifficulty(t *testing.T) {
	cases := []struct {
		difficulty domain.Difficulty
		base       int
	}{
		{domain.DifficultyEasy, 5},
		{domain.DifficultyMedium, 7},
		{domain.DifficultyHard, 10},
	}
	for _, tc := range cases {
		result := Score(true, tc.difficulty, 0, 0)
		if result.BasePoints != tc.base {
			t.Fatalf("%s: expected base %d, got %d", tc.difficulty, tc.base, result.BasePoints)
		}
	}
}

func TestTimeBonusMonotonic(t *testing.T) {
	prev := -1
	for _, remaining := range []float64{0, 3, 6, 9, 12} {
		result := Score(true, domain.DifficultyEasy, remaining, 0)
		if result.TimeBonus < prev {
			t.Fatalf("time bonus decreased at %vs: %d < %d", remaining, result.TimeBonus, prev)
		}
		prev = result.TimeBonus
	}
}

func TestTimeBonusGrades(t *testing.T) {
	cases := []struct {
		remaining float64
		bonus     int
		grade     domain.Grade
	}{
		{12, 5, domain.GradePerfect},
		{10, 5, domain.GradePerfect},
		{8, 3, domain.GradeGreat},
		{5, 1, domain.GradeGood},
		{2, 0, domain.GradeOK},
	}
	for _, tc := range cases {
		result := Score(true, domain.DifficultyEasy, tc.remaining, 0)
		if result.TimeBonus != tc.bonus || result.Grade != tc.grade {
			t.Fatalf("at %vs: expected bonus=%d grade=%s, got bonus=%d grade=%s",
				tc.remaining, tc.bonus, tc.grade, result.TimeBonus, result.Grade)
		}
	}
}

func TestStreakBonusNotCumulative(t *testing.T) {
	result := Score(true, domain.DifficultyEasy, 0, 10)
	if result.StreakBonus != 5 {
		t.Fatalf("expected top-tier bonus 5 at streak 10, got %d", result.StreakBonus)
	}

	cases := map[int]int{0: 0, 2: 0, 3: 1, 4: 1, 5: 2, 7: 3, 9: 3, 11: 5}
	for streak, bonus := range cases {
		result := Score(true, domain.DifficultyEasy, 0, streak)
		if result.StreakBonus != bonus {
			t.Fatalf("streak %d: expected bonus %d, got %d", streak, bonus, result.StreakBonus)
		}
	}
}

func TestXPMilestonesFireOnce(t *testing.T) {
	for streak, xp := range map[int]int{0: 10, 4: 10, 5: 30, 6: 10, 9: 10, 10: 60, 11: 10} {
		result := Score(true, domain.DifficultyEasy, 0, streak)
		if result.XPGained != xp {
			t.Fatalf("streak %d: expected xp %d, got %d", streak, xp, result.XPGained)
		}
	}

	perfect := Score(true, domain.DifficultyEasy, 11, 0)
	if perfect.XPGained != 15 {
		t.Fatalf("expected 15 xp for perfect grade, got %d", perfect.XPGained)
	}
}

// Mirrors a five-question easy game: all correct at 12s remaining with the
// streak building 0 through 4. Base 5 + time bonus 5, streak bonus kicking
// in at a prior streak of 3.
func TestScoreSequenceExample(t *testing.T) {
	expected := []int{10, 10, 10, 11, 11}
	for i, want := range expected {
		result := Score(true, domain.DifficultyEasy, 12, i)
		if result.TotalPoints != want {
			t.Fatalf("answer %d: expected %d points, got %d", i+1, want, result.TotalPoints)
		}
	}
}
