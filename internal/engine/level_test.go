package engine

import "testing"

func TestLevelCostGrowth(t *testing.T) {
	if LevelCost(1) != 100 {
		t.Fatalf("expected level 1 to cost 100, got %d", LevelCost(1))
	}
	if LevelCost(2) != 150 {
		t.Fatalf("expected level 2 to cost 150, got %d", LevelCost(2))
	}
	if LevelCost(3) != 225 {
		t.Fatalf("expected level 3 to cost 225, got %d", LevelCost(3))
	}
}

func TestLevelFromTotalXP(t *testing.T) {
	cases := []struct {
		totalXP   int
		level     int
		currentXP int
	}{
		{0, 1, 0},
		{99, 1, 99},
		{100, 2, 0},
		{249, 2, 149},
		{250, 3, 0},
		{475, 4, 0},
	}
	for _, tc := range cases {
		got := LevelFromTotalXP(tc.totalXP)
		if got.Level != tc.level || got.CurrentXP != tc.currentXP {
			t.Fatalf("xp %d: expected level %d / current %d, got %d / %d",
				tc.totalXP, tc.level, tc.currentXP, got.Level, got.CurrentXP)
		}
		if got.XPToNext != LevelCost(got.Level) {
			t.Fatalf("xp %d: xpToNext %d does not match cost of level %d", tc.totalXP, got.XPToNext, got.Level)
		}
	}
}

// Reconstructing totalXp from the level decomposition must give back the
// original amount.
func TestLevelRoundTrip(t *testing.T) {
	for _, totalXP := range []int{0, 1, 99, 100, 101, 475, 1234, 98765, 10_000_000} {
		got := LevelFromTotalXP(totalXP)
		sum := got.CurrentXP
		for n := 1; n < got.Level; n++ {
			sum += LevelCost(n)
		}
		if sum != totalXP {
			t.Fatalf("round trip failed for %d: reconstructed %d", totalXP, sum)
		}
		if got.CurrentXP < 0 || got.CurrentXP >= got.XPToNext {
			t.Fatalf("current xp %d out of [0, %d) for total %d", got.CurrentXP, got.XPToNext, totalXP)
		}
	}
}

func TestLevelMonotonic(t *testing.T) {
	prev := 0
	for totalXP := 0; totalXP <= 20000; totalXP += 37 {
		level := LevelFromTotalXP(totalXP).Level
		if level < prev {
			t.Fatalf("level decreased at xp %d: %d < %d", totalXP, level, prev)
		}
		prev = level
	}
}

// Even absurd XP amounts must terminate quickly: the cost curve is
// geometric, so the loop runs a bounded number of iterations.
func TestLevelTerminatesOnHugeXP(t *testing.T) {
	got := LevelFromTotalXP(1 << 50)
	if got.Level < 60 {
		t.Fatalf("expected a very high level for 2^50 xp, got %d", got.Level)
	}
}
