package engine

import "math"

// Level growth: completing level N costs floor(100 * 1.5^(N-1)) XP, so each
// level costs 50% more than the previous one.
const (
	levelBaseCost   = 100
	levelGrowthRate = 1.5
)

// LevelProgress locates a total-XP amount on the level curve.
type LevelProgress struct {
	Level           int `json:"level"`
	CurrentXP       int `json:"currentXp"`
	XPToNext        int `json:"xpToNext"`
	ProgressPercent int `json:"progressPercent"`
}

// LevelCost is the XP required to complete level n.
func LevelCost(n int) int {
	return int(math.Floor(levelBaseCost * math.Pow(levelGrowthRate, float64(n-1))))
}

// LevelFromTotalXP converts lifetime XP into a level plus progress toward the
// next one. The loop is bounded: costs grow geometrically, so any int64 XP
// amount is consumed within ~100 iterations.
func LevelFromTotalXP(totalXP int) LevelProgress {
	level := 1
	remaining := totalXP
	for remaining >= LevelCost(level) {
		remaining -= LevelCost(level)
		level++
	}
	toNext := LevelCost(level)
	return LevelProgress{
		Level:           level,
		CurrentXP:       remaining,
		XPToNext:        toNext,
		ProgressPercent: roundPercent(remaining, toNext),
	}
}
