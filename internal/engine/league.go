package engine

import "quiz-arena-service/internal/domain"

// LeagueTier pairs a tier with its point floor.
type LeagueTier struct {
	League domain.League
	Floor  int
}

// LeagueTable lists the tiers in ascending floor order.
var LeagueTable = []LeagueTier{
	{League: domain.LeagueBronze, Floor: 0},
	{League: domain.LeagueSilver, Floor: 500},
	{League: domain.LeagueGold, Floor: 1500},
	{League: domain.LeaguePlatinum, Floor: 3000},
	{League: domain.LeagueDiamond, Floor: 5000},
	{League: domain.LeagueLegend, Floor: 10000},
}

// LeagueProgress locates a point total between two tier floors.
type LeagueProgress struct {
	League          domain.League `json:"league"`
	NextLeague      domain.League `json:"nextLeague,omitempty"` // empty at the top tier
	PointsToNext    int           `json:"pointsToNext"`
	ProgressPercent int           `json:"progressPercent"`
}

// LeagueFromPoints returns the highest tier whose floor is at or below
// points, plus progress toward the next tier. At the top tier progress is
// pinned at 100 and NextLeague is empty.
func LeagueFromPoints(points int) LeagueProgress {
	idx := 0
	for i, tier := range LeagueTable {
		if points >= tier.Floor {
			idx = i
		}
	}

	if idx == len(LeagueTable)-1 {
		return LeagueProgress{
			League:          LeagueTable[idx].League,
			ProgressPercent: 100,
		}
	}

	cur := LeagueTable[idx]
	next := LeagueTable[idx+1]
	span := next.Floor - cur.Floor
	return LeagueProgress{
		League:          cur.League,
		NextLeague:      next.League,
		PointsToNext:    next.Floor - points,
		ProgressPercent: roundPercent(points-cur.Floor, span),
	}
}
