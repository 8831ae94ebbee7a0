package fantasy

import "sort"

// Standings orders teams by total points descending and assigns ranks.
// Ties break on earliest creation time, then team ID, so repeated runs
// over the same data produce identical orderings. Ranks are positional:
// equal totals still get distinct ranks.
func Standings(teams []Team) []Team {
	ranked := make([]Team, len(teams))
	copy(ranked, teams)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalPoints != ranked[j].TotalPoints {
			return ranked[i].TotalPoints > ranked[j].TotalPoints
		}
		if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
			return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
		}
		return ranked[i].ID < ranked[j].ID
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
