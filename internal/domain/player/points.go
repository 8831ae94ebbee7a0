package player

const (
	pointsPerRun    = 1
	pointsPerFour   = 1
	pointsPerSix    = 2
	pointsPerWicket = 25
	pointsPerMaiden = 12
)

// ComputePoints converts raw match statistics into fantasy points. It is a
// pure function: zero involvement yields zero points, and the result is
// never negative.
func ComputePoints(stats LiveStats) int {
	points := stats.Runs*pointsPerRun +
		stats.Fours*pointsPerFour +
		stats.Sixes*pointsPerSix +
		stats.Wickets*pointsPerWicket +
		stats.Maidens*pointsPerMaiden
	if points < 0 {
		return 0
	}
	return points
}
