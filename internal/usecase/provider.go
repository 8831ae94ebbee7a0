package usecase

import (
	"context"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
)

// CricketDataProvider is the upstream feed the sync services pull from.
// Implementations return empty results when the upstream has no data for
// the query; that is not an error.
type CricketDataProvider interface {
	FetchMatchesByStatus(ctx context.Context, status match.Status) ([]ExternalMatch, error)
	FetchLiveScorecard(ctx context.Context, matchRefID int64) (ExternalScorecard, error)
	FetchSquads(ctx context.Context, matchRefID int64) ([]ExternalSquadPlayer, error)
}

type ExternalMatch struct {
	RefID      int64
	Title      string
	TeamA      string
	TeamB      string
	Format     string
	Venue      string
	StartsAt   time.Time
	StatusCode int
}

type ExternalSquadPlayer struct {
	RefID     int64
	Name      string
	Role      string
	Credits   float64
	IsPlaying bool
}

// ExternalScorecard carries the live innings state. Batting and bowling
// figures arrive as separate lists; a player bowling after batting
// appears in both.
type ExternalScorecard struct {
	Batsmen []ExternalBattingStat
	Bowlers []ExternalBowlingStat
}

func (s ExternalScorecard) Empty() bool {
	return len(s.Batsmen) == 0 && len(s.Bowlers) == 0
}

type ExternalBattingStat struct {
	PlayerRefID int64
	Runs        int
	BallsFaced  int
	Fours       int
	Sixes       int
	StrikeRate  float64
}

type ExternalBowlingStat struct {
	PlayerRefID  int64
	OversBowled  float64
	RunsConceded int
	Wickets      int
	Maidens      int
	Economy      float64
}
