package fantasy

import (
	"context"
	"time"
)

// ScoreUpdate carries a recomputed team total ready for persistence.
type ScoreUpdate struct {
	TeamID      string
	TotalPoints float64
	Rank        int
	ComputedAt  time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Team, error)
	ListByUserContestMatch(ctx context.Context, userID, contestID, matchID string) ([]Team, error)
	ListByMatch(ctx context.Context, matchID string) ([]Team, error)
	ListByContest(ctx context.Context, contestID string) ([]Team, error)
	CountByUserContestMatch(ctx context.Context, userID, contestID, matchID string) (int, error)
	Create(ctx context.Context, team *Team) error
	UpdatePicks(ctx context.Context, team *Team) error
	UpdateScores(ctx context.Context, updates []ScoreUpdate) (int, error)
	Delete(ctx context.Context, id string) error
}
