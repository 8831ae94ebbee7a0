package player

import "context"

// StatsUpdate carries one player's refreshed stats and recomputed points
// for a bulk write.
type StatsUpdate struct {
	PlayerID      string
	MatchID       string
	Stats         LiveStats
	FantasyPoints int
}

// Repository describes player persistence needs from use cases.
// BulkUpdateStats may succeed partially; it returns the number of rows
// actually written.
type Repository interface {
	ListByMatch(ctx context.Context, matchID string) ([]Player, error)
	GetByMatchAndIDs(ctx context.Context, matchID string, playerIDs []string) ([]Player, error)
	BulkUpsert(ctx context.Context, players []Player) error
	BulkUpdateStats(ctx context.Context, updates []StatsUpdate) (int, error)
}
