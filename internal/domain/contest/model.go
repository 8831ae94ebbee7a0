package contest

import (
	"fmt"
	"strings"
	"time"
)

// Contest is a prize pool scoped to one match. Contests are immutable after
// creation; only the participant count (derived from fantasy teams) changes.
type Contest struct {
	ID             string
	MatchID        string
	Name           string
	EntryFee       int64
	TotalPrizePool int64
	FirstPrize     int64
	SecondPrize    int64
	MaxEntries     int
	CreatedAt      time.Time
}

func (c Contest) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("contest id is required")
	}
	if strings.TrimSpace(c.MatchID) == "" {
		return fmt.Errorf("contest match id is required")
	}
	if c.EntryFee < 0 {
		return fmt.Errorf("entry fee cannot be negative")
	}
	if c.MaxEntries <= 0 {
		return fmt.Errorf("max entries must be greater than zero")
	}
	if c.FirstPrize+c.SecondPrize > c.TotalPrizePool {
		return fmt.Errorf("prize breakdown exceeds total prize pool")
	}
	return nil
}
