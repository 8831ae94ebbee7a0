package postgres

import (
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
)

type contestTableModel struct {
	ID             string    `db:"id"`
	MatchID        string    `db:"match_id"`
	Name           string    `db:"name"`
	EntryFee       int64     `db:"entry_fee"`
	TotalPrizePool int64     `db:"total_prize_pool"`
	FirstPrize     int64     `db:"first_prize"`
	SecondPrize    int64     `db:"second_prize"`
	MaxEntries     int       `db:"max_entries"`
	CreatedAt      time.Time `db:"created_at"`
}

func (m contestTableModel) toDomain() contest.Contest {
	return contest.Contest{
		ID:             m.ID,
		MatchID:        m.MatchID,
		Name:           m.Name,
		EntryFee:       m.EntryFee,
		TotalPrizePool: m.TotalPrizePool,
		FirstPrize:     m.FirstPrize,
		SecondPrize:    m.SecondPrize,
		MaxEntries:     m.MaxEntries,
		CreatedAt:      m.CreatedAt,
	}
}
