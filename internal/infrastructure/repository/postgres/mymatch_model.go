package postgres

import (
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
)

type trackedMatchTableModel struct {
	UserID     string    `db:"user_id"`
	MatchID    string    `db:"match_id"`
	MatchRefID int64     `db:"match_ref_id"`
	Title      string    `db:"title"`
	TeamA      string    `db:"team_a"`
	TeamB      string    `db:"team_b"`
	Format     string    `db:"format"`
	Venue      string    `db:"venue"`
	StartsAt   time.Time `db:"starts_at"`
	Status     int       `db:"status"`
	AddedAt    time.Time `db:"added_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m trackedMatchTableModel) toDomain() mymatch.TrackedMatch {
	return mymatch.TrackedMatch{
		UserID:     m.UserID,
		MatchID:    m.MatchID,
		MatchRefID: m.MatchRefID,
		Title:      m.Title,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		Format:     m.Format,
		Venue:      m.Venue,
		StartsAt:   m.StartsAt,
		Status:     match.Status(m.Status),
		AddedAt:    m.AddedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
