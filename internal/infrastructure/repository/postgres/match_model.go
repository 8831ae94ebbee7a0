package postgres

import (
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
)

type matchTableModel struct {
	ID         string    `db:"id"`
	MatchRefID int64     `db:"match_ref_id"`
	Title      string    `db:"title"`
	TeamA      string    `db:"team_a"`
	TeamB      string    `db:"team_b"`
	Format     string    `db:"format"`
	Venue      string    `db:"venue"`
	StartsAt   time.Time `db:"starts_at"`
	Status     int       `db:"status"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:         m.ID,
		MatchRefID: m.MatchRefID,
		Title:      m.Title,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		Format:     m.Format,
		Venue:      m.Venue,
		StartsAt:   m.StartsAt,
		Status:     match.Status(m.Status),
		UpdatedAt:  m.UpdatedAt,
	}
}
