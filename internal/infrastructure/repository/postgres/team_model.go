package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
)

type fantasyTeamTableModel struct {
	ID               string       `db:"id"`
	UserID           string       `db:"user_id"`
	ContestID        string       `db:"contest_id"`
	MatchID          string       `db:"match_id"`
	Name             string       `db:"name"`
	TotalPoints      float64      `db:"total_points"`
	Rank             int          `db:"rank"`
	PointsComputedAt sql.NullTime `db:"points_computed_at"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

type fantasyTeamPickTableModel struct {
	TeamID        string `db:"team_id"`
	PlayerID      string `db:"player_id"`
	IsCaptain     bool   `db:"is_captain"`
	IsViceCaptain bool   `db:"is_vice_captain"`
}

func (m fantasyTeamTableModel) toDomain(picks []fantasy.TeamPick) fantasy.Team {
	return fantasy.Team{
		ID:               m.ID,
		UserID:           m.UserID,
		ContestID:        m.ContestID,
		MatchID:          m.MatchID,
		Name:             m.Name,
		Picks:            picks,
		TotalPoints:      m.TotalPoints,
		Rank:             m.Rank,
		PointsComputedAt: nullTimeToPtr(m.PointsComputedAt),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
