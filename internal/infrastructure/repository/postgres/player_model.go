package postgres

import (
	"database/sql"

	"github.com/pitchside/fantasy-cricket/internal/domain/player"
)

type playerTableModel struct {
	ID               string       `db:"id"`
	PlayerRefID      int64        `db:"player_ref_id"`
	MatchID          string       `db:"match_id"`
	Name             string       `db:"name"`
	Role             string       `db:"role"`
	Credits          float64      `db:"credits"`
	IsPlaying        bool         `db:"is_playing"`
	Runs             int          `db:"runs"`
	BallsFaced       int          `db:"balls_faced"`
	Fours            int          `db:"fours"`
	Sixes            int          `db:"sixes"`
	StrikeRate       float64      `db:"strike_rate"`
	OversBowled      float64      `db:"overs_bowled"`
	RunsConceded     int          `db:"runs_conceded"`
	Wickets          int          `db:"wickets"`
	Maidens          int          `db:"maidens"`
	Economy          float64      `db:"economy"`
	FantasyPoints    int          `db:"fantasy_points"`
	PointsComputedAt sql.NullTime `db:"points_computed_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:          m.ID,
		PlayerRefID: m.PlayerRefID,
		MatchID:     m.MatchID,
		Name:        m.Name,
		Role:        player.Role(m.Role),
		Credits:     m.Credits,
		IsPlaying:   m.IsPlaying,
		Stats: player.LiveStats{
			Runs:         m.Runs,
			BallsFaced:   m.BallsFaced,
			Fours:        m.Fours,
			Sixes:        m.Sixes,
			StrikeRate:   m.StrikeRate,
			OversBowled:  m.OversBowled,
			RunsConceded: m.RunsConceded,
			Wickets:      m.Wickets,
			Maidens:      m.Maidens,
			Economy:      m.Economy,
		},
		FantasyPoints:    m.FantasyPoints,
		PointsComputedAt: nullTimeToPtr(m.PointsComputedAt),
	}
}
