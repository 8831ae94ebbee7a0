package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

func (h *Handler) decodeRequest(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(r.Context(), target); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type createContestRequest struct {
	MatchID        string `json:"match_id" validate:"required"`
	Name           string `json:"name" validate:"required,max=120"`
	EntryFee       int64  `json:"entry_fee" validate:"min=0"`
	TotalPrizePool int64  `json:"total_prize_pool" validate:"min=0"`
	FirstPrize     int64  `json:"first_prize" validate:"min=0"`
	SecondPrize    int64  `json:"second_prize" validate:"min=0"`
	MaxEntries     int    `json:"max_entries" validate:"required,min=1"`
}

type trackMatchRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

type teamPickRequest struct {
	PlayerID      string `json:"player_id" validate:"required"`
	IsCaptain     bool   `json:"is_captain"`
	IsViceCaptain bool   `json:"is_vice_captain"`
}

type createTeamRequest struct {
	ContestID string            `json:"contest_id" validate:"required"`
	MatchID   string            `json:"match_id" validate:"required"`
	Name      string            `json:"name" validate:"omitempty,max=100"`
	Picks     []teamPickRequest `json:"picks" validate:"required,len=11,dive"`
}

type updateTeamRequest struct {
	Picks []teamPickRequest `json:"picks" validate:"required,len=11,dive"`
}

type matchDTO struct {
	ID         string    `json:"id"`
	MatchRefID int64     `json:"match_ref_id"`
	Title      string    `json:"title"`
	TeamA      string    `json:"team_a"`
	TeamB      string    `json:"team_b"`
	Format     string    `json:"format"`
	Venue      string    `json:"venue"`
	StartsAt   time.Time `json:"starts_at"`
	Status     int       `json:"status"`
	StatusName string    `json:"status_name"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:         m.ID,
		MatchRefID: m.MatchRefID,
		Title:      m.Title,
		TeamA:      m.TeamA,
		TeamB:      m.TeamB,
		Format:     m.Format,
		Venue:      m.Venue,
		StartsAt:   m.StartsAt,
		Status:     int(m.Status),
		StatusName: m.Status.String(),
	}
}

type playerStatsDTO struct {
	Runs         int     `json:"runs"`
	BallsFaced   int     `json:"balls_faced"`
	Fours        int     `json:"fours"`
	Sixes        int     `json:"sixes"`
	StrikeRate   float64 `json:"strike_rate"`
	OversBowled  float64 `json:"overs_bowled"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Maidens      int     `json:"maidens"`
	Economy      float64 `json:"economy"`
}

type playerDTO struct {
	ID               string         `json:"id"`
	PlayerRefID      int64          `json:"player_ref_id"`
	MatchID          string         `json:"match_id"`
	Name             string         `json:"name"`
	Role             string         `json:"role"`
	Credits          float64        `json:"credits"`
	IsPlaying        bool           `json:"is_playing"`
	Stats            playerStatsDTO `json:"stats"`
	FantasyPoints    int            `json:"fantasy_points"`
	PointsComputedAt *time.Time     `json:"points_computed_at,omitempty"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		PlayerRefID: p.PlayerRefID,
		MatchID:     p.MatchID,
		Name:        p.Name,
		Role:        string(p.Role),
		Credits:     p.Credits,
		IsPlaying:   p.IsPlaying,
		Stats: playerStatsDTO{
			Runs:         p.Stats.Runs,
			BallsFaced:   p.Stats.BallsFaced,
			Fours:        p.Stats.Fours,
			Sixes:        p.Stats.Sixes,
			StrikeRate:   p.Stats.StrikeRate,
			OversBowled:  p.Stats.OversBowled,
			RunsConceded: p.Stats.RunsConceded,
			Wickets:      p.Stats.Wickets,
			Maidens:      p.Stats.Maidens,
			Economy:      p.Stats.Economy,
		},
		FantasyPoints:    p.FantasyPoints,
		PointsComputedAt: p.PointsComputedAt,
	}
}

type contestDTO struct {
	ID             string    `json:"id"`
	MatchID        string    `json:"match_id"`
	Name           string    `json:"name"`
	EntryFee       int64     `json:"entry_fee"`
	TotalPrizePool int64     `json:"total_prize_pool"`
	FirstPrize     int64     `json:"first_prize"`
	SecondPrize    int64     `json:"second_prize"`
	MaxEntries     int       `json:"max_entries"`
	CreatedAt      time.Time `json:"created_at"`
}

func contestToDTO(c contest.Contest) contestDTO {
	return contestDTO{
		ID:             c.ID,
		MatchID:        c.MatchID,
		Name:           c.Name,
		EntryFee:       c.EntryFee,
		TotalPrizePool: c.TotalPrizePool,
		FirstPrize:     c.FirstPrize,
		SecondPrize:    c.SecondPrize,
		MaxEntries:     c.MaxEntries,
		CreatedAt:      c.CreatedAt,
	}
}

type trackedMatchDTO struct {
	MatchID    string    `json:"match_id"`
	MatchRefID int64     `json:"match_ref_id"`
	Title      string    `json:"title"`
	TeamA      string    `json:"team_a"`
	TeamB      string    `json:"team_b"`
	Format     string    `json:"format"`
	Venue      string    `json:"venue"`
	StartsAt   time.Time `json:"starts_at"`
	Status     int       `json:"status"`
	StatusName string    `json:"status_name"`
	AddedAt    time.Time `json:"added_at"`
}

func trackedMatchToDTO(t mymatch.TrackedMatch) trackedMatchDTO {
	return trackedMatchDTO{
		MatchID:    t.MatchID,
		MatchRefID: t.MatchRefID,
		Title:      t.Title,
		TeamA:      t.TeamA,
		TeamB:      t.TeamB,
		Format:     t.Format,
		Venue:      t.Venue,
		StartsAt:   t.StartsAt,
		Status:     int(t.Status),
		StatusName: t.Status.String(),
		AddedAt:    t.AddedAt,
	}
}

type teamPickDTO struct {
	PlayerID      string `json:"player_id"`
	IsCaptain     bool   `json:"is_captain"`
	IsViceCaptain bool   `json:"is_vice_captain"`
}

type teamDTO struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	ContestID        string        `json:"contest_id"`
	MatchID          string        `json:"match_id"`
	Name             string        `json:"name"`
	Picks            []teamPickDTO `json:"picks"`
	TotalPoints      float64       `json:"total_points"`
	Rank             int           `json:"rank"`
	PointsComputedAt *time.Time    `json:"points_computed_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func teamToDTO(t fantasy.Team) teamDTO {
	picks := make([]teamPickDTO, 0, len(t.Picks))
	for _, pick := range t.Picks {
		picks = append(picks, teamPickDTO{
			PlayerID:      pick.PlayerID,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}
	return teamDTO{
		ID:               t.ID,
		UserID:           t.UserID,
		ContestID:        t.ContestID,
		MatchID:          t.MatchID,
		Name:             t.Name,
		Picks:            picks,
		TotalPoints:      t.TotalPoints,
		Rank:             t.Rank,
		PointsComputedAt: t.PointsComputedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type leaderboardRowDTO struct {
	Rank        int     `json:"rank"`
	TeamID      string  `json:"team_id"`
	TeamName    string  `json:"team_name"`
	UserID      string  `json:"user_id"`
	TotalPoints float64 `json:"total_points"`
}

type entryCheckDTO struct {
	Existing  int  `json:"existing"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	CanCreate bool `json:"can_create"`
}

func toPickInputs(picks []teamPickRequest) []usecase.PickInput {
	out := make([]usecase.PickInput, 0, len(picks))
	for _, pick := range picks {
		out = append(out, usecase.PickInput{
			PlayerID:      pick.PlayerID,
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}
	return out
}
