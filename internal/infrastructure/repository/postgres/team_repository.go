package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	qb "github.com/pitchside/fantasy-cricket/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*fantasy.Team, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team by id query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select team by id: %w", err)
	}

	picksByTeam, err := r.loadPicks(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}
	team := row.toDomain(picksByTeam[row.ID])
	return &team, nil
}

func (r *TeamRepository) ListByUserContestMatch(ctx context.Context, userID, contestID, matchID string) ([]fantasy.Team, error) {
	return r.list(ctx,
		qb.Eq("user_id", userID),
		qb.Eq("contest_id", contestID),
		qb.Eq("match_id", matchID),
	)
}

func (r *TeamRepository) ListByMatch(ctx context.Context, matchID string) ([]fantasy.Team, error) {
	return r.list(ctx, qb.Eq("match_id", matchID))
}

func (r *TeamRepository) ListByContest(ctx context.Context, contestID string) ([]fantasy.Team, error) {
	return r.list(ctx, qb.Eq("contest_id", contestID))
}

func (r *TeamRepository) CountByUserContestMatch(ctx context.Context, userID, contestID, matchID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("fantasy_teams").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("contest_id", contestID),
			qb.Eq("match_id", matchID),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return count, nil
}

func (r *TeamRepository) Create(ctx context.Context, team *fantasy.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertInto("fantasy_teams").
		Columns("id", "user_id", "contest_id", "match_id", "name", "total_points", "rank", "points_computed_at", "created_at", "updated_at").
		Values(team.ID, team.UserID, team.ContestID, team.MatchID, team.Name, team.TotalPoints, team.Rank, ptrToNullTime(team.PointsComputedAt), team.CreatedAt, team.UpdatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team id=%s: %w", team.ID, err)
	}

	if err := insertPicksTx(ctx, tx, team.ID, team.Picks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team create tx: %w", err)
	}
	return nil
}

// UpdatePicks replaces the roster and name of an existing team. Score
// projections are untouched; the next recompute refreshes them.
func (r *TeamRepository) UpdatePicks(ctx context.Context, team *fantasy.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.Update("fantasy_teams").
		Set("name", team.Name).
		Set("updated_at", team.UpdatedAt).
		Where(qb.Eq("id", team.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team id=%s: %w", team.ID, err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("fantasy_team_picks").
		Where(qb.Eq("team_id", team.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete team picks id=%s: %w", team.ID, err)
	}

	if err := insertPicksTx(ctx, tx, team.ID, team.Picks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team update tx: %w", err)
	}
	return nil
}

// UpdateScores applies recomputed totals and ranks. Unknown team ids are
// skipped; the applied row count comes back to the caller.
func (r *TeamRepository) UpdateScores(ctx context.Context, updates []fantasy.ScoreUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx for team score update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	applied := 0
	for _, u := range updates {
		query, args, err := qb.Update("fantasy_teams").
			Set("total_points", u.TotalPoints).
			Set("rank", u.Rank).
			Set("points_computed_at", u.ComputedAt).
			Where(qb.Eq("id", u.TeamID)).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build update team score query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("update team score id=%s: %w", u.TeamID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("count updated team scores: %w", err)
		}
		applied += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit team score update tx: %w", err)
	}
	return applied, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("fantasy_team_picks").
		Where(qb.Eq("team_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team picks query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete team picks id=%s: %w", id, err)
	}

	teamQuery, teamArgs, err := qb.DeleteFrom("fantasy_teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, teamQuery, teamArgs...); err != nil {
		return fmt.Errorf("delete team id=%s: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team delete tx: %w", err)
	}
	return nil
}

func (r *TeamRepository) list(ctx context.Context, conditions ...qb.Condition) ([]fantasy.Team, error) {
	query, args, err := qb.Select("*").From("fantasy_teams").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []fantasyTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	if len(rows) == 0 {
		return []fantasy.Team{}, nil
	}

	teamIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		teamIDs = append(teamIDs, row.ID)
	}
	picksByTeam, err := r.loadPicks(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	out := make([]fantasy.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(picksByTeam[row.ID]))
	}
	return out, nil
}

func (r *TeamRepository) loadPicks(ctx context.Context, teamIDs []string) (map[string][]fantasy.TeamPick, error) {
	query, args, err := qb.Select("*").From("fantasy_team_picks").
		Where(qb.In("team_id", stringSliceToAny(teamIDs))).
		OrderBy("team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team picks query: %w", err)
	}

	var rows []fantasyTeamPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team picks: %w", err)
	}

	out := make(map[string][]fantasy.TeamPick, len(teamIDs))
	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], fantasy.TeamPick{
			PlayerID:      row.PlayerID,
			IsCaptain:     row.IsCaptain,
			IsViceCaptain: row.IsViceCaptain,
		})
	}
	return out, nil
}

func insertPicksTx(ctx context.Context, tx *sqlx.Tx, teamID string, picks []fantasy.TeamPick) error {
	for _, pick := range picks {
		query, args, err := qb.InsertInto("fantasy_team_picks").
			Columns("team_id", "player_id", "is_captain", "is_vice_captain").
			Values(teamID, pick.PlayerID, pick.IsCaptain, pick.IsViceCaptain).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build insert team pick query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert team pick player=%s: %w", pick.PlayerID, err)
		}
	}
	return nil
}
