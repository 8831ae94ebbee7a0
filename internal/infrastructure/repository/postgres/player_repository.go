package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	qb "github.com/pitchside/fantasy-cricket/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListByMatch(ctx context.Context, matchID string) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by match query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by match: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) GetByMatchAndIDs(ctx context.Context, matchID string, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select("*").From("players").
		Where(
			qb.Eq("match_id", matchID),
			qb.In("id", stringSliceToAny(playerIDs)),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// BulkUpsert writes squad players keyed by (match_id, player_ref_id).
// Known players keep their row id, credits and accumulated stats; only
// the roster facts refresh on re-import.
func (r *PlayerRepository) BulkUpsert(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for player upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO players (id, player_ref_id, match_id, name, role, credits, is_playing)
VALUES (:id, :player_ref_id, :match_id, :name, :role, :credits, :is_playing)
ON CONFLICT (match_id, player_ref_id)
DO UPDATE SET
    name = EXCLUDED.name,
    role = EXCLUDED.role,
    is_playing = EXCLUDED.is_playing`

	for _, p := range players {
		upsertSQL, upsertArgs, err := sqlx.Named(upsertQuery, map[string]any{
			"id":            p.ID,
			"player_ref_id": p.PlayerRefID,
			"match_id":      p.MatchID,
			"name":          p.Name,
			"role":          string(p.Role),
			"credits":       p.Credits,
			"is_playing":    p.IsPlaying,
		})
		if err != nil {
			return fmt.Errorf("bind upsert player ref_id=%d query: %w", p.PlayerRefID, err)
		}
		upsertSQL = tx.Rebind(upsertSQL)
		if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
			return fmt.Errorf("upsert player ref_id=%d: %w", p.PlayerRefID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit player upsert tx: %w", err)
	}
	return nil
}

// BulkUpdateStats writes refreshed stats and recomputed points. Unknown
// player ids are skipped; the applied row count comes back to the caller.
func (r *PlayerRepository) BulkUpdateStats(ctx context.Context, updates []player.StatsUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx for player stats update: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	applied := 0
	for _, u := range updates {
		query, args, err := qb.Update("players").
			Set("runs", u.Stats.Runs).
			Set("balls_faced", u.Stats.BallsFaced).
			Set("fours", u.Stats.Fours).
			Set("sixes", u.Stats.Sixes).
			Set("strike_rate", u.Stats.StrikeRate).
			Set("overs_bowled", u.Stats.OversBowled).
			Set("runs_conceded", u.Stats.RunsConceded).
			Set("wickets", u.Stats.Wickets).
			Set("maidens", u.Stats.Maidens).
			Set("economy", u.Stats.Economy).
			Set("fantasy_points", u.FantasyPoints).
			SetExpr("points_computed_at", "NOW()").
			Where(
				qb.Eq("id", u.PlayerID),
				qb.Eq("match_id", u.MatchID),
			).
			ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build update player stats query: %w", err)
		}

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("update player stats id=%s: %w", u.PlayerID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("count updated player stats: %w", err)
		}
		applied += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit player stats update tx: %w", err)
	}
	return applied, nil
}
