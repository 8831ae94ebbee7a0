package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	qb "github.com/pitchside/fantasy-cricket/internal/platform/querybuilder"
)

type MyMatchRepository struct {
	db *sqlx.DB
}

func NewMyMatchRepository(db *sqlx.DB) *MyMatchRepository {
	return &MyMatchRepository{db: db}
}

// Add inserts a tracked row for the user. Re-tracking the same match
// refreshes the snapshot fields but keeps the original added_at.
func (r *MyMatchRepository) Add(ctx context.Context, item mymatch.TrackedMatch) error {
	const upsertQuery = `
INSERT INTO tracked_matches (user_id, match_id, match_ref_id, title, team_a, team_b, format, venue, starts_at, status, added_at, updated_at)
VALUES (:user_id, :match_id, :match_ref_id, :title, :team_a, :team_b, :format, :venue, :starts_at, :status, :added_at, :updated_at)
ON CONFLICT (user_id, match_id)
DO UPDATE SET
    match_ref_id = EXCLUDED.match_ref_id,
    title = EXCLUDED.title,
    team_a = EXCLUDED.team_a,
    team_b = EXCLUDED.team_b,
    format = EXCLUDED.format,
    venue = EXCLUDED.venue,
    starts_at = EXCLUDED.starts_at,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

	upsertSQL, upsertArgs, err := sqlx.Named(upsertQuery, map[string]any{
		"user_id":      item.UserID,
		"match_id":     item.MatchID,
		"match_ref_id": item.MatchRefID,
		"title":        item.Title,
		"team_a":       item.TeamA,
		"team_b":       item.TeamB,
		"format":       item.Format,
		"venue":        item.Venue,
		"starts_at":    item.StartsAt,
		"status":       int(item.Status),
		"added_at":     item.AddedAt,
		"updated_at":   item.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert tracked match query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)
	if _, err := r.db.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
		return fmt.Errorf("upsert tracked match user=%s match=%s: %w", item.UserID, item.MatchID, err)
	}
	return nil
}

func (r *MyMatchRepository) ListByUser(ctx context.Context, userID string) ([]mymatch.TrackedMatch, error) {
	query, args, err := qb.Select("*").From("tracked_matches").
		Where(qb.Eq("user_id", userID)).
		OrderBy("starts_at", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tracked matches query: %w", err)
	}

	var rows []trackedMatchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tracked matches: %w", err)
	}

	out := make([]mymatch.TrackedMatch, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpdateFromMatch refreshes every tracked row that points at the match's
// provider ref id. It never inserts; tracking is always a user action.
func (r *MyMatchRepository) UpdateFromMatch(ctx context.Context, m match.Match) (int, error) {
	query, args, err := qb.Update("tracked_matches").
		Set("match_id", m.ID).
		Set("title", m.Title).
		Set("team_a", m.TeamA).
		Set("team_b", m.TeamB).
		Set("format", m.Format).
		Set("venue", m.Venue).
		Set("starts_at", m.StartsAt).
		Set("status", int(m.Status)).
		Set("updated_at", m.UpdatedAt).
		Where(qb.Eq("match_ref_id", m.MatchRefID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build update tracked matches query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update tracked matches ref_id=%d: %w", m.MatchRefID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count updated tracked matches: %w", err)
	}
	return int(affected), nil
}
