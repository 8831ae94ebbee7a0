package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	qb "github.com/pitchside/fantasy-cricket/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select match by id: %w", err)
	}
	m := row.toDomain()
	return &m, nil
}

func (r *MatchRepository) GetByRefID(ctx context.Context, matchRefID int64) (*match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("match_ref_id", matchRefID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match by ref id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select match by ref id: %w", err)
	}
	m := row.toDomain()
	return &m, nil
}

func (r *MatchRepository) ListByStatus(ctx context.Context, status match.Status) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("status", int(status))).
		OrderBy("starts_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by status query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by status: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert writes matches keyed by the provider's ref id. A known ref id
// keeps its local row id so downstream references stay valid.
func (r *MatchRepository) Upsert(ctx context.Context, matches []match.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for match upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertQuery = `
INSERT INTO matches (id, match_ref_id, title, team_a, team_b, format, venue, starts_at, status, updated_at)
VALUES (:id, :match_ref_id, :title, :team_a, :team_b, :format, :venue, :starts_at, :status, :updated_at)
ON CONFLICT (match_ref_id)
DO UPDATE SET
    title = EXCLUDED.title,
    team_a = EXCLUDED.team_a,
    team_b = EXCLUDED.team_b,
    format = EXCLUDED.format,
    venue = EXCLUDED.venue,
    starts_at = EXCLUDED.starts_at,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`

	for _, m := range matches {
		upsertSQL, upsertArgs, err := sqlx.Named(upsertQuery, map[string]any{
			"id":           m.ID,
			"match_ref_id": m.MatchRefID,
			"title":        m.Title,
			"team_a":       m.TeamA,
			"team_b":       m.TeamB,
			"format":       m.Format,
			"venue":        m.Venue,
			"starts_at":    m.StartsAt,
			"status":       int(m.Status),
			"updated_at":   m.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("bind upsert match ref_id=%d query: %w", m.MatchRefID, err)
		}
		upsertSQL = tx.Rebind(upsertSQL)
		if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
			return fmt.Errorf("upsert match ref_id=%d: %w", m.MatchRefID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit match upsert tx: %w", err)
	}
	return nil
}
