package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	qb "github.com/pitchside/fantasy-cricket/internal/platform/querybuilder"
)

type ContestRepository struct {
	db *sqlx.DB
}

func NewContestRepository(db *sqlx.DB) *ContestRepository {
	return &ContestRepository{db: db}
}

func (r *ContestRepository) GetByID(ctx context.Context, contestID string) (*contest.Contest, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(qb.Eq("id", contestID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select contest by id query: %w", err)
	}

	var row contestTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select contest by id: %w", err)
	}
	c := row.toDomain()
	return &c, nil
}

func (r *ContestRepository) ListByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	query, args, err := qb.Select("*").From("contests").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("entry_fee", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select contests by match query: %w", err)
	}

	var rows []contestTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select contests by match: %w", err)
	}

	out := make([]contest.Contest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ContestRepository) Create(ctx context.Context, item *contest.Contest) error {
	query, args, err := qb.InsertInto("contests").
		Columns("id", "match_id", "name", "entry_fee", "total_prize_pool", "first_prize", "second_prize", "max_entries", "created_at").
		Values(item.ID, item.MatchID, item.Name, item.EntryFee, item.TotalPrizePool, item.FirstPrize, item.SecondPrize, item.MaxEntries, item.CreatedAt).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert contest query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert contest id=%s: %w", item.ID, err)
	}
	return nil
}
