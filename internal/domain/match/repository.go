package match

import "context"

// Repository describes match persistence needs from use cases. The
// getters return a nil match when no row exists.
type Repository interface {
	GetByID(ctx context.Context, matchID string) (*Match, error)
	GetByRefID(ctx context.Context, matchRefID int64) (*Match, error)
	ListByStatus(ctx context.Context, status Status) ([]Match, error)
	Upsert(ctx context.Context, matches []Match) error
}
