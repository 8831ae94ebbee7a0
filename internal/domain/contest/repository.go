package contest

import "context"

// Repository describes contest persistence needs from use cases.
// GetByID returns a nil contest when no row exists.
type Repository interface {
	GetByID(ctx context.Context, contestID string) (*Contest, error)
	ListByMatch(ctx context.Context, matchID string) ([]Contest, error)
	Create(ctx context.Context, item *Contest) error
}
