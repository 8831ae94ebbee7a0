package mymatch

import (
	"context"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
)

// Repository exposes tracked-match persistence. UpdateFromMatch is
// update-only: rows exist only after Add, and the sync job must never
// create them.
type Repository interface {
	Add(ctx context.Context, item TrackedMatch) error
	ListByUser(ctx context.Context, userID string) ([]TrackedMatch, error)
	UpdateFromMatch(ctx context.Context, m match.Match) (int, error)
}
