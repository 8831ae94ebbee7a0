package memory

import (
	"context"
	"sync"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
)

type MyMatchRepository struct {
	mu     sync.RWMutex
	byUser map[string]map[string]mymatch.TrackedMatch
}

func NewMyMatchRepository(tracked []mymatch.TrackedMatch) *MyMatchRepository {
	r := &MyMatchRepository{byUser: make(map[string]map[string]mymatch.TrackedMatch)}
	for _, t := range tracked {
		r.put(t)
	}
	return r
}

func (r *MyMatchRepository) put(t mymatch.TrackedMatch) {
	rows, ok := r.byUser[t.UserID]
	if !ok {
		rows = make(map[string]mymatch.TrackedMatch)
		r.byUser[t.UserID] = rows
	}
	rows[t.MatchID] = t
}

// Add tracks a match for a user. Tracking an already-tracked match keeps
// the original AddedAt.
func (r *MyMatchRepository) Add(_ context.Context, t mymatch.TrackedMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rows, ok := r.byUser[t.UserID]; ok {
		if existing, tracked := rows[t.MatchID]; tracked {
			t.AddedAt = existing.AddedAt
		}
	}
	r.put(t)
	return nil
}

func (r *MyMatchRepository) ListByUser(_ context.Context, userID string) ([]mymatch.TrackedMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byUser[userID]
	out := make([]mymatch.TrackedMatch, 0, len(rows))
	for _, t := range rows {
		out = append(out, t)
	}
	return out, nil
}

// UpdateFromMatch refreshes every tracked row of the given match ref id.
// Rows are only ever updated here; users must track a match explicitly
// before sync touches it.
func (r *MyMatchRepository) UpdateFromMatch(_ context.Context, m match.Match) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, rows := range r.byUser {
		for matchID, t := range rows {
			if t.MatchRefID != m.MatchRefID {
				continue
			}
			t.MatchID = m.ID
			t.Title = m.Title
			t.TeamA = m.TeamA
			t.TeamB = m.TeamB
			t.Format = m.Format
			t.Venue = m.Venue
			t.StartsAt = m.StartsAt
			t.Status = m.Status
			t.UpdatedAt = m.UpdatedAt
			delete(rows, matchID)
			rows[t.MatchID] = t
			updated++
		}
	}
	return updated, nil
}
