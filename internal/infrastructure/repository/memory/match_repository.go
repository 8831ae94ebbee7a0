package memory

import (
	"context"
	"sync"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
)

type MatchRepository struct {
	mu        sync.RWMutex
	byID      map[string]match.Match
	idByRefID map[int64]string
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	r := &MatchRepository{
		byID:      make(map[string]match.Match),
		idByRefID: make(map[int64]string),
	}
	for _, m := range matches {
		r.byID[m.ID] = m
		r.idByRefID[m.MatchRefID] = m.ID
	}
	return r
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MatchRepository) GetByRefID(_ context.Context, refID int64) (*match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.idByRefID[refID]
	if !ok {
		return nil, nil
	}
	m := r.byID[id]
	return &m, nil
}

func (r *MatchRepository) ListByStatus(_ context.Context, status match.Status) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.byID {
		if m.Status == status {
			out = append(out, m)
		}
	}
	return out, nil
}

// Upsert writes matches keyed by provider ref id. An existing match keeps
// its local ID; incoming fields overwrite the rest.
func (r *MatchRepository) Upsert(_ context.Context, matches []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range matches {
		if existingID, ok := r.idByRefID[m.MatchRefID]; ok {
			m.ID = existingID
		}
		r.byID[m.ID] = m
		r.idByRefID[m.MatchRefID] = m.ID
	}
	return nil
}
