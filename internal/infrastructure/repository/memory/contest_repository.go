package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
)

type ContestRepository struct {
	mu   sync.RWMutex
	byID map[string]contest.Contest
}

func NewContestRepository(contests []contest.Contest) *ContestRepository {
	r := &ContestRepository{byID: make(map[string]contest.Contest)}
	for _, c := range contests {
		r.byID[c.ID] = c
	}
	return r
}

func (r *ContestRepository) GetByID(_ context.Context, id string) (*contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *ContestRepository) ListByMatch(_ context.Context, matchID string) ([]contest.Contest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]contest.Contest, 0)
	for _, c := range r.byID {
		if c.MatchID == matchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *ContestRepository) Create(_ context.Context, c *contest.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; exists {
		return fmt.Errorf("contest %s already exists", c.ID)
	}
	r.byID[c.ID] = *c
	return nil
}
