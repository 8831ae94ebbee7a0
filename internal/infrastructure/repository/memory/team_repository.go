package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
)

type TeamRepository struct {
	mu   sync.RWMutex
	byID map[string]fantasy.Team
}

func NewTeamRepository(teams []fantasy.Team) *TeamRepository {
	r := &TeamRepository{byID: make(map[string]fantasy.Team)}
	for _, t := range teams {
		r.byID[t.ID] = cloneTeam(t)
	}
	return r
}

func cloneTeam(t fantasy.Team) fantasy.Team {
	t.Picks = append([]fantasy.TeamPick(nil), t.Picks...)
	if t.PointsComputedAt != nil {
		at := *t.PointsComputedAt
		t.PointsComputedAt = &at
	}
	return t
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (*fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := cloneTeam(t)
	return &out, nil
}

func (r *TeamRepository) ListByUserContestMatch(_ context.Context, userID, contestID, matchID string) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0)
	for _, t := range r.byID {
		if t.UserID == userID && t.ContestID == contestID && t.MatchID == matchID {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *TeamRepository) ListByMatch(_ context.Context, matchID string) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0)
	for _, t := range r.byID {
		if t.MatchID == matchID {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *TeamRepository) ListByContest(_ context.Context, contestID string) ([]fantasy.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fantasy.Team, 0)
	for _, t := range r.byID {
		if t.ContestID == contestID {
			out = append(out, cloneTeam(t))
		}
	}
	return out, nil
}

func (r *TeamRepository) CountByUserContestMatch(_ context.Context, userID, contestID, matchID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, t := range r.byID {
		if t.UserID == userID && t.ContestID == contestID && t.MatchID == matchID {
			count++
		}
	}
	return count, nil
}

func (r *TeamRepository) Create(_ context.Context, team *fantasy.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[team.ID]; exists {
		return fmt.Errorf("team %s already exists", team.ID)
	}
	r.byID[team.ID] = cloneTeam(*team)
	return nil
}

func (r *TeamRepository) UpdatePicks(_ context.Context, team *fantasy.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[team.ID]
	if !ok {
		return fmt.Errorf("team %s not found", team.ID)
	}
	existing.Picks = append([]fantasy.TeamPick(nil), team.Picks...)
	existing.UpdatedAt = team.UpdatedAt
	r.byID[team.ID] = existing
	return nil
}

// UpdateScores applies recomputed totals and ranks, skipping unknown
// teams, and reports how many rows were written.
func (r *TeamRepository) UpdateScores(_ context.Context, updates []fantasy.ScoreUpdate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	applied := 0
	for _, u := range updates {
		t, ok := r.byID[u.TeamID]
		if !ok {
			continue
		}
		t.TotalPoints = u.TotalPoints
		t.Rank = u.Rank
		computedAt := u.ComputedAt
		t.PointsComputedAt = &computedAt
		r.byID[u.TeamID] = t
		applied++
	}
	return applied, nil
}

func (r *TeamRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("team %s not found", id)
	}
	delete(r.byID, id)
	return nil
}
