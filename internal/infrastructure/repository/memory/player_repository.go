package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/player"
)

type PlayerRepository struct {
	mu           sync.RWMutex
	byMatch      map[string]map[string]player.Player
	idByMatchRef map[string]map[int64]string
	now          func() time.Time
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		byMatch:      make(map[string]map[string]player.Player),
		idByMatchRef: make(map[string]map[int64]string),
		now:          time.Now,
	}
	for _, p := range players {
		r.put(p)
	}
	return r
}

func (r *PlayerRepository) put(p player.Player) {
	if _, ok := r.byMatch[p.MatchID]; !ok {
		r.byMatch[p.MatchID] = make(map[string]player.Player)
		r.idByMatchRef[p.MatchID] = make(map[int64]string)
	}
	r.byMatch[p.MatchID][p.ID] = p
	r.idByMatchRef[p.MatchID][p.PlayerRefID] = p.ID
}

func (r *PlayerRepository) ListByMatch(_ context.Context, matchID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byMatch[matchID]
	out := make([]player.Player, 0, len(rows))
	for _, p := range rows {
		out = append(out, p)
	}
	return out, nil
}

func (r *PlayerRepository) GetByMatchAndIDs(_ context.Context, matchID string, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byMatch[matchID]
	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := rows[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// BulkUpsert writes squad players keyed by (match, provider ref id). An
// existing player keeps its ID, credits, stats and points; only the
// roster fields refresh.
func (r *PlayerRepository) BulkUpsert(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		if refIndex, ok := r.idByMatchRef[p.MatchID]; ok {
			if existingID, seen := refIndex[p.PlayerRefID]; seen {
				existing := r.byMatch[p.MatchID][existingID]
				existing.Name = p.Name
				existing.Role = p.Role
				existing.IsPlaying = p.IsPlaying
				r.byMatch[p.MatchID][existingID] = existing
				continue
			}
		}
		r.put(p)
	}
	return nil
}

// BulkUpdateStats applies stat rows to known players and reports how many
// were written. Unknown player ids are skipped, not errors.
func (r *PlayerRepository) BulkUpdateStats(_ context.Context, updates []player.StatsUpdate) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	applied := 0
	for _, u := range updates {
		rows, ok := r.byMatch[u.MatchID]
		if !ok {
			continue
		}
		p, ok := rows[u.PlayerID]
		if !ok {
			continue
		}
		p.Stats = u.Stats
		p.FantasyPoints = u.FantasyPoints
		computedAt := now
		p.PointsComputedAt = &computedAt
		rows[u.PlayerID] = p
		applied++
	}
	return applied, nil
}
