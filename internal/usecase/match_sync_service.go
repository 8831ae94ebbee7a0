package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	idgen "github.com/pitchside/fantasy-cricket/internal/platform/id"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// MatchSyncResult summarizes one match catalogue refresh.
type MatchSyncResult struct {
	Fetched        int      `json:"fetched"`
	Upserted       int      `json:"upserted"`
	TrackedUpdated int      `json:"tracked_updated"`
	FailedStatuses []string `json:"failed_statuses,omitempty"`
}

// MatchSyncService refreshes the match catalogue from the provider and
// propagates status changes to the matches users track.
type MatchSyncService struct {
	matchRepo   match.Repository
	myMatchRepo mymatch.Repository
	playerRepo  player.Repository
	provider    CricketDataProvider
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewMatchSyncService(
	matchRepo match.Repository,
	myMatchRepo mymatch.Repository,
	playerRepo player.Repository,
	provider CricketDataProvider,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchSyncService{
		matchRepo:   matchRepo,
		myMatchRepo: myMatchRepo,
		playerRepo:  playerRepo,
		provider:    provider,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// SyncMatches fetches the four status buckets concurrently and upserts
// whatever arrived. A failing bucket is reported in the result but never
// discards the buckets that succeeded.
func (s *MatchSyncService) SyncMatches(ctx context.Context) (MatchSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncMatches")
	defer span.End()

	var mu sync.Mutex
	var fetched []ExternalMatch
	var failedStatuses []string

	p := pool.New().WithMaxGoroutines(len(match.AllStatuses))
	for _, status := range match.AllStatuses {
		status := status
		p.Go(func() {
			items, err := s.provider.FetchMatchesByStatus(ctx, status)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failedStatuses = append(failedStatuses, status.String())
				s.logger.ErrorContext(ctx, "fetch matches by status failed",
					"status", status.String(),
					"error", err,
				)
				return
			}
			fetched = append(fetched, items...)
		})
	}
	p.Wait()
	sort.Strings(failedStatuses)

	result := MatchSyncResult{
		Fetched:        len(fetched),
		FailedStatuses: failedStatuses,
	}
	if len(fetched) == 0 {
		if len(failedStatuses) == len(match.AllStatuses) {
			return result, fmt.Errorf("%w: all provider status queries failed", ErrDependencyUnavailable)
		}
		return result, nil
	}

	// The same match can surface under several status queries while it
	// transitions; the row whose status is furthest along the lifecycle
	// wins, so the merge does not depend on response arrival order.
	byRefID := make(map[int64]ExternalMatch, len(fetched))
	refIDs := make([]int64, 0, len(fetched))
	for _, item := range fetched {
		existing, seen := byRefID[item.RefID]
		if !seen {
			refIDs = append(refIDs, item.RefID)
			byRefID[item.RefID] = item
			continue
		}
		if statusLifecycleRank(item.StatusCode) >= statusLifecycleRank(existing.StatusCode) {
			byRefID[item.RefID] = item
		}
	}
	sort.Slice(refIDs, func(i, j int) bool { return refIDs[i] < refIDs[j] })

	now := s.now().UTC()
	matches := make([]match.Match, 0, len(byRefID))
	for _, refID := range refIDs {
		item := byRefID[refID]
		status, err := match.ParseStatusCode(item.StatusCode)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping match with unknown status code",
				"match_ref_id", item.RefID,
				"status_code", item.StatusCode,
			)
			continue
		}

		matchID, err := s.idGen.NewID()
		if err != nil {
			return result, fmt.Errorf("generate match id: %w", err)
		}

		matches = append(matches, match.Match{
			ID:         matchID,
			MatchRefID: item.RefID,
			Title:      strings.TrimSpace(item.Title),
			TeamA:      strings.TrimSpace(item.TeamA),
			TeamB:      strings.TrimSpace(item.TeamB),
			Format:     strings.TrimSpace(item.Format),
			Venue:      strings.TrimSpace(item.Venue),
			StartsAt:   item.StartsAt.UTC(),
			Status:     status,
			UpdatedAt:  now,
		})
	}

	if err := s.matchRepo.Upsert(ctx, matches); err != nil {
		return result, fmt.Errorf("upsert matches: %w", err)
	}
	result.Upserted = len(matches)

	for _, m := range matches {
		stored, err := s.matchRepo.GetByRefID(ctx, m.MatchRefID)
		if err != nil {
			return result, fmt.Errorf("reload match by ref id: %w", err)
		}
		if stored == nil {
			continue
		}
		updated, err := s.myMatchRepo.UpdateFromMatch(ctx, *stored)
		if err != nil {
			return result, fmt.Errorf("propagate match to tracked lists: %w", err)
		}
		result.TrackedUpdated += updated
	}

	s.logger.InfoContext(ctx, "match catalogue synced",
		"fetched", result.Fetched,
		"upserted", result.Upserted,
		"tracked_updated", result.TrackedUpdated,
		"failed_statuses", result.FailedStatuses,
	)

	return result, nil
}

// statusLifecycleRank orders provider status codes along the match
// lifecycle: scheduled < live < terminal (completed, cancelled).
// Unknown codes rank lowest and lose every duplicate resolution.
func statusLifecycleRank(code int) int {
	switch match.Status(code) {
	case match.StatusScheduled:
		return 1
	case match.StatusLive:
		return 2
	case match.StatusCompleted:
		return 3
	case match.StatusCancelled:
		return 4
	default:
		return 0
	}
}

// SyncSquad refreshes the player pool of a match from the provider squad
// feed. Returns the number of players written.
func (s *MatchSyncService) SyncSquad(ctx context.Context, matchID string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncSquad")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return 0, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return 0, fmt.Errorf("get match by id: %w", err)
	}
	if m == nil {
		return 0, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	squad, err := s.provider.FetchSquads(ctx, m.MatchRefID)
	if err != nil {
		return 0, fmt.Errorf("fetch squads: %w", err)
	}
	if len(squad) == 0 {
		return 0, nil
	}

	players := make([]player.Player, 0, len(squad))
	for _, item := range squad {
		role, err := player.ParseRole(item.Role)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping squad player with unknown role",
				"match_id", m.ID,
				"player_ref_id", item.RefID,
				"role", item.Role,
			)
			continue
		}

		playerID, err := s.idGen.NewID()
		if err != nil {
			return 0, fmt.Errorf("generate player id: %w", err)
		}

		p := player.Player{
			ID:          playerID,
			PlayerRefID: item.RefID,
			MatchID:     m.ID,
			Name:        strings.TrimSpace(item.Name),
			Role:        role,
			Credits:     item.Credits,
			IsPlaying:   item.IsPlaying,
		}
		if err := p.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping invalid squad player",
				"match_id", m.ID,
				"player_ref_id", item.RefID,
				"error", err,
			)
			continue
		}
		players = append(players, p)
	}

	if len(players) == 0 {
		return 0, nil
	}

	if err := s.playerRepo.BulkUpsert(ctx, players); err != nil {
		return 0, fmt.Errorf("bulk upsert players: %w", err)
	}

	s.logger.InfoContext(ctx, "match squad synced",
		"match_id", m.ID,
		"players", len(players),
	)

	return len(players), nil
}
