package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/platform/cache"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
	"github.com/pitchside/fantasy-cricket/internal/platform/resilience"
)

const (
	captainMultiplier     = 2.0
	viceCaptainMultiplier = 1.5

	defaultRecomputeWorkers = 4
)

// RecomputeResult summarizes a single-match team score recompute.
type RecomputeResult struct {
	MatchID      string  `json:"match_id"`
	TeamsUpdated int     `json:"teams_updated"`
	Contests     int     `json:"contests"`
	TopScore     float64 `json:"top_score"`
}

// RecomputeAllResult summarizes a recompute sweep across live and
// completed matches.
type RecomputeAllResult struct {
	Matches      int               `json:"matches"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	WorkerCount  int               `json:"worker_count"`
	Results      []RecomputeResult `json:"results"`
}

type ScoringService struct {
	matchRepo      match.Repository
	playerRepo     player.Repository
	teamRepo       fantasy.Repository
	boardCache     *cache.Store
	logger         *logging.Logger
	now            func() time.Time
	recomputeGuard resilience.SingleFlight
}

func NewScoringService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	teamRepo fantasy.Repository,
	boardCache *cache.Store,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		boardCache: boardCache,
		logger:     logger,
		now:        time.Now,
	}
}

// RecomputeMatch recalculates the total of every fantasy team entered in
// a match from the per-player points, applies captain and vice-captain
// multipliers, and rewrites contest ranks. Overlapping triggers for the
// same match collapse into one run.
func (s *ScoringService) RecomputeMatch(ctx context.Context, matchID string) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecomputeMatch")
	defer span.End()

	if matchID == "" {
		return RecomputeResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	value, err, _ := s.recomputeGuard.Do("recompute:"+matchID, func() (any, error) {
		return s.recomputeMatchOnce(ctx, matchID)
	})
	if err != nil {
		return RecomputeResult{}, err
	}

	result, ok := value.(RecomputeResult)
	if !ok {
		return RecomputeResult{}, fmt.Errorf("unexpected recompute result for match=%s", matchID)
	}
	return result, nil
}

func (s *ScoringService) recomputeMatchOnce(ctx context.Context, matchID string) (RecomputeResult, error) {
	players, err := s.playerRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list match players: %w", err)
	}
	pointsByPlayer := make(map[string]float64, len(players))
	for _, p := range players {
		pointsByPlayer[p.ID] = float64(p.FantasyPoints)
	}

	teams, err := s.teamRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("list match teams: %w", err)
	}
	if len(teams) == 0 {
		return RecomputeResult{MatchID: matchID}, nil
	}

	result := RecomputeResult{MatchID: matchID}
	byContest := make(map[string][]fantasy.Team)
	for _, team := range teams {
		team.TotalPoints = teamTotal(team, pointsByPlayer)
		if team.TotalPoints > result.TopScore {
			result.TopScore = team.TotalPoints
		}
		byContest[team.ContestID] = append(byContest[team.ContestID], team)
	}

	computedAt := s.now().UTC()
	updates := make([]fantasy.ScoreUpdate, 0, len(teams))
	contestIDs := make([]string, 0, len(byContest))
	for contestID, entrants := range byContest {
		contestIDs = append(contestIDs, contestID)
		for _, team := range fantasy.Standings(entrants) {
			updates = append(updates, fantasy.ScoreUpdate{
				TeamID:      team.ID,
				TotalPoints: team.TotalPoints,
				Rank:        team.Rank,
				ComputedAt:  computedAt,
			})
		}
	}
	sort.Strings(contestIDs)

	updated, err := s.teamRepo.UpdateScores(ctx, updates)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("update team scores: %w", err)
	}

	if s.boardCache != nil {
		for _, contestID := range contestIDs {
			s.boardCache.Delete(ctx, leaderboardCacheKey(contestID))
		}
	}

	result.TeamsUpdated = updated
	result.Contests = len(contestIDs)

	s.logger.InfoContext(ctx, "team scores recomputed",
		"match_id", matchID,
		"teams_updated", result.TeamsUpdated,
		"contests", result.Contests,
		"top_score", result.TopScore,
	)

	return result, nil
}

// RecomputeAll recomputes team scores for every live and completed
// match, fanning the matches out over a bounded worker pool.
func (s *ScoringService) RecomputeAll(ctx context.Context, maxWorkers int) (RecomputeAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RecomputeAll")
	defer span.End()

	var matches []match.Match
	for _, status := range []match.Status{match.StatusLive, match.StatusCompleted} {
		items, err := s.matchRepo.ListByStatus(ctx, status)
		if err != nil {
			return RecomputeAllResult{}, fmt.Errorf("list matches by status %s: %w", status, err)
		}
		matches = append(matches, items...)
	}
	if len(matches) == 0 {
		return RecomputeAllResult{}, nil
	}

	workerCount := maxWorkers
	if workerCount < 1 {
		workerCount = defaultRecomputeWorkers
	}
	if workerCount > len(matches) {
		workerCount = len(matches)
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecomputeAllResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var successCount, failedCount atomic.Int32
	results := make(chan RecomputeResult, len(matches))

	var workers sync.WaitGroup
	var submitErr error
	for _, m := range matches {
		m := m
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			res, runErr := s.RecomputeMatch(ctx, m.ID)
			if runErr != nil {
				failedCount.Add(1)
				s.logger.ErrorContext(ctx, "match recompute failed",
					"match_id", m.ID,
					"error", runErr,
				)
				return
			}
			successCount.Add(1)
			results <- res
		}); err != nil {
			// Already-submitted workers must finish before the deferred
			// Release tears the pool down under them.
			workers.Done()
			submitErr = fmt.Errorf("submit match to worker pool: %w", err)
			break
		}
	}

	workers.Wait()
	close(results)
	if submitErr != nil {
		return RecomputeAllResult{}, submitErr
	}

	out := RecomputeAllResult{
		Matches:     len(matches),
		WorkerCount: workerCount,
	}
	for res := range results {
		out.Results = append(out.Results, res)
	}
	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].MatchID < out.Results[j].MatchID
	})

	out.SuccessCount = int(successCount.Load())
	out.FailedCount = int(failedCount.Load())
	return out, nil
}

func teamTotal(team fantasy.Team, pointsByPlayer map[string]float64) float64 {
	var total float64
	for _, pick := range team.Picks {
		base := pointsByPlayer[pick.PlayerID]
		switch {
		case pick.IsCaptain:
			total += base * captainMultiplier
		case pick.IsViceCaptain:
			total += base * viceCaptainMultiplier
		default:
			total += base
		}
	}
	return total
}
