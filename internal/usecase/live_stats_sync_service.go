package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// LiveSyncResult summarizes one live-stats sweep over live matches.
type LiveSyncResult struct {
	Matches        int `json:"matches"`
	SuccessCount   int `json:"success_count"`
	FailedCount    int `json:"failed_count"`
	SkippedCount   int `json:"skipped_count"`
	PlayersUpdated int `json:"players_updated"`
}

// LiveStatsSyncService pulls live scorecards for in-play matches and
// refreshes per-player fantasy points.
type LiveStatsSyncService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	provider   CricketDataProvider
	scoring    *ScoringService
	logger     *logging.Logger
	now        func() time.Time
}

func NewLiveStatsSyncService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	provider CricketDataProvider,
	scoring *ScoringService,
	logger *logging.Logger,
) *LiveStatsSyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LiveStatsSyncService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		provider:   provider,
		scoring:    scoring,
		logger:     logger,
		now:        time.Now,
	}
}

// SyncLiveMatches refreshes stats for every live match, one match at a
// time. A failing match is logged and counted; it never aborts the sweep
// for the others.
func (s *LiveStatsSyncService) SyncLiveMatches(ctx context.Context) (LiveSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveStatsSyncService.SyncLiveMatches")
	defer span.End()

	matches, err := s.matchRepo.ListByStatus(ctx, match.StatusLive)
	if err != nil {
		return LiveSyncResult{}, fmt.Errorf("list live matches: %w", err)
	}

	result := LiveSyncResult{Matches: len(matches)}
	for _, m := range matches {
		updated, syncErr := s.SyncMatch(ctx, m)
		if syncErr != nil {
			result.FailedCount++
			s.logger.ErrorContext(ctx, "live stats sync failed for match",
				"match_id", m.ID,
				"match_ref_id", m.MatchRefID,
				"error", syncErr,
			)
			continue
		}
		if updated == 0 {
			result.SkippedCount++
			continue
		}
		result.SuccessCount++
		result.PlayersUpdated += updated
	}

	return result, nil
}

// SyncMatch pulls the live scorecard for one match and persists fresh
// stats and fantasy points. Batting figures are merged only from batsmen
// entries and bowling figures only from bowlers entries, on top of the
// stored stats. An empty scorecard leaves stored stats untouched and
// returns zero updates.
func (s *LiveStatsSyncService) SyncMatch(ctx context.Context, m match.Match) (int, error) {
	card, err := s.provider.FetchLiveScorecard(ctx, m.MatchRefID)
	if err != nil {
		return 0, fmt.Errorf("fetch live scorecard: %w", err)
	}
	if card.Empty() {
		s.logger.DebugContext(ctx, "empty scorecard, keeping stored stats",
			"match_id", m.ID,
			"match_ref_id", m.MatchRefID,
		)
		return 0, nil
	}

	players, err := s.playerRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("list match players: %w", err)
	}
	byRefID := make(map[int64]player.Player, len(players))
	for _, p := range players {
		byRefID[p.PlayerRefID] = p
	}

	merged := make(map[int64]player.LiveStats)
	unknown := 0

	for _, bat := range card.Batsmen {
		p, ok := byRefID[bat.PlayerRefID]
		if !ok {
			unknown++
			continue
		}
		stats, touched := merged[bat.PlayerRefID]
		if !touched {
			stats = p.Stats
		}
		stats.Runs = bat.Runs
		stats.BallsFaced = bat.BallsFaced
		stats.Fours = bat.Fours
		stats.Sixes = bat.Sixes
		stats.StrikeRate = bat.StrikeRate
		merged[bat.PlayerRefID] = stats
	}

	for _, bowl := range card.Bowlers {
		p, ok := byRefID[bowl.PlayerRefID]
		if !ok {
			unknown++
			continue
		}
		stats, touched := merged[bowl.PlayerRefID]
		if !touched {
			stats = p.Stats
		}
		stats.OversBowled = bowl.OversBowled
		stats.RunsConceded = bowl.RunsConceded
		stats.Wickets = bowl.Wickets
		stats.Maidens = bowl.Maidens
		stats.Economy = bowl.Economy
		merged[bowl.PlayerRefID] = stats
	}

	if unknown > 0 {
		s.logger.WarnContext(ctx, "scorecard rows without a known squad player",
			"match_id", m.ID,
			"unknown_players", unknown,
		)
	}
	if len(merged) == 0 {
		return 0, nil
	}

	updates := make([]player.StatsUpdate, 0, len(merged))
	for refID, stats := range merged {
		p := byRefID[refID]
		updates = append(updates, player.StatsUpdate{
			PlayerID:      p.ID,
			MatchID:       m.ID,
			Stats:         stats,
			FantasyPoints: player.ComputePoints(stats),
		})
	}

	updated, err := s.playerRepo.BulkUpdateStats(ctx, updates)
	if err != nil {
		return updated, fmt.Errorf("bulk update player stats: %w", err)
	}

	s.logger.InfoContext(ctx, "live stats synced",
		"match_id", m.ID,
		"players_updated", updated,
	)

	if updated > 0 && s.scoring != nil {
		if _, err := s.scoring.RecomputeMatch(ctx, m.ID); err != nil {
			return updated, fmt.Errorf("recompute team scores: %w", err)
		}
	}

	return updated, nil
}
