package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

type stubProvider struct {
	matchesByStatus func(status match.Status) ([]ExternalMatch, error)
	liveScorecard   func(matchRefID int64) (ExternalScorecard, error)
	squads          func(matchRefID int64) ([]ExternalSquadPlayer, error)
}

func (s *stubProvider) FetchMatchesByStatus(_ context.Context, status match.Status) ([]ExternalMatch, error) {
	if s.matchesByStatus == nil {
		return nil, nil
	}
	return s.matchesByStatus(status)
}

func (s *stubProvider) FetchLiveScorecard(_ context.Context, matchRefID int64) (ExternalScorecard, error) {
	if s.liveScorecard == nil {
		return ExternalScorecard{}, nil
	}
	return s.liveScorecard(matchRefID)
}

func (s *stubProvider) FetchSquads(_ context.Context, matchRefID int64) ([]ExternalSquadPlayer, error) {
	if s.squads == nil {
		return nil, nil
	}
	return s.squads(matchRefID)
}

func liveFixtureMatch(id string, refID int64) match.Match {
	return match.Match{
		ID:         id,
		MatchRefID: refID,
		Title:      "Live Fixture",
		TeamA:      "A",
		TeamB:      "B",
		Format:     "T20",
		StartsAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Status:     match.StatusLive,
		UpdatedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestLiveStatsSyncService_EmptyScorecardKeepsStoredStats(t *testing.T) {
	stored := player.Player{
		ID:          "p1",
		PlayerRefID: 42,
		MatchID:     "m1",
		Name:        "Opener",
		Role:        player.RoleBatsman,
		Credits:     9,
		Stats:       player.LiveStats{Runs: 30, Fours: 3},
	}
	stored.FantasyPoints = player.ComputePoints(stored.Stats)

	playerRepo := memory.NewPlayerRepository([]player.Player{stored})
	provider := &stubProvider{
		liveScorecard: func(int64) (ExternalScorecard, error) {
			return ExternalScorecard{}, nil
		},
	}

	svc := NewLiveStatsSyncService(
		memory.NewMatchRepository([]match.Match{liveFixtureMatch("m1", 501)}),
		playerRepo,
		provider,
		nil,
		logging.NewNop(),
	)

	result, err := svc.SyncLiveMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, result.Matches)
	require.Equal(t, 1, result.SkippedCount)
	require.Zero(t, result.PlayersUpdated)

	after, err := playerRepo.ListByMatch(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, after, 1)
	require.Equal(t, stored.Stats, after[0].Stats)
	require.Equal(t, stored.FantasyPoints, after[0].FantasyPoints)
}

func TestLiveStatsSyncService_MergesBattingAndBowlingSeparately(t *testing.T) {
	allrounder := player.Player{
		ID:          "p1",
		PlayerRefID: 42,
		MatchID:     "m1",
		Name:        "Allrounder",
		Role:        player.RoleAllRounder,
		Credits:     9,
	}

	playerRepo := memory.NewPlayerRepository([]player.Player{allrounder})
	provider := &stubProvider{
		liveScorecard: func(int64) (ExternalScorecard, error) {
			return ExternalScorecard{
				Batsmen: []ExternalBattingStat{
					{PlayerRefID: 42, Runs: 40, BallsFaced: 28, Fours: 4, Sixes: 2, StrikeRate: 142.8},
				},
				Bowlers: []ExternalBowlingStat{
					{PlayerRefID: 42, OversBowled: 4, RunsConceded: 21, Wickets: 3, Maidens: 1, Economy: 5.25},
				},
			}, nil
		},
	}

	svc := NewLiveStatsSyncService(
		memory.NewMatchRepository([]match.Match{liveFixtureMatch("m1", 501)}),
		playerRepo,
		provider,
		nil,
		logging.NewNop(),
	)

	result, err := svc.SyncLiveMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, result.PlayersUpdated)

	after, err := playerRepo.ListByMatch(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, after, 1)

	// 40 runs + 4 fours + 2*2 sixes + 3*25 wickets + 12 maiden
	require.Equal(t, 135, after[0].FantasyPoints)
	require.Equal(t, 40, after[0].Stats.Runs)
	require.Equal(t, 3, after[0].Stats.Wickets)
	require.NotNil(t, after[0].PointsComputedAt)
}

func TestLiveStatsSyncService_OneFailingMatchDoesNotAbortSweep(t *testing.T) {
	playerRepo := memory.NewPlayerRepository([]player.Player{
		{ID: "p1", PlayerRefID: 7, MatchID: "m-ok", Name: "Bat", Role: player.RoleBatsman, Credits: 8},
	})
	provider := &stubProvider{
		liveScorecard: func(refID int64) (ExternalScorecard, error) {
			if refID == 666 {
				return ExternalScorecard{}, errors.New("provider blew up")
			}
			return ExternalScorecard{
				Batsmen: []ExternalBattingStat{{PlayerRefID: 7, Runs: 12}},
			}, nil
		},
	}

	svc := NewLiveStatsSyncService(
		memory.NewMatchRepository([]match.Match{
			liveFixtureMatch("m-bad", 666),
			liveFixtureMatch("m-ok", 501),
		}),
		playerRepo,
		provider,
		nil,
		logging.NewNop(),
	)

	result, err := svc.SyncLiveMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, result.Matches)
	require.Equal(t, 1, result.FailedCount)
	require.Equal(t, 1, result.SuccessCount)

	after, err := playerRepo.ListByMatch(t.Context(), "m-ok")
	require.NoError(t, err)
	require.Equal(t, 12, after[0].Stats.Runs)
}

func TestLiveStatsSyncService_UnknownScorecardPlayersAreSkipped(t *testing.T) {
	playerRepo := memory.NewPlayerRepository([]player.Player{
		{ID: "p1", PlayerRefID: 7, MatchID: "m1", Name: "Bat", Role: player.RoleBatsman, Credits: 8},
	})
	provider := &stubProvider{
		liveScorecard: func(int64) (ExternalScorecard, error) {
			return ExternalScorecard{
				Batsmen: []ExternalBattingStat{
					{PlayerRefID: 7, Runs: 10},
					{PlayerRefID: 999, Runs: 50},
				},
			}, nil
		},
	}

	svc := NewLiveStatsSyncService(
		memory.NewMatchRepository([]match.Match{liveFixtureMatch("m1", 501)}),
		playerRepo,
		provider,
		nil,
		logging.NewNop(),
	)

	result, err := svc.SyncLiveMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, result.PlayersUpdated)
}
