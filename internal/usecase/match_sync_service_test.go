package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

func TestMatchSyncService_FailingStatusDoesNotBlockOthers(t *testing.T) {
	startsAt := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		matchesByStatus: func(status match.Status) ([]ExternalMatch, error) {
			switch status {
			case match.StatusLive:
				return []ExternalMatch{{
					RefID:      9001,
					Title:      "India vs Australia",
					TeamA:      "India",
					TeamB:      "Australia",
					Format:     "T20",
					StartsAt:   startsAt,
					StatusCode: int(match.StatusLive),
				}}, nil
			case match.StatusCancelled:
				return nil, errors.New("upstream 502")
			default:
				return nil, nil
			}
		},
	}

	matchRepo := memory.NewMatchRepository(nil)
	svc := NewMatchSyncService(
		matchRepo,
		memory.NewMyMatchRepository(nil),
		memory.NewPlayerRepository(nil),
		provider,
		&sequenceIDGenerator{prefix: "match"},
		logging.NewNop(),
	)

	result, err := svc.SyncMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, result.Fetched)
	require.Equal(t, 1, result.Upserted)
	require.Equal(t, []string{"cancelled"}, result.FailedStatuses)

	live, err := matchRepo.ListByStatus(t.Context(), match.StatusLive)
	require.NoError(t, err)
	require.Len(t, live, 1)
	require.Equal(t, int64(9001), live[0].MatchRefID)
}

func TestMatchSyncService_DedupesByProviderRefID(t *testing.T) {
	startsAt := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	row := ExternalMatch{
		RefID:      9001,
		Title:      "India vs Australia",
		TeamA:      "India",
		TeamB:      "Australia",
		Format:     "T20",
		StartsAt:   startsAt,
	}
	provider := &stubProvider{
		matchesByStatus: func(status match.Status) ([]ExternalMatch, error) {
			switch status {
			case match.StatusScheduled:
				scheduled := row
				scheduled.StatusCode = int(match.StatusScheduled)
				return []ExternalMatch{scheduled}, nil
			case match.StatusLive:
				liveRow := row
				liveRow.StatusCode = int(match.StatusLive)
				return []ExternalMatch{liveRow}, nil
			default:
				return nil, nil
			}
		},
	}

	matchRepo := memory.NewMatchRepository(nil)
	svc := NewMatchSyncService(
		matchRepo,
		memory.NewMyMatchRepository(nil),
		memory.NewPlayerRepository(nil),
		provider,
		&sequenceIDGenerator{prefix: "match"},
		logging.NewNop(),
	)

	result, err := svc.SyncMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, result.Fetched)
	require.Equal(t, 1, result.Upserted)

	stored, err := matchRepo.GetByRefID(t.Context(), 9001)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, match.StatusLive, stored.Status)
}

func TestMatchSyncService_DuplicateResolutionPrefersLaterLifecycle(t *testing.T) {
	startsAt := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	row := ExternalMatch{
		RefID:    9002,
		Title:    "England vs Pakistan",
		TeamA:    "England",
		TeamB:    "Pakistan",
		Format:   "ODI",
		StartsAt: startsAt,
	}
	provider := &stubProvider{
		matchesByStatus: func(status match.Status) ([]ExternalMatch, error) {
			switch status {
			case match.StatusLive:
				liveRow := row
				liveRow.StatusCode = int(match.StatusLive)
				return []ExternalMatch{liveRow}, nil
			case match.StatusCompleted:
				doneRow := row
				doneRow.StatusCode = int(match.StatusCompleted)
				return []ExternalMatch{doneRow}, nil
			default:
				return nil, nil
			}
		},
	}

	matchRepo := memory.NewMatchRepository(nil)
	svc := NewMatchSyncService(
		matchRepo,
		memory.NewMyMatchRepository(nil),
		memory.NewPlayerRepository(nil),
		provider,
		&sequenceIDGenerator{prefix: "match"},
		logging.NewNop(),
	)

	// The completed row must win no matter which status query returns
	// first, so run the sync a few times to shake out ordering effects.
	for i := 0; i < 5; i++ {
		result, err := svc.SyncMatches(t.Context())
		require.NoError(t, err)
		require.Equal(t, 2, result.Fetched)
		require.Equal(t, 1, result.Upserted)

		stored, err := matchRepo.GetByRefID(t.Context(), 9002)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Equal(t, match.StatusCompleted, stored.Status)
	}
}

func TestMatchSyncService_PropagatesToTrackedMatchesUpdateOnly(t *testing.T) {
	startsAt := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	seedMatch := match.Match{
		ID:         "m1",
		MatchRefID: 9001,
		Title:      "India vs Australia",
		TeamA:      "India",
		TeamB:      "Australia",
		Format:     "T20",
		StartsAt:   startsAt,
		Status:     match.StatusScheduled,
		UpdatedAt:  startsAt.Add(-time.Hour),
	}
	matchRepo := memory.NewMatchRepository([]match.Match{seedMatch})
	myMatchRepo := memory.NewMyMatchRepository([]mymatch.TrackedMatch{
		mymatch.FromMatch("user-1", seedMatch, startsAt.Add(-time.Hour)),
	})

	provider := &stubProvider{
		matchesByStatus: func(status match.Status) ([]ExternalMatch, error) {
			if status != match.StatusLive {
				return nil, nil
			}
			return []ExternalMatch{
				{
					RefID:      9001,
					Title:      "India vs Australia",
					TeamA:      "India",
					TeamB:      "Australia",
					Format:     "T20",
					StartsAt:   startsAt,
					StatusCode: int(match.StatusLive),
				},
				{
					RefID:      9002,
					Title:      "England vs New Zealand",
					TeamA:      "England",
					TeamB:      "New Zealand",
					Format:     "T20",
					StartsAt:   startsAt,
					StatusCode: int(match.StatusLive),
				},
			}, nil
		},
	}

	svc := NewMatchSyncService(
		matchRepo,
		myMatchRepo,
		memory.NewPlayerRepository(nil),
		provider,
		&sequenceIDGenerator{prefix: "match"},
		logging.NewNop(),
	)

	result, err := svc.SyncMatches(t.Context())
	require.NoError(t, err)
	require.Equal(t, 2, result.Upserted)
	require.Equal(t, 1, result.TrackedUpdated)

	tracked, err := myMatchRepo.ListByUser(t.Context(), "user-1")
	require.NoError(t, err)
	require.Len(t, tracked, 1, "sync must never create tracked rows")
	require.Equal(t, match.StatusLive, tracked[0].Status)
	require.Equal(t, int64(9001), tracked[0].MatchRefID)
}

func TestMatchSyncService_SyncSquadImportsAndNeverReprices(t *testing.T) {
	seedMatch := match.Match{
		ID:         "m1",
		MatchRefID: 9001,
		Title:      "India vs Australia",
		TeamA:      "India",
		TeamB:      "Australia",
		Format:     "T20",
		StartsAt:   time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		Status:     match.StatusScheduled,
	}
	matchRepo := memory.NewMatchRepository([]match.Match{seedMatch})
	playerRepo := memory.NewPlayerRepository(nil)

	credits := 9.5
	provider := &stubProvider{
		squads: func(int64) ([]ExternalSquadPlayer, error) {
			return []ExternalSquadPlayer{
				{RefID: 1, Name: "Rohit", Role: "batsman", Credits: credits, IsPlaying: true},
				{RefID: 2, Name: "Bumrah", Role: "bowler", Credits: 9, IsPlaying: true},
				{RefID: 3, Name: "Mystery", Role: "coach", Credits: 5, IsPlaying: false},
			}, nil
		},
	}

	svc := NewMatchSyncService(
		matchRepo,
		memory.NewMyMatchRepository(nil),
		playerRepo,
		provider,
		&sequenceIDGenerator{prefix: "player"},
		logging.NewNop(),
	)

	imported, err := svc.SyncSquad(t.Context(), "m1")
	require.NoError(t, err)
	require.Equal(t, 2, imported, "unknown roles are skipped")

	before, err := playerRepo.ListByMatch(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, before, 2)

	// Second import with new ratings must keep existing ids and credits.
	credits = 8
	_, err = svc.SyncSquad(t.Context(), "m1")
	require.NoError(t, err)

	after, err := playerRepo.ListByMatch(t.Context(), "m1")
	require.NoError(t, err)
	require.Len(t, after, 2)
	for _, p := range after {
		if p.PlayerRefID == 1 {
			require.Equal(t, 9.5, p.Credits)
		}
	}
}
