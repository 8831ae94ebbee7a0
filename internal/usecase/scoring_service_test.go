package usecase

import (
	"testing"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/pitchside/fantasy-cricket/internal/platform/cache"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

func scoringFixtureMatch() match.Match {
	return match.Match{
		ID:         "m-live",
		MatchRefID: 555,
		Title:      "Fixture A vs Fixture B",
		TeamA:      "A",
		TeamB:      "B",
		Format:     "T20",
		StartsAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Status:     match.StatusLive,
		UpdatedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func pointsPlayer(id string, points int) player.Player {
	return player.Player{
		ID:            id,
		MatchID:       "m-live",
		Name:          id,
		Role:          player.RoleBatsman,
		Credits:       8,
		FantasyPoints: points,
	}
}

func TestScoringService_RecomputeMatch_AppliesMultipliers(t *testing.T) {
	players := make([]player.Player, 0, 11)
	picks := make([]fantasy.TeamPick, 0, 11)

	players = append(players, pointsPlayer("cap", 40))
	picks = append(picks, fantasy.TeamPick{PlayerID: "cap", IsCaptain: true})

	players = append(players, pointsPlayer("vice", 20))
	picks = append(picks, fantasy.TeamPick{PlayerID: "vice", IsViceCaptain: true})

	for i := 0; i < 9; i++ {
		id := "rest" + string(rune('a'+i))
		players = append(players, pointsPlayer(id, 10))
		picks = append(picks, fantasy.TeamPick{PlayerID: id})
	}

	teamRepo := memory.NewTeamRepository([]fantasy.Team{
		{
			ID:        "team-1",
			UserID:    "user-1",
			ContestID: "contest-1",
			MatchID:   "m-live",
			Name:      "Team 1",
			Picks:     picks,
			CreatedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
		},
	})

	svc := NewScoringService(
		memory.NewMatchRepository([]match.Match{scoringFixtureMatch()}),
		memory.NewPlayerRepository(players),
		teamRepo,
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)

	result, err := svc.RecomputeMatch(t.Context(), "m-live")
	if err != nil {
		t.Fatalf("recompute match failed: %v", err)
	}
	if result.TeamsUpdated != 1 {
		t.Fatalf("expected 1 team updated, got %d", result.TeamsUpdated)
	}

	stored, err := teamRepo.GetByID(t.Context(), "team-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	// 40*2 + 20*1.5 + 9*10
	if stored.TotalPoints != 200 {
		t.Fatalf("expected total of 200, got %v", stored.TotalPoints)
	}
	if stored.PointsComputedAt == nil {
		t.Fatal("expected points computed-at marker to be set")
	}
}

func TestScoringService_RecomputeMatch_RanksContestDeterministically(t *testing.T) {
	players := []player.Player{
		pointsPlayer("s200", 200),
		pointsPlayer("s150", 150),
		pointsPlayer("s100", 100),
	}

	base := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	mkTeam := func(id, pickID string, createdAt time.Time) fantasy.Team {
		return fantasy.Team{
			ID:        id,
			UserID:    "user-" + id,
			ContestID: "contest-1",
			MatchID:   "m-live",
			Name:      id,
			Picks:     []fantasy.TeamPick{{PlayerID: pickID}},
			CreatedAt: createdAt,
		}
	}

	teamRepo := memory.NewTeamRepository([]fantasy.Team{
		mkTeam("t-second", "s150", base.Add(time.Minute)),
		mkTeam("t-top", "s200", base),
		mkTeam("t-last", "s100", base.Add(3*time.Minute)),
		mkTeam("t-third", "s150", base.Add(2*time.Minute)),
	})

	svc := NewScoringService(
		memory.NewMatchRepository([]match.Match{scoringFixtureMatch()}),
		memory.NewPlayerRepository(players),
		teamRepo,
		nil,
		logging.NewNop(),
	)

	result, err := svc.RecomputeMatch(t.Context(), "m-live")
	if err != nil {
		t.Fatalf("recompute match failed: %v", err)
	}
	if result.TeamsUpdated != 4 || result.Contests != 1 {
		t.Fatalf("unexpected recompute result: %+v", result)
	}

	wantRanks := map[string]int{
		"t-top":    1,
		"t-second": 2,
		"t-third":  3,
		"t-last":   4,
	}
	for id, wantRank := range wantRanks {
		stored, err := teamRepo.GetByID(t.Context(), id)
		if err != nil {
			t.Fatalf("get team %s: %v", id, err)
		}
		if stored.Rank != wantRank {
			t.Fatalf("team %s: expected rank %d, got %d", id, wantRank, stored.Rank)
		}
	}
}

func TestScoringService_RecomputeAll_CoversLiveAndCompleted(t *testing.T) {
	liveMatch := scoringFixtureMatch()
	doneMatch := scoringFixtureMatch()
	doneMatch.ID = "m-done"
	doneMatch.MatchRefID = 556
	doneMatch.Status = match.StatusCompleted

	svc := NewScoringService(
		memory.NewMatchRepository([]match.Match{liveMatch, doneMatch}),
		memory.NewPlayerRepository(nil),
		memory.NewTeamRepository(nil),
		nil,
		logging.NewNop(),
	)

	result, err := svc.RecomputeAll(t.Context(), 2)
	if err != nil {
		t.Fatalf("recompute all failed: %v", err)
	}
	if result.Matches != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected sweep result: %+v", result)
	}
}

func TestScoringService_RecomputeAll_DrainsAllMatchesWithFewWorkers(t *testing.T) {
	matches := make([]match.Match, 0, 6)
	for i := 0; i < 6; i++ {
		m := scoringFixtureMatch()
		m.ID = "m-" + string(rune('a'+i))
		m.MatchRefID = int64(600 + i)
		if i%2 == 0 {
			m.Status = match.StatusCompleted
		}
		matches = append(matches, m)
	}

	svc := NewScoringService(
		memory.NewMatchRepository(matches),
		memory.NewPlayerRepository(nil),
		memory.NewTeamRepository(nil),
		nil,
		logging.NewNop(),
	)

	result, err := svc.RecomputeAll(t.Context(), 2)
	if err != nil {
		t.Fatalf("recompute all failed: %v", err)
	}
	if result.Matches != 6 || result.SuccessCount != 6 || result.FailedCount != 0 {
		t.Fatalf("unexpected sweep result: %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("expected 2 workers, got %d", result.WorkerCount)
	}
	if len(result.Results) != 6 {
		t.Fatalf("expected 6 per-match results, got %d", len(result.Results))
	}
	for i := 1; i < len(result.Results); i++ {
		if result.Results[i-1].MatchID > result.Results[i].MatchID {
			t.Fatalf("expected results sorted by match id, got %q before %q",
				result.Results[i-1].MatchID, result.Results[i].MatchID)
		}
	}
}
