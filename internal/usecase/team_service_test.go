package usecase

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/pitchside/fantasy-cricket/internal/platform/cache"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

type sequenceIDGenerator struct {
	prefix string
	next   int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

func validPickInputs() []PickInput {
	ids := []string{
		memory.MatchIDUpcoming + "-p01", // keeper
		memory.MatchIDUpcoming + "-p03", // batsmen
		memory.MatchIDUpcoming + "-p04",
		memory.MatchIDUpcoming + "-p05",
		memory.MatchIDUpcoming + "-p06",
		memory.MatchIDUpcoming + "-p09", // all-rounders
		memory.MatchIDUpcoming + "-p10",
		memory.MatchIDUpcoming + "-p13", // bowlers
		memory.MatchIDUpcoming + "-p14",
		memory.MatchIDUpcoming + "-p15",
		memory.MatchIDUpcoming + "-p16",
	}

	picks := make([]PickInput, 0, len(ids))
	for i, id := range ids {
		picks = append(picks, PickInput{
			PlayerID:      id,
			IsCaptain:     i == 1,
			IsViceCaptain: i == 2,
		})
	}
	return picks
}

func newTeamServiceFixture() (*TeamService, *memory.TeamRepository) {
	teamRepo := memory.NewTeamRepository(nil)
	svc := NewTeamService(
		memory.NewMatchRepository(memory.SeedMatches()),
		memory.NewContestRepository(memory.SeedContests()),
		memory.NewPlayerRepository(memory.SeedPlayers()),
		teamRepo,
		fantasy.DefaultRules(),
		&sequenceIDGenerator{prefix: "team"},
		cache.NewStore(time.Minute),
		logging.NewNop(),
	)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc, teamRepo
}

func TestTeamService_CreateTeam_FourAllowedFifthRejected(t *testing.T) {
	svc, _ := newTeamServiceFixture()

	for i := 1; i <= 4; i++ {
		team, err := svc.CreateTeam(t.Context(), CreateTeamInput{
			UserID:    "user-1",
			ContestID: memory.ContestIDMega,
			MatchID:   memory.MatchIDUpcoming,
			Picks:     validPickInputs(),
		})
		if err != nil {
			t.Fatalf("create team %d failed: %v", i, err)
		}
		if want := fmt.Sprintf("Team %d", i); team.Name != want {
			t.Fatalf("expected default name %q, got %q", want, team.Name)
		}
	}

	_, err := svc.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    "user-1",
		ContestID: memory.ContestIDMega,
		MatchID:   memory.MatchIDUpcoming,
		Picks:     validPickInputs(),
	})
	if !errors.Is(err, fantasy.ErrTeamLimitReached) {
		t.Fatalf("expected team limit error on 5th create, got %v", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected limit error to map to invalid input, got %v", err)
	}
}

func TestTeamService_CreateTeam_CustomNameAndOtherUserUnaffected(t *testing.T) {
	svc, _ := newTeamServiceFixture()

	team, err := svc.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    "user-1",
		ContestID: memory.ContestIDMega,
		MatchID:   memory.MatchIDUpcoming,
		Name:      "Boundary Hunters",
		Picks:     validPickInputs(),
	})
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if team.Name != "Boundary Hunters" {
		t.Fatalf("expected custom name to survive, got %q", team.Name)
	}

	other, err := svc.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    "user-2",
		ContestID: memory.ContestIDMega,
		MatchID:   memory.MatchIDUpcoming,
		Picks:     validPickInputs(),
	})
	if err != nil {
		t.Fatalf("create team for second user failed: %v", err)
	}
	if other.Name != "Team 1" {
		t.Fatalf("expected per-user sequence to start at Team 1, got %q", other.Name)
	}
}

func TestTeamService_CreateTeam_RejectedOnceMatchStarted(t *testing.T) {
	svc, _ := newTeamServiceFixture()
	svc.now = func() time.Time { return time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC) }

	_, err := svc.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    "user-1",
		ContestID: memory.ContestIDMega,
		MatchID:   memory.MatchIDUpcoming,
		Picks:     validPickInputs(),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected creation after start to fail, got %v", err)
	}
}

func TestTeamService_UpdateTeam_OwnershipEnforced(t *testing.T) {
	svc, _ := newTeamServiceFixture()

	team, err := svc.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    "user-1",
		ContestID: memory.ContestIDMega,
		MatchID:   memory.MatchIDUpcoming,
		Picks:     validPickInputs(),
	})
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	_, err = svc.UpdateTeam(t.Context(), UpdateTeamInput{
		TeamID: team.ID,
		UserID: "user-2",
		Picks:  validPickInputs(),
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for foreign team, got %v", err)
	}

	// A full set of four entries must not block editing an existing one.
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateTeam(t.Context(), CreateTeamInput{
			UserID:    "user-1",
			ContestID: memory.ContestIDMega,
			MatchID:   memory.MatchIDUpcoming,
			Picks:     validPickInputs(),
		}); err != nil {
			t.Fatalf("create filler team failed: %v", err)
		}
	}

	picks := validPickInputs()
	picks[3].PlayerID = memory.MatchIDUpcoming + "-p07"
	updated, err := svc.UpdateTeam(t.Context(), UpdateTeamInput{
		TeamID: team.ID,
		UserID: "user-1",
		Picks:  picks,
	})
	if err != nil {
		t.Fatalf("update team failed: %v", err)
	}
	found := false
	for _, pick := range updated.Picks {
		if pick.PlayerID == memory.MatchIDUpcoming+"-p07" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected replaced pick to be persisted")
	}
}

func TestTeamService_EntryCheck(t *testing.T) {
	svc, _ := newTeamServiceFixture()

	check, err := svc.EntryCheck(t.Context(), "user-1", memory.ContestIDMega, memory.MatchIDUpcoming)
	if err != nil {
		t.Fatalf("entry check failed: %v", err)
	}
	if !check.CanCreate || check.Remaining != 4 || check.Limit != 4 {
		t.Fatalf("unexpected initial entry check: %+v", check)
	}

	for i := 0; i < 4; i++ {
		if _, err := svc.CreateTeam(t.Context(), CreateTeamInput{
			UserID:    "user-1",
			ContestID: memory.ContestIDMega,
			MatchID:   memory.MatchIDUpcoming,
			Picks:     validPickInputs(),
		}); err != nil {
			t.Fatalf("create team %d failed: %v", i+1, err)
		}
	}

	check, err = svc.EntryCheck(t.Context(), "user-1", memory.ContestIDMega, memory.MatchIDUpcoming)
	if err != nil {
		t.Fatalf("entry check failed: %v", err)
	}
	if check.CanCreate || check.Remaining != 0 || check.Existing != 4 {
		t.Fatalf("unexpected exhausted entry check: %+v", check)
	}
}

func TestTeamService_DeleteTeam(t *testing.T) {
	svc, teamRepo := newTeamServiceFixture()

	team, err := svc.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    "user-1",
		ContestID: memory.ContestIDMega,
		MatchID:   memory.MatchIDUpcoming,
		Picks:     validPickInputs(),
	})
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}

	if err := svc.DeleteTeam(t.Context(), team.ID, "user-2"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized delete, got %v", err)
	}
	if err := svc.DeleteTeam(t.Context(), team.ID, "user-1"); err != nil {
		t.Fatalf("delete team failed: %v", err)
	}

	stored, err := teamRepo.GetByID(t.Context(), team.ID)
	if err != nil {
		t.Fatalf("get deleted team: %v", err)
	}
	if stored != nil {
		t.Fatal("expected team to be gone after delete")
	}
}
