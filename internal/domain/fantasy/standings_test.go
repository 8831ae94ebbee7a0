package fantasy

import (
	"testing"
	"time"
)

func TestStandings_RanksByPointsWithDeterministicTies(t *testing.T) {
	base := time.Date(2026, 7, 3, 14, 0, 0, 0, time.UTC)
	teams := []Team{
		{ID: "t3", TotalPoints: 150, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "t1", TotalPoints: 200, CreatedAt: base},
		{ID: "t4", TotalPoints: 100, CreatedAt: base.Add(3 * time.Minute)},
		{ID: "t2", TotalPoints: 150, CreatedAt: base.Add(time.Minute)},
	}

	ranked := Standings(teams)

	wantOrder := []string{"t1", "t2", "t3", "t4"}
	wantRanks := []int{1, 2, 3, 4}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("position %d: want %s, got %s", i, want, ranked[i].ID)
		}
		if ranked[i].Rank != wantRanks[i] {
			t.Fatalf("position %d: want rank %d, got %d", i, wantRanks[i], ranked[i].Rank)
		}
	}
}

func TestStandings_EqualTimestampsFallBackToID(t *testing.T) {
	at := time.Date(2026, 7, 3, 14, 0, 0, 0, time.UTC)
	teams := []Team{
		{ID: "b", TotalPoints: 90, CreatedAt: at},
		{ID: "a", TotalPoints: 90, CreatedAt: at},
	}

	ranked := Standings(teams)
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Fatalf("expected id tiebreak a then b, got %s then %s", ranked[0].ID, ranked[1].ID)
	}
}

func TestStandings_DoesNotMutateInput(t *testing.T) {
	teams := []Team{
		{ID: "x", TotalPoints: 10},
		{ID: "y", TotalPoints: 20},
	}

	_ = Standings(teams)
	if teams[0].ID != "x" || teams[0].Rank != 0 {
		t.Fatal("expected input slice to stay untouched")
	}
}
