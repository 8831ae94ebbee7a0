package memory

import (
	"fmt"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
)

const (
	MatchIDUpcoming = "t20-ind-aus-upcoming"
	MatchIDLive     = "t20-eng-nz-live"
	MatchIDFinished = "odi-sa-pak-finished"

	ContestIDMega  = "mega-ind-aus"
	ContestIDHeady = "head-to-head-ind-aus"
)

var seedClock = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func SeedMatches() []match.Match {
	return []match.Match{
		{
			ID:         MatchIDUpcoming,
			MatchRefID: 91001,
			Title:      "India vs Australia, 1st T20I",
			TeamA:      "India",
			TeamB:      "Australia",
			Format:     "T20",
			Venue:      "Wankhede Stadium, Mumbai",
			StartsAt:   seedClock.Add(24 * time.Hour),
			Status:     match.StatusScheduled,
			UpdatedAt:  seedClock,
		},
		{
			ID:         MatchIDLive,
			MatchRefID: 91002,
			Title:      "England vs New Zealand, 2nd T20I",
			TeamA:      "England",
			TeamB:      "New Zealand",
			Format:     "T20",
			Venue:      "Lord's, London",
			StartsAt:   seedClock.Add(-2 * time.Hour),
			Status:     match.StatusLive,
			UpdatedAt:  seedClock,
		},
		{
			ID:         MatchIDFinished,
			MatchRefID: 91003,
			Title:      "South Africa vs Pakistan, 3rd ODI",
			TeamA:      "South Africa",
			TeamB:      "Pakistan",
			Format:     "ODI",
			Venue:      "Newlands, Cape Town",
			StartsAt:   seedClock.Add(-30 * time.Hour),
			Status:     match.StatusCompleted,
			UpdatedAt:  seedClock,
		},
	}
}

type seedPlayerSpec struct {
	name    string
	role    player.Role
	credits float64
}

// One balanced 22-man pool per match: enough in every role to build a
// valid eleven with credits to spare.
var seedSquadTemplate = []seedPlayerSpec{
	{"%s Keeper A", player.RoleWicketKeeper, 9},
	{"%s Keeper B", player.RoleWicketKeeper, 8},
	{"%s Opener A", player.RoleBatsman, 10},
	{"%s Opener B", player.RoleBatsman, 9.5},
	{"%s Batter C", player.RoleBatsman, 9},
	{"%s Batter D", player.RoleBatsman, 8.5},
	{"%s Batter E", player.RoleBatsman, 8},
	{"%s Batter F", player.RoleBatsman, 7.5},
	{"%s Allrounder A", player.RoleAllRounder, 9.5},
	{"%s Allrounder B", player.RoleAllRounder, 9},
	{"%s Allrounder C", player.RoleAllRounder, 8},
	{"%s Allrounder D", player.RoleAllRounder, 7.5},
	{"%s Quick A", player.RoleBowler, 9},
	{"%s Quick B", player.RoleBowler, 8.5},
	{"%s Quick C", player.RoleBowler, 8},
	{"%s Quick D", player.RoleBowler, 7.5},
	{"%s Spinner A", player.RoleBowler, 8.5},
	{"%s Spinner B", player.RoleBowler, 8},
	{"%s Spinner C", player.RoleBowler, 7},
	{"%s Finisher A", player.RoleBatsman, 8.5},
	{"%s Finisher B", player.RoleAllRounder, 8.5},
	{"%s Keeper C", player.RoleWicketKeeper, 7},
}

func seedSquad(matchID string, refBase int64, sideA, sideB string) []player.Player {
	out := make([]player.Player, 0, len(seedSquadTemplate))
	for i, spec := range seedSquadTemplate {
		side := sideA
		if i%2 == 1 {
			side = sideB
		}
		out = append(out, player.Player{
			ID:          fmt.Sprintf("%s-p%02d", matchID, i+1),
			PlayerRefID: refBase + int64(i) + 1,
			MatchID:     matchID,
			Name:        fmt.Sprintf(spec.name, side),
			Role:        spec.role,
			Credits:     spec.credits,
			IsPlaying:   i < 18,
		})
	}
	return out
}

func SeedPlayers() []player.Player {
	players := seedSquad(MatchIDUpcoming, 91001000, "IND", "AUS")
	players = append(players, seedSquad(MatchIDLive, 91002000, "ENG", "NZ")...)
	return players
}

func SeedContests() []contest.Contest {
	return []contest.Contest{
		{
			ID:             ContestIDMega,
			MatchID:        MatchIDUpcoming,
			Name:           "Mega Contest",
			EntryFee:       49,
			TotalPrizePool: 100000,
			FirstPrize:     25000,
			SecondPrize:    10000,
			MaxEntries:     10000,
			CreatedAt:      seedClock,
		},
		{
			ID:             ContestIDHeady,
			MatchID:        MatchIDUpcoming,
			Name:           "Head to Head",
			EntryFee:       99,
			TotalPrizePool: 180,
			FirstPrize:     180,
			SecondPrize:    0,
			MaxEntries:     2,
			CreatedAt:      seedClock,
		},
	}
}
