package fantasy

import (
	"errors"
	"testing"

	"github.com/pitchside/fantasy-cricket/internal/domain/player"
)

func buildPool() map[string]player.Player {
	pool := make(map[string]player.Player)
	add := func(id string, role player.Role, credits float64) {
		pool[id] = player.Player{ID: id, MatchID: "m1", Name: id, Role: role, Credits: credits}
	}
	add("wk1", player.RoleWicketKeeper, 9)
	add("wk2", player.RoleWicketKeeper, 8)
	add("bat1", player.RoleBatsman, 10)
	add("bat2", player.RoleBatsman, 9.5)
	add("bat3", player.RoleBatsman, 9)
	add("bat4", player.RoleBatsman, 8.5)
	add("bowl1", player.RoleBowler, 9)
	add("bowl2", player.RoleBowler, 8.5)
	add("bowl3", player.RoleBowler, 8)
	add("bowl4", player.RoleBowler, 8)
	add("ar1", player.RoleAllRounder, 9.5)
	add("ar2", player.RoleAllRounder, 9)
	return pool
}

func buildPicks() []TeamPick {
	return []TeamPick{
		{PlayerID: "wk1"},
		{PlayerID: "bat1", IsCaptain: true},
		{PlayerID: "bat2", IsViceCaptain: true},
		{PlayerID: "bat3"},
		{PlayerID: "bat4"},
		{PlayerID: "bowl1"},
		{PlayerID: "bowl2"},
		{PlayerID: "bowl3"},
		{PlayerID: "bowl4"},
		{PlayerID: "ar1"},
		{PlayerID: "ar2"},
	}
}

func TestValidateSelection(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(picks []TeamPick, pool map[string]player.Player, cfg *Rules)
		existingTeams int
		targetErr     error
	}{
		{
			name:      "valid selection",
			mutate:    func(_ []TeamPick, _ map[string]player.Player, _ *Rules) {},
			targetErr: nil,
		},
		{
			name:          "fourth team is still allowed",
			mutate:        func(_ []TeamPick, _ map[string]player.Player, _ *Rules) {},
			existingTeams: 3,
			targetErr:     nil,
		},
		{
			name: "invalid size",
			mutate: func(_ []TeamPick, _ map[string]player.Player, cfg *Rules) {
				cfg.TeamSize = 10
			},
			targetErr: ErrInvalidTeamSize,
		},
		{
			name: "duplicate player",
			mutate: func(picks []TeamPick, _ map[string]player.Player, _ *Rules) {
				picks[3].PlayerID = "wk1"
			},
			targetErr: ErrInvalidTeamSize,
		},
		{
			name: "missing captain",
			mutate: func(picks []TeamPick, _ map[string]player.Player, _ *Rules) {
				picks[1].IsCaptain = false
			},
			targetErr: ErrInvalidLeadership,
		},
		{
			name: "two captains",
			mutate: func(picks []TeamPick, _ map[string]player.Player, _ *Rules) {
				picks[4].IsCaptain = true
			},
			targetErr: ErrInvalidLeadership,
		},
		{
			name: "two vice captains",
			mutate: func(picks []TeamPick, _ map[string]player.Player, _ *Rules) {
				picks[3].IsViceCaptain = true
			},
			targetErr: ErrInvalidLeadership,
		},
		{
			name: "captain doubles as vice captain",
			mutate: func(picks []TeamPick, _ map[string]player.Player, _ *Rules) {
				picks[2].IsViceCaptain = false
				picks[1].IsViceCaptain = true
			},
			targetErr: ErrInvalidLeadership,
		},
		{
			name: "player outside match pool",
			mutate: func(picks []TeamPick, _ map[string]player.Player, _ *Rules) {
				picks[10].PlayerID = "ghost"
			},
			targetErr: ErrUnknownPlayer,
		},
		{
			name: "credit total of 101 is rejected",
			mutate: func(_ []TeamPick, pool map[string]player.Player, _ *Rules) {
				p := pool["bat1"]
				p.Credits = 13 // lifts the pool total to exactly 101
				pool["bat1"] = p
			},
			targetErr: ErrCreditLimitExceeded,
		},
		{
			name: "no wicket keeper",
			mutate: func(picks []TeamPick, pool map[string]player.Player, _ *Rules) {
				p := pool["wk1"]
				p.Role = player.RoleBatsman
				pool["wk1"] = p
			},
			targetErr: ErrInvalidComposition,
		},
		{
			name: "only two batsmen",
			mutate: func(_ []TeamPick, pool map[string]player.Player, _ *Rules) {
				for _, id := range []string{"bat3", "bat4"} {
					p := pool[id]
					p.Role = player.RoleAllRounder
					pool[id] = p
				}
			},
			targetErr: ErrInvalidComposition,
		},
		{
			name: "too few bowlers",
			mutate: func(_ []TeamPick, pool map[string]player.Player, _ *Rules) {
				p := pool["bowl4"]
				p.Role = player.RoleBatsman
				pool["bowl4"] = p

				p = pool["bowl3"]
				p.Role = player.RoleAllRounder
				pool["bowl3"] = p
			},
			targetErr: ErrInvalidComposition,
		},
		{
			name:          "team limit reached",
			mutate:        func(_ []TeamPick, _ map[string]player.Player, _ *Rules) {},
			existingTeams: 4,
			targetErr:     ErrTeamLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			picks := buildPicks()
			pool := buildPool()
			tt.mutate(picks, pool, &rules)

			err := ValidateSelection(picks, pool, tt.existingTeams, rules)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected selection to pass, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}
