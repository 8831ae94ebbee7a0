package player

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of cricket role categories used by the team rules.
type Role string

const (
	RoleWicketKeeper Role = "wicket-keeper"
	RoleBatsman      Role = "batsman"
	RoleAllRounder   Role = "all-rounder"
	RoleBowler       Role = "bowler"
)

var AllRoles = map[Role]struct{}{
	RoleWicketKeeper: {},
	RoleBatsman:      {},
	RoleAllRounder:   {},
	RoleBowler:       {},
}

// ParseRole maps provider role spellings onto the closed enum.
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "wicket-keeper", "wicketkeeper", "wk", "keeper":
		return RoleWicketKeeper, nil
	case "batsman", "bat", "batter":
		return RoleBatsman, nil
	case "all-rounder", "allrounder", "all":
		return RoleAllRounder, nil
	case "bowler", "bowl":
		return RoleBowler, nil
	default:
		return "", fmt.Errorf("unknown player role %q", raw)
	}
}

// LiveStats holds the raw match performance counters the provider reports.
// Batting and bowling subsets are merged independently by the live sync.
type LiveStats struct {
	Runs         int
	BallsFaced   int
	Fours        int
	Sixes        int
	StrikeRate   float64
	OversBowled  float64
	RunsConceded int
	Wickets      int
	Maidens      int
	Economy      float64
}

// Player is one selectable athlete within a single match's pool.
// FantasyPoints and PointsComputedAt are recomputed projections of Stats,
// written only by the live-stats sync.
type Player struct {
	ID               string
	PlayerRefID      int64
	MatchID          string
	Name             string
	Role             Role
	Credits          float64
	IsPlaying        bool
	Stats            LiveStats
	FantasyPoints    int
	PointsComputedAt *time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("player id is required")
	}
	if p.PlayerRefID <= 0 {
		return fmt.Errorf("player ref id must be greater than zero")
	}
	if strings.TrimSpace(p.MatchID) == "" {
		return fmt.Errorf("player match id is required")
	}
	if _, ok := AllRoles[p.Role]; !ok {
		return fmt.Errorf("invalid player role: %s", p.Role)
	}
	if p.Credits < 1 || p.Credits > 10 {
		return fmt.Errorf("player credits must be within [1, 10], got %.1f", p.Credits)
	}
	return nil
}
