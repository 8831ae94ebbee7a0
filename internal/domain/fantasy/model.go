package fantasy

import (
	"fmt"
	"strings"
	"time"
)

// TeamPick is one selected player in a fantasy team. Exactly one pick in a
// team carries IsCaptain and exactly one carries IsViceCaptain.
type TeamPick struct {
	PlayerID      string
	IsCaptain     bool
	IsViceCaptain bool
}

// Team is one user's fantasy entry into a contest. TotalPoints, Rank and
// PointsComputedAt are projections owned by the scoring engine; roster
// fields are owned by the user-triggered create/update path.
type Team struct {
	ID               string
	UserID           string
	ContestID        string
	MatchID          string
	Name             string
	Picks            []TeamPick
	TotalPoints      float64
	Rank             int
	PointsComputedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (t Team) ValidateBasic() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("team id is required")
	}
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("team user id is required")
	}
	if strings.TrimSpace(t.ContestID) == "" {
		return fmt.Errorf("team contest id is required")
	}
	if strings.TrimSpace(t.MatchID) == "" {
		return fmt.Errorf("team match id is required")
	}
	if len(t.Picks) == 0 {
		return fmt.Errorf("team picks are required")
	}
	return nil
}

// CaptainID returns the captain pick's player id, empty when unset.
func (t Team) CaptainID() string {
	for _, pick := range t.Picks {
		if pick.IsCaptain {
			return pick.PlayerID
		}
	}
	return ""
}

// ViceCaptainID returns the vice-captain pick's player id, empty when unset.
func (t Team) ViceCaptainID() string {
	for _, pick := range t.Picks {
		if pick.IsViceCaptain {
			return pick.PlayerID
		}
	}
	return ""
}
