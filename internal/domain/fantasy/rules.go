package fantasy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pitchside/fantasy-cricket/internal/domain/player"
)

var (
	ErrInvalidTeamSize     = errors.New("invalid team size")
	ErrInvalidLeadership   = errors.New("invalid captain assignment")
	ErrUnknownPlayer       = errors.New("unknown player in selection")
	ErrCreditLimitExceeded = errors.New("credit cap exceeded")
	ErrInvalidComposition  = errors.New("minimum role requirement not met")
	ErrTeamLimitReached    = errors.New("max teams per contest reached")
)

// Rules stores fantasy team validation parameters.
type Rules struct {
	TeamSize        int
	CreditCap       float64
	MaxTeamsPerUser int
	MinByRole       map[player.Role]int
}

func DefaultRules() Rules {
	return Rules{
		TeamSize:        11,
		CreditCap:       100,
		MaxTeamsPerUser: 4,
		MinByRole: map[player.Role]int{
			player.RoleWicketKeeper: 1,
			player.RoleBatsman:      3,
			player.RoleBowler:       3,
			player.RoleAllRounder:   1,
		},
	}
}

// ValidateSelection checks a candidate team against the composition rules.
// pool maps player id to the match's player record; existingTeams is the
// user's current team count for the target (contest, match). Rules are
// applied in a fixed order and fail fast on the first violation.
func ValidateSelection(picks []TeamPick, pool map[string]player.Player, existingTeams int, rules Rules) error {
	if len(picks) != rules.TeamSize {
		return fmt.Errorf("%w: expected %d, got %d", ErrInvalidTeamSize, rules.TeamSize, len(picks))
	}

	seen := make(map[string]struct{}, len(picks))
	captains := 0
	viceCaptains := 0
	var captainID, viceCaptainID string
	for _, pick := range picks {
		id := strings.TrimSpace(pick.PlayerID)
		if id == "" {
			return fmt.Errorf("%w: player id is required", ErrInvalidTeamSize)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("%w: duplicate player %s", ErrInvalidTeamSize, id)
		}
		seen[id] = struct{}{}

		if pick.IsCaptain {
			captains++
			captainID = id
		}
		if pick.IsViceCaptain {
			viceCaptains++
			viceCaptainID = id
		}
	}

	if captains != 1 || viceCaptains != 1 {
		return fmt.Errorf("%w: captains=%d vice_captains=%d, expected exactly one of each", ErrInvalidLeadership, captains, viceCaptains)
	}
	if captainID == viceCaptainID {
		return fmt.Errorf("%w: captain and vice captain must be different players", ErrInvalidLeadership)
	}

	missing := make([]string, 0)
	for id := range seen {
		if _, ok := pool[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, strings.Join(missing, ", "))
	}

	var totalCredits float64
	roleCounter := make(map[player.Role]int, len(rules.MinByRole))
	for id := range seen {
		p := pool[id]
		totalCredits += p.Credits
		roleCounter[p.Role]++
	}

	if totalCredits > rules.CreditCap {
		return fmt.Errorf("%w: cap=%.1f used=%.1f", ErrCreditLimitExceeded, rules.CreditCap, totalCredits)
	}

	for _, role := range []player.Role{player.RoleWicketKeeper, player.RoleBatsman, player.RoleBowler, player.RoleAllRounder} {
		minRequired := rules.MinByRole[role]
		if roleCounter[role] < minRequired {
			return fmt.Errorf("%w: role=%s min=%d current=%d", ErrInvalidComposition, role, minRequired, roleCounter[role])
		}
	}

	if existingTeams >= rules.MaxTeamsPerUser {
		return fmt.Errorf("%w: max=%d current=%d", ErrTeamLimitReached, rules.MaxTeamsPerUser, existingTeams)
	}

	return nil
}
