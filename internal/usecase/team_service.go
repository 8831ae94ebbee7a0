package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/platform/cache"
	idgen "github.com/pitchside/fantasy-cricket/internal/platform/id"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// PickInput is a single player selection in an incoming team payload.
type PickInput struct {
	PlayerID      string
	IsCaptain     bool
	IsViceCaptain bool
}

// CreateTeamInput is the incoming payload for team creation. Name is
// optional; an empty name gets the next sequential "Team N" default.
type CreateTeamInput struct {
	UserID    string
	ContestID string
	MatchID   string
	Name      string
	Picks     []PickInput
}

// UpdateTeamInput replaces the picks of an existing team.
type UpdateTeamInput struct {
	TeamID string
	UserID string
	Picks  []PickInput
}

// EntryCheckResult reports how many more teams a user may enter for a
// (contest, match) pair.
type EntryCheckResult struct {
	Existing  int
	Limit     int
	Remaining int
	CanCreate bool
}

// LeaderboardRow is a single ranked entry of a contest leaderboard.
type LeaderboardRow struct {
	Rank        int
	TeamID      string
	TeamName    string
	UserID      string
	TotalPoints float64
}

type TeamService struct {
	matchRepo   match.Repository
	contestRepo contest.Repository
	playerRepo  player.Repository
	teamRepo    fantasy.Repository
	rules       fantasy.Rules
	idGen       idgen.Generator
	boardCache  *cache.Store
	logger      *logging.Logger
	now         func() time.Time
}

func NewTeamService(
	matchRepo match.Repository,
	contestRepo contest.Repository,
	playerRepo player.Repository,
	teamRepo fantasy.Repository,
	rules fantasy.Rules,
	idGen idgen.Generator,
	boardCache *cache.Store,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		matchRepo:   matchRepo,
		contestRepo: contestRepo,
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		rules:       rules,
		idGen:       idGen,
		boardCache:  boardCache,
		logger:      logger,
		now:         time.Now,
	}
}

func leaderboardCacheKey(contestID string) string {
	return "leaderboard:" + contestID
}

func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.ContestID = strings.TrimSpace(input.ContestID)
	input.MatchID = strings.TrimSpace(input.MatchID)

	if input.UserID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.ContestID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}
	if input.MatchID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, err := s.lockCheck(ctx, input.MatchID)
	if err != nil {
		return fantasy.Team{}, err
	}

	c, err := s.contestRepo.GetByID(ctx, input.ContestID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("get contest by id: %w", err)
	}
	if c == nil {
		return fantasy.Team{}, fmt.Errorf("%w: contest=%s", ErrNotFound, input.ContestID)
	}
	if c.MatchID != m.ID {
		return fantasy.Team{}, fmt.Errorf("%w: contest %s does not belong to match %s", ErrInvalidInput, c.ID, m.ID)
	}

	if c.MaxEntries > 0 {
		entries, err := s.teamRepo.ListByContest(ctx, c.ID)
		if err != nil {
			return fantasy.Team{}, fmt.Errorf("list contest entries: %w", err)
		}
		if len(entries) >= c.MaxEntries {
			return fantasy.Team{}, fmt.Errorf("%w: contest %s is full", ErrInvalidInput, c.ID)
		}
	}

	picks := toTeamPicks(input.Picks)
	pool, err := s.matchPlayerPool(ctx, m.ID)
	if err != nil {
		return fantasy.Team{}, err
	}

	existing, err := s.teamRepo.CountByUserContestMatch(ctx, input.UserID, c.ID, m.ID)
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("count user teams: %w", err)
	}

	if err := fantasy.ValidateSelection(picks, pool, existing, s.rules); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return fantasy.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fmt.Sprintf("Team %d", existing+1)
	}

	now := s.now().UTC()
	team := fantasy.Team{
		ID:        teamID,
		UserID:    input.UserID,
		ContestID: c.ID,
		MatchID:   m.ID,
		Name:      name,
		Picks:     picks,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := team.ValidateBasic(); err != nil {
		return fantasy.Team{}, fmt.Errorf("validate team: %w", err)
	}

	if err := s.teamRepo.Create(ctx, &team); err != nil {
		return fantasy.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team created",
		"user_id", team.UserID,
		"contest_id", team.ContestID,
		"match_id", team.MatchID,
		"team_id", team.ID,
		"team_name", team.Name,
	)

	return team, nil
}

func (s *TeamService) UpdateTeam(ctx context.Context, input UpdateTeamInput) (fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateTeam")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.UserID = strings.TrimSpace(input.UserID)
	if input.TeamID == "" || input.UserID == "" {
		return fantasy.Team{}, fmt.Errorf("%w: team_id and user_id are required", ErrInvalidInput)
	}

	team, err := s.ownedTeam(ctx, input.TeamID, input.UserID)
	if err != nil {
		return fantasy.Team{}, err
	}

	if _, err := s.lockCheck(ctx, team.MatchID); err != nil {
		return fantasy.Team{}, err
	}

	picks := toTeamPicks(input.Picks)
	pool, err := s.matchPlayerPool(ctx, team.MatchID)
	if err != nil {
		return fantasy.Team{}, err
	}

	// Replacing picks never adds an entry, so the per-user team cap does
	// not apply here.
	if err := fantasy.ValidateSelection(picks, pool, 0, s.rules); err != nil {
		return fantasy.Team{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	team.Picks = picks
	team.UpdatedAt = s.now().UTC()
	if err := s.teamRepo.UpdatePicks(ctx, team); err != nil {
		return fantasy.Team{}, fmt.Errorf("update team picks: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team updated",
		"user_id", team.UserID,
		"team_id", team.ID,
	)

	return *team, nil
}

func (s *TeamService) DeleteTeam(ctx context.Context, teamID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeleteTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	userID = strings.TrimSpace(userID)
	if teamID == "" || userID == "" {
		return fmt.Errorf("%w: team_id and user_id are required", ErrInvalidInput)
	}

	team, err := s.ownedTeam(ctx, teamID, userID)
	if err != nil {
		return err
	}

	if _, err := s.lockCheck(ctx, team.MatchID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, team.ID); err != nil {
		return fmt.Errorf("delete team: %w", err)
	}

	s.logger.InfoContext(ctx, "fantasy team deleted",
		"user_id", userID,
		"team_id", teamID,
	)

	return nil
}

func (s *TeamService) ListUserTeams(ctx context.Context, userID, contestID, matchID string) ([]fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListUserTeams")
	defer span.End()

	userID = strings.TrimSpace(userID)
	contestID = strings.TrimSpace(contestID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || contestID == "" || matchID == "" {
		return nil, fmt.Errorf("%w: user_id, contest_id and match_id are required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByUserContestMatch(ctx, userID, contestID, matchID)
	if err != nil {
		return nil, fmt.Errorf("list user teams: %w", err)
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})

	return teams, nil
}

func (s *TeamService) EntryCheck(ctx context.Context, userID, contestID, matchID string) (EntryCheckResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.EntryCheck")
	defer span.End()

	userID = strings.TrimSpace(userID)
	contestID = strings.TrimSpace(contestID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || contestID == "" || matchID == "" {
		return EntryCheckResult{}, fmt.Errorf("%w: user_id, contest_id and match_id are required", ErrInvalidInput)
	}

	existing, err := s.teamRepo.CountByUserContestMatch(ctx, userID, contestID, matchID)
	if err != nil {
		return EntryCheckResult{}, fmt.Errorf("count user teams: %w", err)
	}

	remaining := s.rules.MaxTeamsPerUser - existing
	if remaining < 0 {
		remaining = 0
	}

	return EntryCheckResult{
		Existing:  existing,
		Limit:     s.rules.MaxTeamsPerUser,
		Remaining: remaining,
		CanCreate: remaining > 0,
	}, nil
}

// ContestLeaderboard returns the ranked entries of a contest. Results
// are served from a short-lived cache that scoring invalidates after
// each recompute.
func (s *TeamService) ContestLeaderboard(ctx context.Context, contestID string) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ContestLeaderboard")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	c, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("get contest by id: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	load := func(ctx context.Context) (any, error) {
		teams, err := s.teamRepo.ListByContest(ctx, contestID)
		if err != nil {
			return nil, fmt.Errorf("list contest teams: %w", err)
		}

		ranked := fantasy.Standings(teams)
		rows := make([]LeaderboardRow, 0, len(ranked))
		for _, team := range ranked {
			rows = append(rows, LeaderboardRow{
				Rank:        team.Rank,
				TeamID:      team.ID,
				TeamName:    team.Name,
				UserID:      team.UserID,
				TotalPoints: team.TotalPoints,
			})
		}
		return rows, nil
	}

	if s.boardCache == nil {
		rows, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return rows.([]LeaderboardRow), nil
	}

	value, err := s.boardCache.GetOrLoad(ctx, leaderboardCacheKey(contestID), load)
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]LeaderboardRow)
	if !ok {
		return nil, fmt.Errorf("unexpected leaderboard cache entry for contest=%s", contestID)
	}
	return rows, nil
}

func (s *TeamService) ownedTeam(ctx context.Context, teamID, userID string) (*fantasy.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("get team by id: %w", err)
	}
	if team == nil {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if team.UserID != userID {
		return nil, fmt.Errorf("%w: team %s does not belong to user", ErrUnauthorized, teamID)
	}
	return team, nil
}

// lockCheck verifies the match exists and entries are still open. Teams
// are frozen from the first ball onward.
func (s *TeamService) lockCheck(ctx context.Context, matchID string) (*match.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("get match by id: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if m.HasStarted(s.now().UTC()) {
		return nil, fmt.Errorf("%w: match %s has already started", ErrInvalidInput, m.ID)
	}
	return m, nil
}

func (s *TeamService) matchPlayerPool(ctx context.Context, matchID string) (map[string]player.Player, error) {
	players, err := s.playerRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match players: %w", err)
	}

	pool := make(map[string]player.Player, len(players))
	for _, p := range players {
		pool[p.ID] = p
	}
	return pool, nil
}

func toTeamPicks(picks []PickInput) []fantasy.TeamPick {
	out := make([]fantasy.TeamPick, 0, len(picks))
	for _, pick := range picks {
		out = append(out, fantasy.TeamPick{
			PlayerID:      strings.TrimSpace(pick.PlayerID),
			IsCaptain:     pick.IsCaptain,
			IsViceCaptain: pick.IsViceCaptain,
		})
	}
	return out
}
