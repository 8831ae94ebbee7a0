package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	idgen "github.com/pitchside/fantasy-cricket/internal/platform/id"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// CreateContestInput is the admin payload for opening a contest.
type CreateContestInput struct {
	MatchID        string
	Name           string
	EntryFee       int64
	TotalPrizePool int64
	FirstPrize     int64
	SecondPrize    int64
	MaxEntries     int
}

type ContestService struct {
	matchRepo   match.Repository
	contestRepo contest.Repository
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewContestService(
	matchRepo match.Repository,
	contestRepo contest.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ContestService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ContestService{
		matchRepo:   matchRepo,
		contestRepo: contestRepo,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateContest opens a contest for a match that has not started yet.
func (s *ContestService) CreateContest(ctx context.Context, input CreateContestInput) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.CreateContest")
	defer span.End()

	input.MatchID = strings.TrimSpace(input.MatchID)
	input.Name = strings.TrimSpace(input.Name)
	if input.MatchID == "" {
		return contest.Contest{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest name is required", ErrInvalidInput)
	}

	m, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get match by id: %w", err)
	}
	if m == nil {
		return contest.Contest{}, fmt.Errorf("%w: match=%s", ErrNotFound, input.MatchID)
	}
	if m.HasStarted(s.now().UTC()) {
		return contest.Contest{}, fmt.Errorf("%w: match %s has already started", ErrInvalidInput, m.ID)
	}

	contestID, err := s.idGen.NewID()
	if err != nil {
		return contest.Contest{}, fmt.Errorf("generate contest id: %w", err)
	}

	c := contest.Contest{
		ID:             contestID,
		MatchID:        m.ID,
		Name:           input.Name,
		EntryFee:       input.EntryFee,
		TotalPrizePool: input.TotalPrizePool,
		FirstPrize:     input.FirstPrize,
		SecondPrize:    input.SecondPrize,
		MaxEntries:     input.MaxEntries,
		CreatedAt:      s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return contest.Contest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.contestRepo.Create(ctx, &c); err != nil {
		return contest.Contest{}, fmt.Errorf("create contest: %w", err)
	}

	s.logger.InfoContext(ctx, "contest created",
		"contest_id", c.ID,
		"match_id", c.MatchID,
		"name", c.Name,
	)

	return c, nil
}

// ListByMatch returns the contests of a match, cheapest entry first.
func (s *ContestService) ListByMatch(ctx context.Context, matchID string) ([]contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.ListByMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	contests, err := s.contestRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list contests by match: %w", err)
	}

	sort.SliceStable(contests, func(i, j int) bool {
		if contests[i].EntryFee != contests[j].EntryFee {
			return contests[i].EntryFee < contests[j].EntryFee
		}
		return contests[i].ID < contests[j].ID
	})

	return contests, nil
}

func (s *ContestService) GetContest(ctx context.Context, contestID string) (contest.Contest, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ContestService.GetContest")
	defer span.End()

	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return contest.Contest{}, fmt.Errorf("%w: contest id is required", ErrInvalidInput)
	}

	c, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return contest.Contest{}, fmt.Errorf("get contest by id: %w", err)
	}
	if c == nil {
		return contest.Contest{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	return *c, nil
}
