package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// MatchService serves the read side of the match catalogue.
type MatchService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	logger     *logging.Logger
}

func NewMatchService(matchRepo match.Repository, playerRepo player.Repository, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		logger:     logger,
	}
}

// ListMatches returns matches in one status, or all statuses in code
// order when statusCode is zero.
func (s *MatchService) ListMatches(ctx context.Context, statusCode int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	statuses := match.AllStatuses
	if statusCode != 0 {
		status, err := match.ParseStatusCode(statusCode)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		statuses = []match.Status{status}
	}

	var out []match.Match
	for _, status := range statuses {
		items, err := s.matchRepo.ListByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("list matches by status %s: %w", status, err)
		}
		out = append(out, items...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (s *MatchService) GetMatch(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by id: %w", err)
	}
	if m == nil {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	return *m, nil
}

// ListPlayers returns the squad pool of a match, credit-expensive first.
func (s *MatchService) ListPlayers(ctx context.Context, matchID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListPlayers")
	defer span.End()

	if _, err := s.GetMatch(ctx, matchID); err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match players: %w", err)
	}

	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Credits != players[j].Credits {
			return players[i].Credits > players[j].Credits
		}
		return players[i].Name < players[j].Name
	})

	return players, nil
}
