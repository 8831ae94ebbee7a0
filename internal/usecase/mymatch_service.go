package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

// MyMatchService manages the matches a user explicitly tracks.
type MyMatchService struct {
	matchRepo   match.Repository
	myMatchRepo mymatch.Repository
	logger      *logging.Logger
	now         func() time.Time
}

func NewMyMatchService(matchRepo match.Repository, myMatchRepo mymatch.Repository, logger *logging.Logger) *MyMatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MyMatchService{
		matchRepo:   matchRepo,
		myMatchRepo: myMatchRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// TrackMatch adds a match to the user's tracked list. Tracking the same
// match twice is a no-op returning the stored row.
func (s *MyMatchService) TrackMatch(ctx context.Context, userID, matchID string) (mymatch.TrackedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MyMatchService.TrackMatch")
	defer span.End()

	userID = strings.TrimSpace(userID)
	matchID = strings.TrimSpace(matchID)
	if userID == "" || matchID == "" {
		return mymatch.TrackedMatch{}, fmt.Errorf("%w: user_id and match_id are required", ErrInvalidInput)
	}

	m, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return mymatch.TrackedMatch{}, fmt.Errorf("get match by id: %w", err)
	}
	if m == nil {
		return mymatch.TrackedMatch{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	tracked := mymatch.FromMatch(userID, *m, s.now().UTC())
	if err := s.myMatchRepo.Add(ctx, tracked); err != nil {
		return mymatch.TrackedMatch{}, fmt.Errorf("add tracked match: %w", err)
	}

	s.logger.InfoContext(ctx, "match tracked",
		"user_id", userID,
		"match_id", matchID,
	)

	return tracked, nil
}

// ListTracked returns the user's tracked matches, soonest start first.
func (s *MyMatchService) ListTracked(ctx context.Context, userID string) ([]mymatch.TrackedMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MyMatchService.ListTracked")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	tracked, err := s.myMatchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tracked matches: %w", err)
	}

	sort.SliceStable(tracked, func(i, j int) bool {
		if !tracked[i].StartsAt.Equal(tracked[j].StartsAt) {
			return tracked[i].StartsAt.Before(tracked[j].StartsAt)
		}
		return tracked[i].MatchID < tracked[j].MatchID
	})

	return tracked, nil
}
