package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

type Handler struct {
	matchService    *usecase.MatchService
	myMatchService  *usecase.MyMatchService
	contestService  *usecase.ContestService
	teamService     *usecase.TeamService
	liveSyncService *usecase.LiveStatsSyncService
	matchSync       *usecase.MatchSyncService
	scoringService  *usecase.ScoringService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	myMatchService *usecase.MyMatchService,
	contestService *usecase.ContestService,
	teamService *usecase.TeamService,
	liveSyncService *usecase.LiveStatsSyncService,
	matchSync *usecase.MatchSyncService,
	scoringService *usecase.ScoringService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:    matchService,
		myMatchService:  myMatchService,
		contestService:  contestService,
		teamService:     teamService,
		liveSyncService: liveSyncService,
		matchSync:       matchSync,
		scoringService:  scoringService,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	statusCode := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: status must be numeric", usecase.ErrInvalidInput))
			return
		}
		statusCode = parsed
	}

	matches, err := h.matchService.ListMatches(ctx, statusCode)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "status", statusCode, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPlayers")
	defer span.End()

	matchID := r.PathValue("matchID")
	players, err := h.matchService.ListPlayers(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match players failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatchContests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchContests")
	defer span.End()

	matchID := r.PathValue("matchID")
	contests, err := h.contestService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match contests failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]contestDTO, 0, len(contests))
	for _, c := range contests {
		items = append(items, contestToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContest")
	defer span.End()

	var req createContestRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.contestService.CreateContest(ctx, usecase.CreateContestInput{
		MatchID:        req.MatchID,
		Name:           req.Name,
		EntryFee:       req.EntryFee,
		TotalPrizePool: req.TotalPrizePool,
		FirstPrize:     req.FirstPrize,
		SecondPrize:    req.SecondPrize,
		MaxEntries:     req.MaxEntries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contest failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contestToDTO(created))
}

func (h *Handler) ContestLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ContestLeaderboard")
	defer span.End()

	contestID := r.PathValue("contestID")
	rows, err := h.teamService.ContestLeaderboard(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "contest leaderboard failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowDTO{
			Rank:        row.Rank,
			TeamID:      row.TeamID,
			TeamName:    row.TeamName,
			UserID:      row.UserID,
			TotalPoints: row.TotalPoints,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
