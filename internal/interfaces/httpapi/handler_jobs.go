package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

func (h *Handler) RunSyncLiveJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLiveJob")
	defer span.End()

	if h.liveSyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: cricket data provider is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.liveSyncService.SyncLiveMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync live job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncMatchesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncMatchesJob")
	defer span.End()

	if h.matchSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: cricket data provider is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.matchSync.SyncMatches(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync matches job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSyncSquadJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncSquadJob")
	defer span.End()

	if h.matchSync == nil {
		writeError(ctx, w, fmt.Errorf("%w: cricket data provider is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	matchID := strings.TrimSpace(r.URL.Query().Get("match_id"))
	if matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: match_id query param is required", usecase.ErrInvalidInput))
		return
	}

	imported, err := h.matchSync.SyncSquad(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync squad job failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"match_id": matchID,
		"imported": imported,
	})
}

func (h *Handler) RunRecomputeJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecomputeJob")
	defer span.End()

	if matchID := strings.TrimSpace(r.URL.Query().Get("match_id")); matchID != "" {
		result, err := h.scoringService.RecomputeMatch(ctx, matchID)
		if err != nil {
			h.logger.WarnContext(ctx, "run recompute job failed", "match_id", matchID, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, result)
		return
	}

	maxWorkers := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("max_workers")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: max_workers must be numeric", usecase.ErrInvalidInput))
			return
		}
		maxWorkers = parsed
	}

	result, err := h.scoringService.RecomputeAll(ctx, maxWorkers)
	if err != nil {
		h.logger.WarnContext(ctx, "run recompute sweep failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
