package httpapi

import (
	"fmt"
	"net/http"

	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

func (h *Handler) TrackMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TrackMatch")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req trackMatchRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	tracked, err := h.myMatchService.TrackMatch(ctx, principal.UserID, req.MatchID)
	if err != nil {
		h.logger.WarnContext(ctx, "track match failed", "user_id", principal.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, trackedMatchToDTO(tracked))
}

func (h *Handler) ListTrackedMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTrackedMatches")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tracked, err := h.myMatchService.ListTracked(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list tracked matches failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]trackedMatchDTO, 0, len(tracked))
	for _, t := range tracked {
		items = append(items, trackedMatchToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}
