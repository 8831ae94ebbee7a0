package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createTeamRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		UserID:    principal.UserID,
		ContestID: req.ContestID,
		MatchID:   req.MatchID,
		Name:      req.Name,
		Picks:     toPickInputs(req.Picks),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed",
			"user_id", principal.UserID, "contest_id", req.ContestID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(team))
}

func (h *Handler) ListMyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	contestID := strings.TrimSpace(r.URL.Query().Get("contest_id"))
	matchID := strings.TrimSpace(r.URL.Query().Get("match_id"))
	if contestID == "" || matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: contest_id and match_id query params are required", usecase.ErrInvalidInput))
		return
	}

	teams, err := h.teamService.ListUserTeams(ctx, principal.UserID, contestID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed",
			"user_id", principal.UserID, "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateTeamRequest
	if err := h.decodeRequest(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	team, err := h.teamService.UpdateTeam(ctx, usecase.UpdateTeamInput{
		TeamID: r.PathValue("teamID"),
		UserID: principal.UserID,
		Picks:  toPickInputs(req.Picks),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed",
			"user_id", principal.UserID, "team_id", r.PathValue("teamID"), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(team))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	if err := h.teamService.DeleteTeam(ctx, teamID, principal.UserID); err != nil {
		h.logger.WarnContext(ctx, "delete team failed",
			"user_id", principal.UserID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": teamID})
}

func (h *Handler) EntryCheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EntryCheck")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	contestID := r.PathValue("contestID")
	matchID := strings.TrimSpace(r.URL.Query().Get("match_id"))
	if matchID == "" {
		found, err := h.contestService.GetContest(ctx, contestID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		matchID = found.MatchID
	}

	result, err := h.teamService.EntryCheck(ctx, principal.UserID, contestID, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "entry check failed",
			"user_id", principal.UserID, "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, entryCheckDTO{
		Existing:  result.Existing,
		Limit:     result.Limit,
		Remaining: result.Remaining,
		CanCreate: result.CanCreate,
	})
}
