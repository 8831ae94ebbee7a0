package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}/players", handler.ListMatchPlayers)
	mux.HandleFunc("GET /v1/matches/{matchID}/contests", handler.ListMatchContests)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/mymatches", RequireAuth(verifier, http.HandlerFunc(handler.TrackMatch)))
	mux.Handle("GET /v1/mymatches", RequireAuth(verifier, http.HandlerFunc(handler.ListTrackedMatches)))

	mux.Handle("POST /v1/contests", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.CreateContest))))
	mux.Handle("GET /v1/contests/{contestID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.ContestLeaderboard)))
	mux.Handle("GET /v1/contests/{contestID}/entry-check", RequireAuth(verifier, http.HandlerFunc(handler.EntryCheck)))

	mux.Handle("POST /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTeams)))
	mux.Handle("PUT /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeam)))
	mux.Handle("DELETE /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteTeam)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync-live", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncLiveJob)))
	mux.Handle("POST /v1/internal/jobs/sync-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncMatchesJob)))
	mux.Handle("POST /v1/internal/jobs/sync-squad", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncSquadJob)))
	mux.Handle("POST /v1/internal/jobs/recompute", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecomputeJob)))
}
