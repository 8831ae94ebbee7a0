package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/domain/user"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/pitchside/fantasy-cricket/internal/platform/cache"
	idgen "github.com/pitchside/fantasy-cricket/internal/platform/id"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

const routerTestMatchID = "t20-router-test"

func routerTestPlayers() []player.Player {
	roles := []player.Role{
		player.RoleWicketKeeper,
		player.RoleBatsman, player.RoleBatsman, player.RoleBatsman, player.RoleBatsman,
		player.RoleBowler, player.RoleBowler, player.RoleBowler, player.RoleBowler,
		player.RoleAllRounder, player.RoleAllRounder,
	}
	out := make([]player.Player, 0, len(roles))
	for i, role := range roles {
		out = append(out, player.Player{
			ID:          fmt.Sprintf("%s-p%02d", routerTestMatchID, i+1),
			PlayerRefID: int64(77000 + i + 1),
			MatchID:     routerTestMatchID,
			Name:        fmt.Sprintf("Player %02d", i+1),
			Role:        role,
			Credits:     8,
			IsPlaying:   true,
		})
	}
	return out
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	upcoming := match.Match{
		ID:         routerTestMatchID,
		MatchRefID: 77001,
		Title:      "IND vs AUS, router test",
		TeamA:      "IND",
		TeamB:      "AUS",
		Format:     "t20",
		Venue:      "Wankhede Stadium",
		StartsAt:   time.Now().Add(24 * time.Hour),
		Status:     match.StatusScheduled,
	}

	matchRepo := memory.NewMatchRepository([]match.Match{upcoming})
	myMatchRepo := memory.NewMyMatchRepository(nil)
	playerRepo := memory.NewPlayerRepository(routerTestPlayers())
	contestRepo := memory.NewContestRepository([]contest.Contest{{
		ID:         "contest-router",
		MatchID:    routerTestMatchID,
		Name:       "Router Mega",
		EntryFee:   10,
		MaxEntries: 100,
		CreatedAt:  time.Now(),
	}})
	teamRepo := memory.NewTeamRepository(nil)

	logger := logging.NewNop()
	boardCache := cache.NewStore(time.Minute)
	gen := idgen.NewRandomGenerator()

	matchService := usecase.NewMatchService(matchRepo, playerRepo, logger)
	myMatchService := usecase.NewMyMatchService(matchRepo, myMatchRepo, logger)
	contestService := usecase.NewContestService(matchRepo, contestRepo, gen, logger)
	teamService := usecase.NewTeamService(matchRepo, contestRepo, playerRepo, teamRepo, fantasy.DefaultRules(), gen, boardCache, logger)
	scoringService := usecase.NewScoringService(matchRepo, playerRepo, teamRepo, boardCache, logger)

	handler := NewHandler(matchService, myMatchService, contestService, teamService, nil, nil, scoringService, logger)

	verifier := stubVerifier{principal: user.Principal{UserID: "router-user", IsAdmin: true}}
	return NewRouter(handler, verifier, logger, nil, "job-secret")
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_ListMatches(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one match, got %v", body["data"])
	}
}

func TestRouter_TrackAndListMyMatches(t *testing.T) {
	router := newTestRouter(t)

	payload := fmt.Sprintf(`{"match_id":%q}`, routerTestMatchID)
	req := httptest.NewRequest(http.MethodPost, "/v1/mymatches", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/mymatches", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one tracked match, got %v", body["data"])
	}
}

func TestRouter_TeamLifecycle(t *testing.T) {
	router := newTestRouter(t)

	picks := make([]string, 0, 11)
	for i := 1; i <= 11; i++ {
		entry := fmt.Sprintf(`{"player_id":"%s-p%02d"`, routerTestMatchID, i)
		switch i {
		case 2:
			entry += `,"is_captain":true`
		case 3:
			entry += `,"is_vice_captain":true`
		}
		entry += "}"
		picks = append(picks, entry)
	}
	payload := fmt.Sprintf(`{"contest_id":"contest-router","match_id":%q,"picks":[%s]}`,
		routerTestMatchID, strings.Join(picks, ","))

	req := httptest.NewRequest(http.MethodPost, "/v1/teams", strings.NewReader(payload))
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	created := decodeEnvelope(t, rec)
	team, ok := created["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected team payload, got %v", created["data"])
	}
	if got, _ := team["name"].(string); got != "Team 1" {
		t.Fatalf("expected default name \"Team 1\", got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet,
		"/v1/teams?contest_id=contest-router&match_id="+routerTestMatchID, nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	listed := decodeEnvelope(t, rec)
	data, ok := listed["data"].([]any)
	if !ok || len(data) != 1 {
		t.Fatalf("expected one team, got %v", listed["data"])
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/contests/contest-router/leaderboard", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	board := decodeEnvelope(t, rec)
	rows, ok := board["data"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one leaderboard row, got %v", board["data"])
	}
	row, _ := rows[0].(map[string]any)
	if got, _ := row["rank"].(float64); got != 1 {
		t.Fatalf("expected rank 1, got %v", row["rank"])
	}
}

func TestRouter_EntryCheck(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/contests/contest-router/entry-check", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected entry check payload, got %v", body["data"])
	}
	if got, _ := data["can_create"].(bool); !got {
		t.Fatalf("expected can_create=true, got %v", data["can_create"])
	}
	if got, _ := data["limit"].(float64); got != 4 {
		t.Fatalf("expected limit 4, got %v", data["limit"])
	}
}

func TestRouter_InternalJobRequiresToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recompute", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_RecomputeJobWithToken(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recompute", nil)
	req.Header.Set("X-Internal-Job-Token", "job-secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}
