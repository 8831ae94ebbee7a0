package cricketdata

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
	"github.com/pitchside/fantasy-cricket/internal/platform/resilience"
	"github.com/pitchside/fantasy-cricket/internal/usecase"

	"github.com/pitchside/fantasy-cricket/internal/domain/match"
)

const (
	defaultBaseURL = "https://api.cricketdata.example.com/v1"
	defaultPerPage = 100
	maxBodyBytes   = 6 << 20
	defaultTimeout = 20 * time.Second
)

var tokenParamRegex = regexp.MustCompile(`token=[^&\s"']+`)

// errCricketDataTransient marks failures worth retrying and counting
// against the circuit breaker.
var errCricketDataTransient = crerr.New("cricketdata transient failure")

// errNoData marks a 404 or empty-body response. The feed publishes
// scorecards and squads lazily, so "nothing there yet" is normal.
var errNoData = stderrors.New("cricketdata: no data")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the cricket-data feed. It implements
// usecase.CricketDataProvider.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}
	transport := httpClient.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	httpClient.Transport = otelhttp.NewTransport(transport)

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.ProbeQuota),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (c *Client) FetchMatchesByStatus(ctx context.Context, status match.Status) ([]usecase.ExternalMatch, error) {
	query := map[string]string{
		"status":   strconv.Itoa(int(status)),
		"per_page": strconv.Itoa(defaultPerPage),
	}

	var envelope matchesEnvelope
	if err := c.doJSON(ctx, "/matches", query, &envelope); err != nil {
		if stderrors.Is(err, errNoData) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch matches status=%d: %w", int(status), err)
	}

	out := make([]usecase.ExternalMatch, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.ID <= 0 {
			continue
		}
		startsAt, err := parseFeedTime(item.StartsAt)
		if err != nil {
			c.logger.WarnContext(ctx, "skip match with unparseable start time",
				"match_ref_id", item.ID, "starts_at", item.StartsAt)
			continue
		}
		out = append(out, usecase.ExternalMatch{
			RefID:      item.ID,
			Title:      strings.TrimSpace(item.Title),
			TeamA:      strings.TrimSpace(item.TeamA),
			TeamB:      strings.TrimSpace(item.TeamB),
			Format:     strings.TrimSpace(item.Format),
			Venue:      strings.TrimSpace(item.Venue),
			StartsAt:   startsAt,
			StatusCode: item.Status,
		})
	}
	return out, nil
}

func (c *Client) FetchLiveScorecard(ctx context.Context, matchRefID int64) (usecase.ExternalScorecard, error) {
	if matchRefID <= 0 {
		return usecase.ExternalScorecard{}, fmt.Errorf("match ref id must be greater than zero")
	}

	path := fmt.Sprintf("/matches/%d/live", matchRefID)
	var payload scorecardPayload
	if err := c.doJSON(ctx, path, nil, &payload); err != nil {
		if stderrors.Is(err, errNoData) {
			return usecase.ExternalScorecard{}, nil
		}
		return usecase.ExternalScorecard{}, fmt.Errorf("fetch live scorecard match_ref_id=%d: %w", matchRefID, err)
	}

	card := usecase.ExternalScorecard{
		Batsmen: make([]usecase.ExternalBattingStat, 0, len(payload.Batsmen)),
		Bowlers: make([]usecase.ExternalBowlingStat, 0, len(payload.Bowlers)),
	}
	for _, entry := range payload.Batsmen {
		if entry.PlayerID <= 0 {
			continue
		}
		card.Batsmen = append(card.Batsmen, usecase.ExternalBattingStat{
			PlayerRefID: entry.PlayerID,
			Runs:        entry.Runs,
			BallsFaced:  entry.Balls,
			Fours:       entry.Fours,
			Sixes:       entry.Sixes,
			StrikeRate:  entry.StrikeRate,
		})
	}
	for _, entry := range payload.Bowlers {
		if entry.PlayerID <= 0 {
			continue
		}
		card.Bowlers = append(card.Bowlers, usecase.ExternalBowlingStat{
			PlayerRefID:  entry.PlayerID,
			OversBowled:  entry.Overs,
			RunsConceded: entry.RunsConceded,
			Wickets:      entry.Wickets,
			Maidens:      entry.Maidens,
			Economy:      entry.Economy,
		})
	}
	return card, nil
}

func (c *Client) FetchSquads(ctx context.Context, matchRefID int64) ([]usecase.ExternalSquadPlayer, error) {
	if matchRefID <= 0 {
		return nil, fmt.Errorf("match ref id must be greater than zero")
	}

	path := fmt.Sprintf("/matches/%d/squads", matchRefID)
	var envelope squadsEnvelope
	if err := c.doJSON(ctx, path, nil, &envelope); err != nil {
		if stderrors.Is(err, errNoData) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch squads match_ref_id=%d: %w", matchRefID, err)
	}

	out := make([]usecase.ExternalSquadPlayer, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		if item.PlayerID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalSquadPlayer{
			RefID:     item.PlayerID,
			Name:      strings.TrimSpace(item.Name),
			Role:      strings.TrimSpace(item.Role),
			Credits:   item.Rating,
			IsPlaying: item.PlayingXI,
		})
	}
	return out, nil
}

type matchesEnvelope struct {
	Data []feedMatch `json:"data"`
}

type feedMatch struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	TeamA    string `json:"team_a"`
	TeamB    string `json:"team_b"`
	Format   string `json:"format"`
	Venue    string `json:"venue"`
	StartsAt string `json:"starts_at"`
	Status   int    `json:"status"`
}

type scorecardPayload struct {
	Batsmen []feedBattingEntry `json:"batsmen"`
	Bowlers []feedBowlingEntry `json:"bowlers"`
}

type feedBattingEntry struct {
	PlayerID   int64   `json:"player_id"`
	Runs       int     `json:"runs"`
	Balls      int     `json:"balls"`
	Fours      int     `json:"fours"`
	Sixes      int     `json:"sixes"`
	StrikeRate float64 `json:"strike_rate"`
}

type feedBowlingEntry struct {
	PlayerID     int64   `json:"player_id"`
	Overs        float64 `json:"overs"`
	RunsConceded int     `json:"runs_conceded"`
	Wickets      int     `json:"wickets"`
	Maidens      int     `json:"maidens"`
	Economy      float64 `json:"economy"`
}

type squadsEnvelope struct {
	Data []feedSquadPlayer `json:"data"`
}

type feedSquadPlayer struct {
	PlayerID  int64   `json:"player_id"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	Rating    float64 `json:"rating"`
	PlayingXI bool    `json:"playing_xi"`
}

func parseFeedTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(raw))
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricketdata circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: cricket data feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	values.Set("token", c.token)

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if len(raw) == 0 {
		return errNoData
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode feed payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errCricketDataTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errCricketDataTransient, readErr)
			case resp.StatusCode == http.StatusNotFound:
				return nil, errNoData
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errCricketDataTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("feed status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("feed request failed")
	}
	c.logger.WarnContext(ctx, "cricketdata request failed", "url", redactTokenURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(body, maxBodyBytes)); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errCricketDataTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactTokenURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "token=REDACTED")
}
