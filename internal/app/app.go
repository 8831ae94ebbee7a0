package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pitchside/fantasy-cricket/external/cricketdata"
	"github.com/pitchside/fantasy-cricket/internal/config"
	"github.com/pitchside/fantasy-cricket/internal/domain/contest"
	"github.com/pitchside/fantasy-cricket/internal/domain/fantasy"
	"github.com/pitchside/fantasy-cricket/internal/domain/match"
	"github.com/pitchside/fantasy-cricket/internal/domain/mymatch"
	"github.com/pitchside/fantasy-cricket/internal/domain/player"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/account/introspect"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/memory"
	"github.com/pitchside/fantasy-cricket/internal/infrastructure/repository/postgres"
	"github.com/pitchside/fantasy-cricket/internal/interfaces/httpapi"
	"github.com/pitchside/fantasy-cricket/internal/platform/cache"
	idgen "github.com/pitchside/fantasy-cricket/internal/platform/id"
	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
	"github.com/pitchside/fantasy-cricket/internal/platform/resilience"
	"github.com/pitchside/fantasy-cricket/internal/platform/scheduler"
	"github.com/pitchside/fantasy-cricket/internal/usecase"
)

// App bundles the HTTP server, the background job scheduler and the
// resources they share.
type App struct {
	Server    *http.Server
	Scheduler *scheduler.Scheduler

	db     *sqlx.DB
	logger *logging.Logger
}

type repositories struct {
	matches   match.Repository
	myMatches mymatch.Repository
	players   player.Repository
	contests  contest.Repository
	teams     fantasy.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var db *sqlx.DB
	var repos repositories
	if cfg.DBURL != "" {
		opened, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		db = opened
		repos = repositories{
			matches:   postgres.NewMatchRepository(db),
			myMatches: postgres.NewMyMatchRepository(db),
			players:   postgres.NewPlayerRepository(db),
			contests:  postgres.NewContestRepository(db),
			teams:     postgres.NewTeamRepository(db),
		}
		logger.Info("using postgres repositories", "db", dbNameFromURL(cfg.DBURL))
	} else {
		repos = repositories{
			matches:   memory.NewMatchRepository(memory.SeedMatches()),
			myMatches: memory.NewMyMatchRepository(nil),
			players:   memory.NewPlayerRepository(memory.SeedPlayers()),
			contests:  memory.NewContestRepository(memory.SeedContests()),
			teams:     memory.NewTeamRepository(nil),
		}
		logger.Warn("DB_URL is empty, using seeded in-memory repositories")
	}

	boardCache := cache.NewStore(cfg.CacheTTL)
	gen := idgen.NewRandomGenerator()

	matchSvc := usecase.NewMatchService(repos.matches, repos.players, logger)
	myMatchSvc := usecase.NewMyMatchService(repos.matches, repos.myMatches, logger)
	contestSvc := usecase.NewContestService(repos.matches, repos.contests, gen, logger)
	teamSvc := usecase.NewTeamService(repos.matches, repos.contests, repos.players, repos.teams, fantasy.DefaultRules(), gen, boardCache, logger)
	scoringSvc := usecase.NewScoringService(repos.matches, repos.players, repos.teams, boardCache, logger)

	jobs := scheduler.New(logger)

	var liveSyncSvc *usecase.LiveStatsSyncService
	var matchSyncSvc *usecase.MatchSyncService
	if cfg.CricketDataEnabled {
		provider := cricketdata.NewClient(cricketdata.ClientConfig{
			BaseURL:    cfg.CricketDataBaseURL,
			Token:      cfg.CricketDataToken,
			Timeout:    cfg.CricketDataTimeout,
			MaxRetries: cfg.CricketDataMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.CricketDataCircuitEnabled,
				FailureThreshold: cfg.CricketDataCircuitFailureCount,
				OpenTimeout:      cfg.CricketDataCircuitOpenTimeout,
				ProbeQuota:       cfg.CricketDataCircuitHalfOpenPerms,
			},
		})

		liveSyncSvc = usecase.NewLiveStatsSyncService(repos.matches, repos.players, provider, scoringSvc, logger)
		matchSyncSvc = usecase.NewMatchSyncService(repos.matches, repos.myMatches, repos.players, provider, gen, logger)

		jobs.Register(scheduler.Job{
			Name:     "sync-live-stats",
			Interval: cfg.JobLiveSyncInterval,
			Run: func(ctx context.Context) error {
				_, err := liveSyncSvc.SyncLiveMatches(ctx)
				return err
			},
		})
		jobs.Register(scheduler.Job{
			Name:     "sync-matches",
			Interval: cfg.JobMatchSyncInterval,
			Run: func(ctx context.Context) error {
				_, err := matchSyncSvc.SyncMatches(ctx)
				return err
			},
		})
	} else {
		logger.Info("cricket data provider disabled", "reason", "CRICKETDATA_ENABLED=false")
	}

	verifier := introspect.NewClient(
		&http.Client{Timeout: cfg.AuthTimeout},
		cfg.AuthBaseURL,
		cfg.AuthIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(matchSvc, myMatchSvc, contestSvc, teamSvc, liveSyncSvc, matchSyncSvc, scoringSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		Server:    server,
		Scheduler: jobs,
		db:        db,
		logger:    logger,
	}, nil
}

// Close releases resources that outlive the HTTP server.
func (a *App) Close() error {
	a.Scheduler.Stop()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("close database: %w", err)
		}
	}
	return nil
}
