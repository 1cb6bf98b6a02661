package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/panjf2000/ants/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/rzldimam28/score-predictor/external/standings"
	"github.com/rzldimam28/score-predictor/internal/config"
	"github.com/rzldimam28/score-predictor/internal/domain/matchrecord"
	"github.com/rzldimam28/score-predictor/internal/domain/player"
	"github.com/rzldimam28/score-predictor/internal/domain/prediction"
	"github.com/rzldimam28/score-predictor/internal/domain/scoring"
	"github.com/rzldimam28/score-predictor/internal/domain/standing"
	"github.com/rzldimam28/score-predictor/internal/domain/team"
	"github.com/rzldimam28/score-predictor/internal/infrastructure/repository/memory"
	"github.com/rzldimam28/score-predictor/internal/infrastructure/repository/postgres"
	"github.com/rzldimam28/score-predictor/internal/interfaces/httpapi"
	"github.com/rzldimam28/score-predictor/internal/platform/cache"
	idgen "github.com/rzldimam28/score-predictor/internal/platform/id"
	"github.com/rzldimam28/score-predictor/internal/platform/logging"
	"github.com/rzldimam28/score-predictor/internal/platform/resilience"
	"github.com/rzldimam28/score-predictor/internal/usecase"
)

// App owns the HTTP server and the resources it was wired with. Callers
// run Server and call Shutdown on exit.
type App struct {
	Server *http.Server

	db   *sqlx.DB
	pool *ants.Pool
}

type repositories struct {
	teams     team.Repository
	players   player.Repository
	records   matchrecord.Repository
	standings standing.Repository
	reports   prediction.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{}

	repos, err := app.buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	store := newProjectionCache(cfg)

	if cfg.EngineWorkers > 0 {
		pool, err := ants.NewPool(cfg.EngineWorkers)
		if err != nil {
			app.closeResources()
			return nil, fmt.Errorf("create engine worker pool: %w", err)
		}
		app.pool = pool
	}

	statsSvc := usecase.NewStatsService(
		repos.records,
		repos.players,
		repos.standings,
		cfg.TierBands,
		cfg.EngineParams,
		store,
	)
	predictionSvc := usecase.NewPredictionService(
		repos.players,
		repos.standings,
		repos.reports,
		statsSvc,
		scoring.DefaultRules(),
		cfg.EngineParams,
		cfg.TierBands,
		idgen.NewRandomGenerator(),
		app.pool,
	)
	lineupSvc := usecase.NewLineupService(predictionSvc, cfg.Formation)
	matchupSvc := usecase.NewMatchupService(lineupSvc, cfg.EngineParams)
	exportSvc := usecase.NewExportService(repos.reports)
	standingsSvc := usecase.NewStandingsService(newStandingsProvider(cfg, logger), repos.standings, statsSvc)

	handler := httpapi.NewHandler(
		predictionSvc,
		lineupSvc,
		matchupSvc,
		exportSvc,
		standingsSvc,
		statsSvc,
		repos.players,
		repos.teams,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalAPIKey)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if app.Server.Addr == "" {
		app.closeResources()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return app, nil
}

// Shutdown drains the HTTP server, then releases the worker pool and the
// database handle.
func (a *App) Shutdown(ctx context.Context) error {
	var serverErr error
	if a.Server != nil {
		serverErr = a.Server.Shutdown(ctx)
	}
	a.closeResources()
	return serverErr
}

func (a *App) closeResources() {
	if a.pool != nil {
		a.pool.Release()
		a.pool = nil
	}
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}

func (a *App) buildRepositories(cfg config.Config) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		a.db = db
		return repositories{
			teams:     postgres.NewTeamRepository(db),
			players:   postgres.NewPlayerRepository(db),
			records:   postgres.NewMatchRecordRepository(db),
			standings: postgres.NewStandingRepository(db),
			reports:   postgres.NewReportRepository(db),
		}, nil
	default:
		seed := memory.NewSeedData()
		return repositories{
			teams:     memory.NewTeamRepository(seed.Teams),
			players:   memory.NewPlayerRepository(seed.Players),
			records:   memory.NewMatchRecordRepository(seed.Records),
			standings: memory.NewStandingRepository(seed.Standings),
			reports:   memory.NewReportRepository(),
		}, nil
	}
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// newProjectionCache builds the snapshot store for derived statistics.
// The store is mandatory, so a disabled cache maps onto a TTL short
// enough that every read recomputes.
func newProjectionCache(cfg config.Config) *cache.Store {
	ttl := cfg.CacheTTL
	if !cfg.CacheEnabled {
		ttl = time.Nanosecond
	}
	return cache.NewStore(ttl)
}

func newStandingsProvider(cfg config.Config, logger *logging.Logger) usecase.StandingsProvider {
	if !cfg.StandingsEnabled {
		return disabledStandingsProvider{}
	}
	return standings.NewClient(standings.ClientConfig{
		BaseURL:    cfg.StandingsBaseURL,
		Token:      cfg.StandingsToken,
		Timeout:    cfg.StandingsTimeout,
		MaxRetries: cfg.StandingsMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.NormalizeCircuitBreakerConfig(resilience.CircuitBreakerConfig{
			Enabled:          cfg.StandingsCircuitEnabled,
			FailureThreshold: cfg.StandingsCircuitFailures,
			OpenTimeout:      cfg.StandingsCircuitOpenWait,
			HalfOpenMaxReq:   cfg.StandingsCircuitHalfOpenReq,
		}),
	})
}

// disabledStandingsProvider backs deployments without an upstream feed.
// Refresh calls fail fast instead of timing out against nothing.
type disabledStandingsProvider struct{}

func (disabledStandingsProvider) FetchTable(context.Context) ([]standing.Row, error) {
	return nil, fmt.Errorf("%w: standings feed is not configured", usecase.ErrDependencyUnavailable)
}
