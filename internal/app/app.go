package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riftpulse/riftpulse/external/riot"
	"github.com/riftpulse/riftpulse/internal/config"
	"github.com/riftpulse/riftpulse/internal/infrastructure/repository/postgres"
	"github.com/riftpulse/riftpulse/internal/interfaces/httpapi"
	"github.com/riftpulse/riftpulse/internal/platform/dbutil"
	"github.com/riftpulse/riftpulse/internal/platform/logging"
	"github.com/riftpulse/riftpulse/internal/platform/resilience"
	"github.com/riftpulse/riftpulse/internal/usecase"
	"github.com/sourcegraph/conc"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

// App owns the process-level pieces: the database pool, the HTTP server,
// and the background sync scheduler.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	db        *sqlx.DB
	server    *http.Server
	scheduler *usecase.SyncScheduler
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}

	accounts := postgres.NewAccountRepository(db)
	matches := postgres.NewMatchRepository(db)
	metricsRepo := postgres.NewMetricsRepository(db)

	accountSvc := usecase.NewAccountService(accounts, logger)
	statsSvc := usecase.NewStatsService(accounts, metricsRepo)

	var scheduler *usecase.SyncScheduler
	switch {
	case !cfg.SyncEnabled:
		logger.Info("match sync disabled", "reason", "SYNC_ENABLED=false")
	case !cfg.RiotEnabled:
		logger.Warn("match sync disabled", "reason", "RIOT_ENABLED=false")
	default:
		provider := riot.NewClient(riot.ClientConfig{
			BaseURL:               cfg.RiotBaseURL,
			APIKey:                cfg.RiotAPIKey,
			Timeout:               cfg.RiotTimeout,
			MaxRetries:            cfg.RiotMaxRetries,
			RequestsPerSecond:     cfg.RiotRequestsPerSecond,
			RequestsPerTwoMinutes: cfg.RiotRequestsPerTwoMinutes,
			Logger:                logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.RiotCircuitEnabled,
				FailureThreshold: cfg.RiotCircuitFailureCount,
				OpenTimeout:      cfg.RiotCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.RiotCircuitHalfOpenMaxReq,
			},
		})

		syncSvc := usecase.NewMatchSyncService(provider, accounts, matches, metricsRepo, usecase.MatchDiscoveryConfig{
			PageSize:      cfg.SyncPageSize,
			MaxNewMatches: cfg.SyncMaxNewMatches,
		}, logger)
		scheduler = usecase.NewSyncScheduler(accounts, syncSvc, usecase.SyncSchedulerConfig{
			PollInterval:   cfg.SyncPollInterval,
			StuckThreshold: cfg.SyncStuckThreshold,
			Workers:        cfg.SyncWorkers,
		}, logger)
	}

	handler := httpapi.NewHandler(accountSvc, statsSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		server:    server,
		scheduler: scheduler,
	}, nil
}

// Run serves HTTP and drives the sync scheduler until ctx is cancelled,
// then shuts both down.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErr := make(chan error, 1)

	var wg conc.WaitGroup
	wg.Go(func() {
		a.logger.Info("http server starting", "addr", a.cfg.HTTPAddr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			cancel()
		}
	})
	if a.scheduler != nil {
		wg.Go(func() {
			a.logger.Info("sync scheduler starting",
				"poll_interval", a.cfg.SyncPollInterval,
				"workers", a.cfg.SyncWorkers,
			)
			if err := a.scheduler.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("sync scheduler stopped", "error", err)
			}
		})
	}

	<-runCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	shutdownErr := a.server.Shutdown(shutdownCtx)

	wg.Wait()

	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", "error", err)
	}

	select {
	case err := <-serverErr:
		return err
	default:
	}
	if shutdownErr != nil {
		return fmt.Errorf("graceful shutdown: %w", shutdownErr)
	}
	return nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := dbutil.NormalizeURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBName(dbutil.DBNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
