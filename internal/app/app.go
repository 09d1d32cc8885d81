// Package app assembles HabitQuest from configuration: logger, hosted
// store, snapshot cache, controllers, change feed, jobs and HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/forgo/habitquest/internal/cache"
	"github.com/forgo/habitquest/internal/config"
	"github.com/forgo/habitquest/internal/database"
	"github.com/forgo/habitquest/internal/feed"
	"github.com/forgo/habitquest/internal/handler"
	"github.com/forgo/habitquest/internal/jobs"
	"github.com/forgo/habitquest/internal/middleware"
	"github.com/forgo/habitquest/internal/repository"
	"github.com/forgo/habitquest/internal/repository/postgres"
	"github.com/forgo/habitquest/internal/service"
)

// noticeHeartbeat keeps idle SSE connections open through proxies
const noticeHeartbeat = 25 * time.Second

// hostedStore is what each driver provides
type hostedStore interface {
	service.Store
	service.ChallengeStore
	handler.Pinger
}

// App holds every long-lived component
type App struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Registry   *service.Registry
	Challenges *service.ChallengeService
	Notices    *service.NoticeHub
	Feed       *feed.Loop
	Scheduler  *jobs.Scheduler

	cache       *cache.SQLite
	store       hostedStore
	rateLimiter *middleware.RateLimiter
	idempotency *middleware.IdempotencyStore
	closers     []func()
}

// NewLogger builds the logrus logger described by cfg
func NewLogger(cfg config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}
	return logger, nil
}

// New connects the hosted store (if any), opens the cache and wires the
// services. Background work starts only in Serve or StartBackground. A nil
// logger builds one from cfg.Log.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if logger == nil {
		var err error
		if logger, err = NewLogger(cfg.Log); err != nil {
			return nil, err
		}
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("scoring timezone: %w", err)
	}

	a := &App{Config: cfg, Logger: logger}

	// === 1. Local snapshot cache ===
	a.cache, err = cache.Open(ctx, cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = a.cache.Close() })

	// === 2. Hosted store and its change source ===
	source, err := a.connectStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	// === 3. Services ===
	a.Notices = service.NewNoticeHub(noticeHeartbeat)
	a.closers = append(a.closers, a.Notices.Close)

	var store service.Store
	var challengeStore service.ChallengeStore
	if a.store != nil {
		store, challengeStore = a.store, a.store
	}
	a.Registry = service.NewRegistry(service.RegistryConfig{
		Store:          store,
		Cache:          a.cache,
		Notices:        a.Notices,
		Location:       loc,
		StreakLookback: cfg.Scoring.StreakLookback,
		StoreTimeout:   cfg.Store.Timeout,
		Logger:         logger,
	})
	a.Challenges = service.NewChallengeService(service.ChallengeServiceConfig{
		Store:    challengeStore,
		Registry: a.Registry,
		Location: loc,
		Logger:   logger,
	})

	// === 4. Change feed ===
	if source != nil && cfg.Feed.Enabled {
		a.Feed = feed.NewLoop(feed.LoopConfig{
			Queue:      feed.NewQueue(cfg.Feed.QueueSize),
			Resolver:   feed.RegistryResolver{Registry: a.Registry, LoadedOnly: cfg.Feed.LoadedOnly},
			Sources:    []feed.Source{source},
			RetryDelay: cfg.Feed.RetryDelay,
			Logger:     logger,
		})
	}

	// === 5. Jobs ===
	if cfg.Jobs.Enabled {
		a.Scheduler = jobs.NewScheduler(jobs.SchedulerConfig{Location: loc, Logger: logger})
		if err := a.Scheduler.Add(cfg.Jobs.RolloverSchedule, jobs.NewRollover(a.Registry, logger)); err != nil {
			a.Close()
			return nil, err
		}
		if !cfg.LocalOnly() {
			if err := a.Scheduler.Add(cfg.Jobs.ChallengeSchedule, jobs.NewChallengeProgress(a.Challenges, logger)); err != nil {
				a.Close()
				return nil, err
			}
		}
	}

	return a, nil
}

// connectStore opens the configured driver. It returns the driver's
// change source, or nil when running local-only.
func (a *App) connectStore(ctx context.Context) (feed.Source, error) {
	cfg := a.Config
	logger := a.Logger.WithField("driver", cfg.Store.Driver)

	switch cfg.Store.Driver {
	case config.DriverSurrealDB:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.SurrealDB.Host,
			Port:      cfg.SurrealDB.Port,
			User:      cfg.SurrealDB.User,
			Password:  cfg.SurrealDB.Password,
			Namespace: cfg.SurrealDB.Namespace,
			Database:  cfg.SurrealDB.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, fmt.Errorf("connect surrealdb: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		if cfg.Store.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				return nil, fmt.Errorf("migrate surrealdb: %w", err)
			}
		}
		a.store = surrealStore{Store: repository.NewStore(db), db: db}
		logger.WithField("database", cfg.SurrealDB.Database).Info("hosted store connected")
		return repository.NewLiveSource(db, a.Logger), nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, postgres.Config{
			DSN:      cfg.Postgres.DSN,
			MaxConns: cfg.Postgres.MaxConns,
			MinConns: cfg.Postgres.MinConns,
		}, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if cfg.Store.Migrate {
			if err := postgres.Migrate(ctx, pool, a.Logger); err != nil {
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		a.store = postgresStore{Store: postgres.NewStore(pool), ping: pool.Ping}
		logger.Info("hosted store connected")
		return postgres.NewListenSource(pool, a.Logger), nil

	default:
		logger.Info("no hosted store configured, running local-only")
		return nil, nil
	}
}

type surrealStore struct {
	*repository.Store
	db *database.SurrealDB
}

func (s surrealStore) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

type postgresStore struct {
	*postgres.Store
	ping func(context.Context) error
}

func (s postgresStore) Ping(ctx context.Context) error { return s.ping(ctx) }

// Handler builds the HTTP API
func (a *App) Handler() http.Handler {
	cfg := a.Config
	if cfg.RateLimit.Enabled && a.rateLimiter == nil {
		a.rateLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
			Rate:   cfg.RateLimit.Rate,
			Window: cfg.RateLimit.Window,
			Burst:  cfg.RateLimit.Burst,
		})
		a.closers = append(a.closers, a.rateLimiter.Stop)
	}
	if a.idempotency == nil {
		a.idempotency = middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})
		a.closers = append(a.closers, a.idempotency.Stop)
	}

	var pinger handler.Pinger
	if a.store != nil {
		pinger = a.store
	}

	return handler.NewRouter(handler.RouterConfig{
		Controllers:    a.Registry,
		Challenges:     a.Challenges,
		Notices:        a.Notices,
		Health:         handler.NewHealthHandler(pinger, cfg.Store.Driver),
		Keys:           middleware.NewAPIKeys(cfg.Auth.Keys),
		DefaultOwner:   cfg.Auth.DefaultOwner,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimiter:    a.rateLimiter,
		Idempotency:    a.idempotency,
		RequestTimeout: cfg.Server.WriteTimeout,
		Logger:         a.Logger,
	})
}

// StartBackground starts the change feed and the scheduler
func (a *App) StartBackground() {
	if a.Feed != nil {
		a.Feed.Start()
	}
	if a.Scheduler != nil {
		a.Scheduler.Start()
	}
}

// StopBackground stops the scheduler and the change feed, then flushes
// every loaded player to the cache
func (a *App) StopBackground(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Feed != nil {
		a.Feed.Stop()
	}
	a.Registry.Each(func(c *service.Controller) {
		if err := c.Flush(ctx); err != nil {
			a.Logger.WithError(err).WithField("owner_id", c.OwnerID()).Warn("final cache flush failed")
		}
	})
}

// Serve runs the HTTP server and background work until ctx is cancelled,
// then shuts down gracefully
func (a *App) Serve(ctx context.Context) error {
	cfg := a.Config.Server
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     a.Handler(),
		ReadTimeout: cfg.ReadTimeout,
		// The notice stream is long-lived; handlers carry their own timeout
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	a.StartBackground()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.WithFields(logrus.Fields{
			"port":       cfg.Port,
			"env":        cfg.Env,
			"local_only": a.Config.LocalOnly(),
		}).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.StopBackground(context.Background())
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Close SSE streams first so Shutdown is not held open by them
	a.Notices.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("server forced to shutdown")
	}
	a.StopBackground(shutdownCtx)
	a.Logger.Info("server exited")
	return nil
}

// Close releases every resource in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
