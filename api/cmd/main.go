package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/ewm-service/internal/application/event"
	"github.com/baechuer/ewm-service/internal/application/participation"
	"github.com/baechuer/ewm-service/internal/config"
	rediscache "github.com/baechuer/ewm-service/internal/infrastructure/caching/redis"
	"github.com/baechuer/ewm-service/internal/infrastructure/db/postgres"
	rabbitpub "github.com/baechuer/ewm-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/ewm-service/internal/infrastructure/stats"
	"github.com/baechuer/ewm-service/internal/logger"
	"github.com/baechuer/ewm-service/internal/transport/http/handlers"
	authmw "github.com/baechuer/ewm-service/internal/transport/http/middleware"
	"github.com/baechuer/ewm-service/internal/transport/http/router"
)

type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service.
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Repo      *postgres.Repo
	Publisher *rabbitpub.Publisher
	Redis     *rediscache.Client
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		zlog.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := db.PingContext(ctx)
		cancel()
		if err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := postgres.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			zlog.Fatal().Err(err).Msg("schema migration failed")
		}
	}

	app, err := NewApp(cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("wiring failed")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.Publisher != nil {
		app.Repo.StartOutboxWorker(ctx, app.Publisher, cfg.OutboxInterval)
	}

	if err := app.Run(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

// NewApp wires the service. Optional collaborators (stats, redis, rabbit)
// are skipped when their URL is empty.
func NewApp(cfg *config.Config, db *sql.DB) (*App, error) {
	app := &App{Config: cfg, DB: db}

	// 1) Infrastructure
	app.Repo = postgres.New(db)
	users := postgres.NewUsers(db)
	categories := postgres.NewCategories(db)
	requests := postgres.NewRequests(db)

	var gateway event.StatsGateway = event.NoopStats{}
	if cfg.StatsServerURL != "" {
		gateway = stats.New(cfg.StatsServerURL, cfg.StatsTimeout)
		zlog.Info().Str("url", cfg.StatsServerURL).Dur("timeout", cfg.StatsTimeout).Msg("stats gateway ready")
	} else {
		zlog.Warn().Msg("STATS_SERVER_URL empty: views report 0 and hits are not recorded")
	}

	if cfg.RedisURL != "" {
		rc, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		app.Redis = rc
	}

	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("rabbit publisher: %w", err)
		}
		app.Publisher = p
		zlog.Info().Str("exchange", p.Exchange()).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events stay in the outbox")
	}

	// 2) Application
	clock := sysClock{}
	evSvc := event.New(app.Repo, users, categories, gateway, clock, cfg.StatsAppName)
	reqSvc := participation.New(requests, users, clock)

	// 3) Transport
	var auth *authmw.AuthMiddleware
	if cfg.AdminAuthEnabled() {
		var versions authmw.TokenVersionChecker
		if app.Redis != nil {
			versions = app.Redis
		}
		auth = authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer, versions)
	} else {
		zlog.Warn().Msg("JWT_SECRET empty: /admin routes are not authenticated")
	}

	health := handlers.NewHealthHandler(db)
	if app.Redis != nil {
		health.WithCache(app.Redis)
	}

	handler := router.New(
		handlers.NewEventsHandler(evSvc),
		handlers.NewRequestsHandler(reqSvc),
		health,
		auth,
		cfg,
	)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return app, nil
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		zlog.Info().Str("addr", a.Server.Addr).Msg("listening")
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Server.Shutdown(shutdownCtx)
}

func (a *App) Close() {
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
