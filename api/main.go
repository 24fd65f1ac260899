package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/auth"
	"github.com/rogerio-castellano/storefront-analytics/internal/config"
	"github.com/rogerio-castellano/storefront-analytics/internal/db"
	"github.com/rogerio-castellano/storefront-analytics/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-analytics/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-analytics/internal/http/router"
	"github.com/rogerio-castellano/storefront-analytics/internal/logger"
	"github.com/rogerio-castellano/storefront-analytics/internal/queue"
	"github.com/rogerio-castellano/storefront-analytics/internal/redissvc"
	"github.com/rogerio-castellano/storefront-analytics/internal/repo"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"github.com/rogerio-castellano/storefront-analytics/internal/telemetry"
	"go.uber.org/zap"
)

const demoHistoryDays = 400

// @title Storefront Analytics API
// @version 1.0
// @description Dashboard aggregation over live store data with synthetic fallback per section.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		tp, err := telemetry.InitTracer(cfg.App.Name, cfg.Tracing.Endpoint)
		if err != nil {
			zl.Warn("tracing disabled", zap.Error(err))
		} else {
			defer func() { _ = tp.Shutdown(context.Background()) }()
		}
	}

	metrics := telemetry.NewMetrics(prometheus.DefaultRegisterer)
	sinks := resolve.Sinks{telemetry.NewLogSink(zl), metrics}

	source, closeSource, err := buildSource(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeSource()

	if cfg.Redis.URL != "" {
		rs, err := redissvc.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			zl.Warn("resolution log disabled", zap.Error(err))
		} else {
			defer rs.Close()
			resolutionLog := redissvc.NewResolutionLog(rs, cfg.Redis.LogKey, cfg.Redis.MaxLogs, zl)
			defer resolutionLog.Close()
			sinks = append(sinks, resolutionLog)
			handlers.SetResolutionReader(resolutionLog)
		}
	}

	if cfg.NATS.URL != "" {
		pub, err := queue.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, zl)
		if err != nil {
			zl.Warn("resolution events will not be published", zap.Error(err))
		} else {
			defer pub.Close()
			sinks = append(sinks, pub)
		}
	}

	resolver := resolve.NewResolver(sinks, zl)
	orchestrator := analytics.NewOrchestrator(source, resolver, zl, cfg.Orchestrator())

	handlers.SetLogger(zl)
	handlers.SetSnapshotBuilder(orchestrator)
	handlers.SetDefaultDays(cfg.Analytics.DefaultDays)

	opts := router.Options{
		DefaultTenant: cfg.App.DefaultTenant,
		Metrics:       metrics,
		Logger:        zl,
	}
	if cfg.JWT.Secret != "" {
		tokens, err := auth.NewTokens(cfg.JWT.Secret)
		if err != nil {
			return err
		}
		opts.Tokens = tokens
	}
	if cfg.RateLimiting.Enabled {
		limiters := rl.New(cfg.RateLimiting.RequestsPerSec, cfg.RateLimiting.Burst, cfg.RateLimiting.IdleTimeout)
		go limiters.StartVisitorCleanupLoop(ctx, cfg.RateLimiting.CleanupInterval)
		opts.Limiters = limiters
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router.NewRouter(opts),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server running", zap.String("addr", srv.Addr), zap.String("environment", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildSource picks Postgres when a database URL is configured and the
// in-memory store otherwise.
func buildSource(ctx context.Context, cfg *config.Config, zl *zap.Logger) (analytics.Source, func(), error) {
	if cfg.Database.URL == "" {
		entities := repo.NewInMemoryEntityRepository()
		if cfg.App.DemoData {
			if err := seedDemo(entities, cfg.App.DefaultTenant, zl); err != nil {
				return nil, nil, err
			}
		}
		return repo.NewInMemoryAnalyticsRepository(entities), func() {}, nil
	}

	database, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}
	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, database); err != nil {
			database.Close()
			return nil, nil, err
		}
	}

	if cfg.App.DemoData {
		if err := seedDemo(repo.NewPostgresEntityRepository(database), cfg.App.DefaultTenant, zl); err != nil {
			database.Close()
			return nil, nil, err
		}
	}

	live := repo.NewPostgresAnalyticsRepository(database, cfg.Analytics.SourceTimeout)
	source := repo.NewBreakerSource(live, cfg.CircuitBreaker, zl)
	return source, func() { database.Close() }, nil
}

// seedDemo fills an empty tenant with demo data and leaves any other tenant
// untouched.
func seedDemo(store repo.EntityStore, tenantID string, zl *zap.Logger) error {
	existing, err := store.Customers(tenantID)
	if err != nil {
		return fmt.Errorf("could not check demo tenant: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if err := repo.SeedDemo(store, tenantID, time.Now(), demoHistoryDays, synth.NewSource()); err != nil {
		return fmt.Errorf("could not seed demo data: %w", err)
	}
	zl.Info("seeded demo data", zap.String("tenant_id", tenantID), zap.Int("days", demoHistoryDays))
	return nil
}
