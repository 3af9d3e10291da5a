package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicos/schedcore/internal/api/router"
	"github.com/clinicos/schedcore/internal/availability"
	"github.com/clinicos/schedcore/internal/booking"
	appconfig "github.com/clinicos/schedcore/internal/config"
	"github.com/clinicos/schedcore/internal/observability/metrics"
	"github.com/clinicos/schedcore/internal/orgconfig"
	"github.com/clinicos/schedcore/internal/schedule"
	"github.com/clinicos/schedcore/pkg/logging"
)

func main() {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting schedcore API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Schedule storage: Postgres when configured, in-memory otherwise.
	var repo schedule.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("database not reachable", "error", err)
			os.Exit(1)
		}
		repo = schedule.NewPostgresRepository(pool)
		logger.Info("schedule storage: postgres")
	} else {
		repo = schedule.NewInMemoryRepository()
		logger.Warn("DATABASE_URL not set, using in-memory schedule storage")
	}

	// Org scheduling config: redis when reachable, in-memory otherwise.
	configDefaults := orgconfig.Defaults{
		Timezone:            cfg.DefaultTimezone,
		MinAdvanceMinutes:   cfg.MinAdvanceMinutes,
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		LowMaxSlots:         cfg.LowMaxSlots,
		MediumMaxSlots:      cfg.MediumMaxSlots,
	}
	var configStore orgconfig.ConfigStore
	if cfg.RedisAddr != "" {
		redisOptions := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOptions)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not available, using in-memory org config", "error", err)
			configStore = orgconfig.NewMemoryStore(configDefaults)
		} else {
			configStore = orgconfig.NewStore(redisClient, configDefaults)
			logger.Info("org config storage: redis")
		}
	} else {
		configStore = orgconfig.NewMemoryStore(configDefaults)
		logger.Warn("REDIS_ADDR not set, using in-memory org config")
	}

	// Services and handlers.
	schedMetrics := metrics.NewSchedulingMetrics(nil)
	availSvc := availability.NewService(repo, configStore, time.Now, logger, schedMetrics)
	bookSvc := booking.NewService(repo, availSvc, time.Now, logger, schedMetrics)

	routerCfg := &router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(availSvc, logger),
		BookingHandler:      booking.NewHandler(bookSvc, logger),
		ScheduleHandler:     schedule.NewHandler(repo, logger),
		OrgConfigHandler:    orgconfig.NewHandler(configStore, logger),
		MetricsHandler:      promhttp.Handler(),
		StaffJWTSecret:      cfg.StaffJWTSecret,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
