package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/lusoconnect/onboarding/internal/config"
	"github.com/lusoconnect/onboarding/internal/infra"
	"github.com/lusoconnect/onboarding/internal/logging"
	"github.com/lusoconnect/onboarding/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// In development every backend is optional; the service falls back to
	// in-memory stores, no idempotency cache and log-only notifications.
	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL, infra.MemberStoreOptions{
			MaxConns:         cfg.DBMaxConns,
			StatementTimeout: cfg.DBStatementLimit,
		})
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := infra.EnsureSchema(ctx, db); err != nil {
			logger.Error("ensure schema", "error", err)
			os.Exit(1)
		}
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	var kafka *kgo.Client
	if cfg.KafkaBrokers != "" {
		kafka, err = infra.NewKafkaClient(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.Error("connect kafka", "error", err)
			os.Exit(1)
		}
		defer kafka.Close()
	}

	logger.Info("backends ready",
		slog.Bool("postgres", db != nil),
		slog.Bool("redis", cache != nil),
		slog.Bool("kafka", kafka != nil),
		slog.String("env", cfg.AppEnv),
	)

	srv, err := server.New(cfg, db, cache, kafka, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
