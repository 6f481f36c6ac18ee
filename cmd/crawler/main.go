package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/statikk-crawler/internal/app"
	"github.com/riskibarqy/statikk-crawler/internal/config"
	"github.com/riskibarqy/statikk-crawler/internal/observability"
	"github.com/riskibarqy/statikk-crawler/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.NewJSON(logging.LevelError).Error("load config", "error", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("crawler stopped with error", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry, err := observability.Start(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(flushCtx); err != nil {
			logger.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	crawler, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := crawler.Close(); err != nil {
			logger.Warn("crawler close failed", "error", err)
		}
	}()

	logger.Info("crawler starting",
		"store", cfg.StoreBackend,
		"regions", len(cfg.Crawl.Regions),
		"schedule", cfg.Crawl.Schedule.String(),
	)
	return crawler.Run(ctx)
}
