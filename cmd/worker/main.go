package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/edusupply/console-api/internal/app"
	"github.com/edusupply/console-api/internal/catalog/categories"
	"github.com/edusupply/console-api/internal/invoices"
	"github.com/edusupply/console-api/internal/platform/cache"
	"github.com/edusupply/console-api/internal/platform/db"
	"github.com/edusupply/console-api/internal/salesreport"
	"github.com/edusupply/console-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	categoryRepo := categories.NewRepository(pool)
	invoiceRepo := invoices.NewRepository(pool)
	reportCache := salesreport.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := salesreport.NewService(invoiceRepo, reportCache)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("report cache subscribe", slog.Any("error", err))
	}

	warmupJob := jobs.NewReportWarmupJob(reportService, categoryRepo, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Warmup:    warmupJob,
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: jobs.NewReportWarmupAllTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
