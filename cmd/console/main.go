package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/edusupply/console-api/internal/app"
	"github.com/edusupply/console-api/internal/auth"
	"github.com/edusupply/console-api/internal/catalog/categories"
	"github.com/edusupply/console-api/internal/catalog/products"
	"github.com/edusupply/console-api/internal/invoices"
	"github.com/edusupply/console-api/internal/platform/cache"
	"github.com/edusupply/console-api/internal/platform/db"
	"github.com/edusupply/console-api/internal/salesreport"
	salesreporthttp "github.com/edusupply/console-api/internal/salesreport/http"
	"github.com/edusupply/console-api/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports served uncached", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	categoryRepo := categories.NewRepository(dbpool)
	categoryService := categories.NewService(categoryRepo)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo)

	invoiceRepo := invoices.NewRepository(dbpool)

	reportCache := salesreport.NewCache(redisClient, cfg.ReportCacheTTL)
	reportService := salesreport.NewService(invoiceRepo, reportCache)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("report cache subscribe", slog.Any("error", err))
	}

	warmupQueue := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := warmupQueue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	invoiceService := invoices.NewService(logger, invoiceRepo, productService, reportService, warmupQueue)

	categoriesHandler := categories.NewHandler(logger, categoryService, productService, invoiceRepo)
	productsHandler := products.NewHandler(logger, productService)
	invoicesHandler := invoices.NewHandler(logger, invoiceService)
	reportHandler := salesreporthttp.NewHandler(logger, reportService, categoryService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Verifier:           auth.NewVerifier(cfg.APIKeyHash, logger),
		CategoriesHandler:  categoriesHandler,
		ProductsHandler:    productsHandler,
		InvoicesHandler:    invoicesHandler,
		SalesReportHandler: reportHandler,
		JobHandler:         jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
