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
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/stockmaster-pro/stockmaster/internal/app"
	"github.com/stockmaster-pro/stockmaster/internal/backup"
	"github.com/stockmaster-pro/stockmaster/internal/catalog"
	"github.com/stockmaster-pro/stockmaster/internal/insights"
	"github.com/stockmaster-pro/stockmaster/internal/movement"
	"github.com/stockmaster-pro/stockmaster/internal/platform/cache"
	"github.com/stockmaster-pro/stockmaster/internal/platform/db"
	"github.com/stockmaster-pro/stockmaster/internal/store"
	"github.com/stockmaster-pro/stockmaster/jobs"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var persister store.Persister
	switch cfg.Persistence {
	case "postgres":
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		pg := store.NewPGPersister(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Error("ensure schema", slog.Any("error", err))
			os.Exit(1)
		}
		persister = pg
	default:
		persister = store.NewFilePersister(cfg.DataPath)
	}

	st, err := store.Open(ctx, persister, logger)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable", slog.Any("error", err))
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	movementService := movement.NewService(movement.NewRepository(st.Transactions()))
	catalogService := catalog.NewService(catalog.NewRepository(st.Products()), movementService)
	backupService := backup.NewService(st)

	lowScanJob := jobs.NewStockLowScanJob(catalogService, logger)
	backupJob := jobs.NewSnapshotBackupJob(backupService, cfg.BackupDir, logger)

	handlers := []jobs.TaskHandler{
		{Type: jobs.TaskStockLowScan, Handler: lowScanJob.Handle},
		{Type: jobs.TaskSnapshotBackup, Handler: backupJob.Handle},
	}

	now := time.Now().UTC()
	lowScanTask, err := jobs.NewStockLowScanTask(now)
	if err != nil {
		logger.Error("build low-stock task", slog.Any("error", err))
		os.Exit(1)
	}
	backupTask, err := jobs.NewSnapshotBackupTask(now)
	if err != nil {
		logger.Error("build backup task", slog.Any("error", err))
		os.Exit(1)
	}
	cron := []jobs.CronRegistration{
		{Spec: "0 * * * *", Task: lowScanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		{Spec: "30 1 * * *", Task: backupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
	}

	if cfg.InsightsURL != "" {
		textClient := &insights.HTTPClient{
			Endpoint: cfg.InsightsURL,
			APIKey:   cfg.InsightsAPIKey,
			Model:    cfg.InsightsModel,
			Client:   &http.Client{Timeout: 30 * time.Second},
		}
		insightsCache := &insights.RedisCache{Client: redisClient, TTL: cfg.InsightsCacheTTL}
		insightsService := insights.NewService(catalogService, textClient, insightsCache, logger)
		warmupJob := jobs.NewInsightsWarmupJob(insightsService, logger)
		handlers = append(handlers, jobs.TaskHandler{Type: jobs.TaskInsightsWarmup, Handler: warmupJob.Handle})

		warmupTask, err := jobs.NewInsightsWarmupTask(now)
		if err != nil {
			logger.Error("build warmup task", slog.Any("error", err))
			os.Exit(1)
		}
		cron = append(cron, jobs.CronRegistration{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}})
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  handlers,
		Cron:      cron,
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
