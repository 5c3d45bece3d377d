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
	"github.com/stockmaster-pro/stockmaster/internal/clients"
	"github.com/stockmaster-pro/stockmaster/internal/delivery"
	"github.com/stockmaster-pro/stockmaster/internal/insights"
	"github.com/stockmaster-pro/stockmaster/internal/ledger"
	"github.com/stockmaster-pro/stockmaster/internal/movement"
	"github.com/stockmaster-pro/stockmaster/internal/observability"
	"github.com/stockmaster-pro/stockmaster/internal/platform/cache"
	"github.com/stockmaster-pro/stockmaster/internal/platform/db"
	"github.com/stockmaster-pro/stockmaster/internal/settings"
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
		// Degraded mode: insights caching and job enqueueing will fail
		// until Redis comes back, everything else keeps working.
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
	clientsService := clients.NewService(clients.NewRepository(st.Clients()))
	ledgerService := ledger.NewService(ledger.NewRepository(st.Orders()), catalogService)
	deliveryService := delivery.NewService(delivery.NewRepository(st.Deliveries()), ledgerService)
	settingsService := settings.NewService(st.Settings())
	backupService := backup.NewService(st)

	metrics := observability.NewMetrics()

	var insightsHandler *insights.Handler
	if cfg.InsightsURL != "" {
		textClient := &insights.HTTPClient{
			Endpoint: cfg.InsightsURL,
			APIKey:   cfg.InsightsAPIKey,
			Model:    cfg.InsightsModel,
			Client:   &http.Client{Timeout: 30 * time.Second},
		}
		insightsCache := &insights.RedisCache{Client: redisClient, TTL: cfg.InsightsCacheTTL}
		insightsService := insights.NewService(catalogService, textClient, insightsCache, logger)
		insightsHandler = insights.NewHandler(logger, insightsService)
	}

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobClient, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		CatalogHandler:  catalog.NewHandler(logger, catalogService),
		MovementHandler: movement.NewHandler(logger, movementService),
		ClientsHandler:  clients.NewHandler(logger, clientsService),
		LedgerHandler:   ledger.NewHandler(logger, ledgerService),
		DeliveryHandler: delivery.NewHandler(logger, deliveryService),
		SettingsHandler: settings.NewHandler(logger, settingsService),
		InsightsHandler: insightsHandler,
		BackupHandler:   backup.NewHandler(logger, backupService),
		JobHandler:      jobHandler,
		Metrics:         metrics,
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
