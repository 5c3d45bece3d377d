package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockmaster-pro/stockmaster/internal/catalog"
)

// StockLowScanJob checks the catalog for products at or below their
// minimum threshold and logs them so operators can restock.
type StockLowScanJob struct {
	Catalog *catalog.Service
	Logger  *slog.Logger
}

// NewStockLowScanJob wires dependencies for the low-stock handler.
func NewStockLowScanJob(svc *catalog.Service, logger *slog.Logger) *StockLowScanJob {
	return &StockLowScanJob{Catalog: svc, Logger: logger}
}

// Handle processes TaskStockLowScan tasks.
func (j *StockLowScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Catalog == nil {
		return errors.New("stock lowscan: handler not configured")
	}
	var payload StockLowScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	start := time.Now()
	low, err := j.Catalog.LowStock(ctx)
	if err != nil {
		logger.Error("low-stock scan failed", slog.Any("error", err))
		return err
	}
	for _, p := range low {
		logger.Warn("product below threshold",
			slog.String("product_id", p.ID),
			slog.String("name", p.Name),
			slog.Int("quantity", p.Quantity),
			slog.Int("min_threshold", p.MinThreshold))
	}
	logger.Info("completed low-stock scan",
		slog.Int("flagged", len(low)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *StockLowScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskStockLowScan))
	}
	return slog.Default().With(slog.String("job", TaskStockLowScan))
}
