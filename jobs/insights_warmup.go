package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockmaster-pro/stockmaster/internal/insights"
)

// InsightsWarmupJob regenerates the stock analysis so the next
// interactive request is served from cache.
type InsightsWarmupJob struct {
	Insights *insights.Service
	Logger   *slog.Logger
}

// NewInsightsWarmupJob wires dependencies for the warmup handler.
func NewInsightsWarmupJob(svc *insights.Service, logger *slog.Logger) *InsightsWarmupJob {
	return &InsightsWarmupJob{Insights: svc, Logger: logger}
}

// Handle processes TaskInsightsWarmup tasks.
func (j *InsightsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Insights == nil {
		return errors.New("insights warmup: handler not configured")
	}
	var payload InsightsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	start := time.Now()
	if _, err := j.Insights.Analyze(ctx); err != nil {
		if errors.Is(err, insights.ErrSuperseded) {
			logger.Info("warmup superseded by interactive request")
			return nil
		}
		logger.Error("insights warmup failed", slog.Any("error", err))
		return err
	}
	logger.Info("completed insights warmup", slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *InsightsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskInsightsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskInsightsWarmup))
}
