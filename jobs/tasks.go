package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockLowScan triggers a scan for products at or below their
	// minimum threshold.
	TaskStockLowScan = "stock:lowscan"
	// TaskSnapshotBackup writes a dated snapshot export to disk.
	TaskSnapshotBackup = "snapshot:backup"
	// TaskInsightsWarmup regenerates the stock analysis cache.
	TaskInsightsWarmup = "insights:warmup"
)

// StockLowScanPayload carries scheduling metadata for low-stock scans.
type StockLowScanPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewStockLowScanTask constructs an Asynq task for a low-stock scan.
func NewStockLowScanTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(StockLowScanPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockLowScan, body, asynq.Queue(QueueDefault)), nil
}

// SnapshotBackupPayload carries scheduling metadata for snapshot backups.
type SnapshotBackupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewSnapshotBackupTask constructs an Asynq task for a snapshot backup.
func NewSnapshotBackupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(SnapshotBackupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotBackup, body, asynq.Queue(QueueDefault)), nil
}

// InsightsWarmupPayload carries scheduling metadata for insights warmup.
type InsightsWarmupPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewInsightsWarmupTask constructs an Asynq task for insights warmup.
func NewInsightsWarmupTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(InsightsWarmupPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInsightsWarmup, body, asynq.Queue(QueueDefault)), nil
}
