package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockmaster-pro/stockmaster/internal/backup"
)

// SnapshotBackupJob writes a dated export of the whole store to disk.
type SnapshotBackupJob struct {
	Backup *backup.Service
	Dir    string
	Logger *slog.Logger
}

// NewSnapshotBackupJob wires dependencies for the backup handler.
func NewSnapshotBackupJob(svc *backup.Service, dir string, logger *slog.Logger) *SnapshotBackupJob {
	return &SnapshotBackupJob{Backup: svc, Dir: dir, Logger: logger}
}

// Handle processes TaskSnapshotBackup tasks.
func (j *SnapshotBackupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Backup == nil {
		return errors.New("snapshot backup: handler not configured")
	}
	var payload SnapshotBackupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger()
	start := time.Now()
	path, err := j.Backup.WriteFile(ctx, j.Dir)
	if err != nil {
		logger.Error("snapshot backup failed", slog.Any("error", err))
		return err
	}
	logger.Info("wrote snapshot backup",
		slog.String("path", path),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *SnapshotBackupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSnapshotBackup))
	}
	return slog.Default().With(slog.String("job", TaskSnapshotBackup))
}
