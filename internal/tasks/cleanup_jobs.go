package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/entities"
)

// ImportJobCleaner deletes finished import jobs.
type ImportJobCleaner interface {
	DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]entities.ImportJob, error)
}

// CleanupImportJobsTask removes finished import jobs and any staged files
// they left behind.
type CleanupImportJobsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupImportJobsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_import_jobs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

func CleanupImportJobsProcessor(cleaner ImportJobCleaner, stager *Stager, recorder MaintenanceRecorder, logger *zap.Logger) backlite.QueueProcessor[CleanupImportJobsTask] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, task CleanupImportJobsTask) error {
		if cleaner == nil {
			return fmt.Errorf("import job cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 14
		}
		cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := cleaner.DeleteFinishedBefore(ctx, cutoff)
		if recorder != nil {
			recorder.LogMaintenance("import_job_cleanup", int64(len(deleted)), err)
		}
		if err != nil {
			return fmt.Errorf("cleanup import jobs: %w", err)
		}

		if stager != nil {
			for i := range deleted {
				if err := stager.Remove(&deleted[i]); err != nil {
					logger.Warn("failed to remove staged files",
						zap.String("job_id", deleted[i].ID),
						zap.Error(err),
					)
				}
			}
		}

		logger.Info("cleaned up import jobs",
			zap.Int("deleted", len(deleted)),
			zap.Int("retention_days", retentionDays),
		)
		return nil
	}
}

func NewCleanupImportJobsQueue(cleaner ImportJobCleaner, stager *Stager, recorder MaintenanceRecorder, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupImportJobsProcessor(cleaner, stager, recorder, logger))
}
