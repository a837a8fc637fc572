package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/database/jobs"
	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
	"github.com/mrlokans/portfolio/internal/metrics"
)

// ImportJobStore tracks the lifecycle of an asynchronous import.
type ImportJobStore interface {
	Get(ctx context.Context, id string) (*entities.ImportJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkSucceeded(ctx context.Context, id string, result jobs.Result) error
	MarkFailed(ctx context.Context, id string, msg string) error
}

// Importer runs a bulk import over raw file contents.
type Importer interface {
	Import(ctx context.Context, spreadsheet, archive []byte) (*importers.Report, error)
}

type ImportAuditor interface {
	LogImport(rec audit.ImportRecord)
}

// ImportProjectsTask processes one staged bulk import.
type ImportProjectsTask struct {
	JobID string `json:"job_id"`
}

// Config returns the queue configuration for import tasks. Imports are not
// retried: a second pass over already inserted rows only yields slug
// conflicts.
func (t ImportProjectsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_projects",
		MaxAttempts: 1,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

type ImportProjectsDeps struct {
	Jobs     ImportJobStore
	Importer Importer
	Stager   *Stager
	Auditor  ImportAuditor
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// ImportProjectsProcessor creates a processor function for ImportProjectsTask.
// Import failures are recorded on the job and never returned, so backlite
// does not treat them as task errors.
func ImportProjectsProcessor(deps ImportProjectsDeps) backlite.QueueProcessor[ImportProjectsTask] {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, task ImportProjectsTask) error {
		if deps.Jobs == nil || deps.Importer == nil {
			return fmt.Errorf("import processor not configured")
		}
		log := logger.With(zap.String("job_id", task.JobID))

		job, err := deps.Jobs.Get(ctx, task.JobID)
		if errors.Is(err, entities.ErrNotFound) {
			log.Warn("import job no longer exists")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load import job %s: %w", task.JobID, err)
		}
		if job.Finished() {
			log.Info("import job already finished", zap.String("status", string(job.Status)))
			return nil
		}

		if err := deps.Jobs.MarkRunning(ctx, job.ID); err != nil {
			return fmt.Errorf("mark import job %s running: %w", job.ID, err)
		}

		report, importErr := runImport(ctx, deps, job)
		if importErr == nil {
			importErr = storeReport(ctx, deps.Jobs, job.ID, report)
			if importErr != nil {
				log.Error("failed to store import report", zap.Error(importErr))
			}
		}

		if importErr != nil {
			log.Warn("import job failed", zap.Error(importErr))
			if err := deps.Jobs.MarkFailed(ctx, job.ID, importErr.Error()); err != nil {
				log.Error("failed to record import failure", zap.Error(err))
			}
			deps.Metrics.Job(string(entities.ImportJobFailed))
		} else {
			deps.Metrics.Job(string(entities.ImportJobSucceeded))
			log.Info("import job finished",
				zap.Int("total", report.Total),
				zap.Int("imported", report.Imported),
				zap.Int("failed", report.Failed()),
			)
		}

		if deps.Auditor != nil {
			deps.Auditor.LogImport(audit.ImportRecord{
				Actor:     audit.ActorWorker,
				IPAddress: job.IPAddress,
				Mode:      "async",
				JobID:     job.ID,
				Sheet:     job.SpreadsheetName,
				Archive:   job.ArchiveName,
				Report:    report,
				Err:       importErr,
			})
		}

		if deps.Stager != nil {
			if err := deps.Stager.Remove(job); err != nil {
				log.Warn("failed to remove staged files", zap.Error(err))
			}
		}
		return nil
	}
}

// storeReport marks the job succeeded with the encoded report.
func storeReport(ctx context.Context, store ImportJobStore, jobID string, report *importers.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report for job %s: %w", jobID, err)
	}
	err = store.MarkSucceeded(ctx, jobID, jobs.Result{
		Total:    report.Total,
		Imported: report.Imported,
		Failed:   report.Failed(),
		Report:   data,
	})
	if err != nil {
		return fmt.Errorf("store report for job %s: %w", jobID, err)
	}
	return nil
}

func runImport(ctx context.Context, deps ImportProjectsDeps, job *entities.ImportJob) (*importers.Report, error) {
	sheet, err := os.ReadFile(job.SpreadsheetPath)
	if err != nil {
		return nil, fmt.Errorf("read staged spreadsheet: %w", err)
	}

	var archive []byte
	if job.ArchivePath != "" {
		archive, err = os.ReadFile(job.ArchivePath)
		if err != nil {
			return nil, fmt.Errorf("read staged archive: %w", err)
		}
	}

	start := time.Now()
	report, err := deps.Importer.Import(ctx, sheet, archive)
	deps.Metrics.Batch("async", time.Since(start))
	return report, err
}

// NewImportProjectsQueue creates a backlite queue for import tasks.
func NewImportProjectsQueue(deps ImportProjectsDeps) backlite.Queue {
	return backlite.NewQueue(ImportProjectsProcessor(deps))
}
