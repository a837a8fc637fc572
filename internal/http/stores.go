package http

import (
	"context"
	"time"

	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/database/projects"
	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
	"github.com/mrlokans/portfolio/internal/media"
)

// Each controller depends on the narrowest interface it needs; this file
// collects them in one place.

// ProjectStore provides catalogue reads and deletes.
type ProjectStore interface {
	List(ctx context.Context, filter projects.ListFilter) ([]entities.Project, int64, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Project, error)
	GetByID(ctx context.Context, id uint) (*entities.Project, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// ImportPipeline runs bulk imports and single-row creates.
type ImportPipeline interface {
	Import(ctx context.Context, spreadsheet, archive []byte) (*importers.Report, error)
	ImportRow(ctx context.Context, row importers.SheetRow, idx *media.ArchiveIndex) importers.RowOutcome
}

// ImportJobStore tracks asynchronous imports.
type ImportJobStore interface {
	Create(ctx context.Context, job *entities.ImportJob) error
	Get(ctx context.Context, id string) (*entities.ImportJob, error)
	ListRecent(ctx context.Context, limit int) ([]entities.ImportJob, error)
	MarkFailed(ctx context.Context, id string, msg string) error
}

type ImportEnqueuer interface {
	EnqueueImport(ctx context.Context, jobID string) error
}

// UploadStager keeps uploaded files until the worker picks them up.
type UploadStager interface {
	Stage(jobID, field, name string, data []byte) (string, error)
	Remove(job *entities.ImportJob) error
}

// AuditLog records and lists audit events.
type AuditLog interface {
	LogImport(rec audit.ImportRecord)
	LogCreate(actor, ip string, project *entities.Project)
	LogDelete(actor, ip, slug string)
	GetEvents(actor string, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsByType(eventType entities.AuditEventType, actor string, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// HealthChecker reports database connectivity.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// BatchRecorder records batch timings.
type BatchRecorder interface {
	Batch(mode string, elapsed time.Duration)
}
