package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/database"
	"github.com/mrlokans/portfolio/internal/database/jobs"
	"github.com/mrlokans/portfolio/internal/database/projects"
	"github.com/mrlokans/portfolio/internal/http"
	"github.com/mrlokans/portfolio/internal/importers"
	"github.com/mrlokans/portfolio/internal/media"
	"github.com/mrlokans/portfolio/internal/metrics"
	"github.com/mrlokans/portfolio/internal/scheduler"
	"github.com/mrlokans/portfolio/internal/storage"
	"github.com/mrlokans/portfolio/internal/storage/localstore"
	"github.com/mrlokans/portfolio/internal/storage/s3store"
	"github.com/mrlokans/portfolio/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

var _ importers.ProjectStore = (*projects.Repository)(nil)
var _ http.ProjectStore = (*projects.Repository)(nil)
var _ http.ImportJobStore = (*jobs.Repository)(nil)
var _ http.HealthChecker = (*database.Database)(nil)
var _ tasks.ImportJobStore = (*jobs.Repository)(nil)
var _ tasks.ImportJobCleaner = (*jobs.Repository)(nil)

// =============================================================================
// Object Storage
// =============================================================================

var _ storage.ObjectStore = (*localstore.Store)(nil)
var _ storage.ObjectStore = (*s3store.Store)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

var _ importers.MediaResolver = (*media.Resolver)(nil)
var _ importers.ArchiveIndexer = (*media.ArchiveExtractor)(nil)
var _ http.ImportPipeline = (*importers.Pipeline)(nil)
var _ tasks.Importer = (*importers.Pipeline)(nil)
var _ http.BatchRecorder = (*metrics.Metrics)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.ImportEnqueuer = (*tasks.Client)(nil)
var _ http.UploadStager = (*tasks.Stager)(nil)
var _ scheduler.MaintenanceEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// Audit
// =============================================================================

var _ http.AuditLog = (*audit.Service)(nil)
var _ tasks.ImportAuditor = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ tasks.MaintenanceRecorder = (*audit.Service)(nil)
