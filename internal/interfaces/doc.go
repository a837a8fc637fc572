// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Import Pipeline
//
//   - ProjectStore: inserts one project and reports slug collisions as
//     entities.ErrDuplicate (internal/importers/pipeline.go)
//   - MediaResolver: turns media references into stored URLs (internal/importers/pipeline.go)
//   - ArchiveIndexer: builds the per-batch image lookup (internal/importers/pipeline.go)
//
// ## Storage
//
//   - ObjectStore: writes media bytes and maps keys to public URLs (internal/storage/storage.go)
//
// ## HTTP
//
//   - ProjectStore, ImportPipeline, ImportJobStore, ImportEnqueuer, UploadStager,
//     AuditLog, HealthChecker and BatchRecorder (internal/http/stores.go)
//
// ## Background Work
//
//   - ImportJobStore, Importer, ImportAuditor (internal/tasks/import_projects.go)
//   - AuditEventCleaner, MaintenanceRecorder (internal/tasks/cleanup_audit.go)
//   - ImportJobCleaner (internal/tasks/cleanup_jobs.go)
//   - MaintenanceEnqueuer (internal/scheduler/maintenance.go)
//
// # Adding a New Storage Backend
//
//  1. Implement ObjectStore in a sub-package of internal/storage/
//
//     type GCSStore struct {
//     bucket *storage.BucketHandle
//     }
//
//     func (s *GCSStore) Put(ctx context.Context, key string, data []byte, contentType string) error
//     func (s *GCSStore) PublicURL(key string) string
//     func (s *GCSStore) Owns(ref string) bool
//     func (s *GCSStore) Name() string
//
//  2. Select it in internal/storage/backend/backend.go
//
//  3. Add a compile-time check in checks.go
//
// # Adding a New Database Domain
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Add the entity to Database.Migrate
//
//  4. Add compile-time check:
//
//     var _ http.SomeStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go.
package interfaces
