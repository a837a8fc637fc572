// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── errors.go        # Driver-independent constraint error detection
//	├── projects/        # Project catalogue CRUD and bulk-import inserts
//	├── jobs/            # Asynchronous import job tracking
//	└── audit/           # Audit trail
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(cfg.Database, logger)
//
//	projectsRepo := projects.NewRepository(db.DB)
//	jobsRepo := jobs.NewRepository(db.DB)
//
//	project, err := projectsRepo.GetBySlug(ctx, "palm-grove-residency")
//
// # Interface Implementations
//
//   - projects.Repository: implements importers.ProjectStore and http.ProjectStore
//   - jobs.Repository: implements http.ImportJobStore and tasks.ImportJobStore
//   - audit.Repository: implements audit.Store and http.AuditReader
//
// Repositories translate gorm errors into entities.ErrDuplicate and
// entities.ErrNotFound so callers never depend on gorm.
package database
