package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/auth"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// Optional dependencies may be left nil; their routes are then omitted or
// answer 503.
type RouterConfig struct {
	Logger *zap.Logger

	// Core dependencies
	Database HealthChecker
	Projects ProjectStore
	Pipeline ImportPipeline
	AuditLog AuditLog

	// Asynchronous imports (optional)
	Jobs     ImportJobStore
	Enqueuer ImportEnqueuer
	Stager   UploadStager

	// Admin protection for write routes
	AdminGuard *auth.AdminGuard
	HSTSMaxAge int
	ReadOnly   bool

	// Observability
	Batches  BatchRecorder
	Gatherer prometheus.Gatherer

	// Storage; MediaDir is served under MediaURLPath for the local backend
	StorageName  string
	MediaDir     string
	MediaURLPath string

	MaxUploadBytes int64

	// Application info
	Version string
}
