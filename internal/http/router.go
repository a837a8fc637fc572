package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/auth"
	"github.com/mrlokans/portfolio/internal/logging"
	"github.com/mrlokans/portfolio/internal/readonly"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(logging.RequestLogger(logger))
	router.Use(gin.Recovery())
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.HSTSMaxAge > 0 {
		router.Use(auth.StrictTransportSecurityMiddleware(cfg.HSTSMaxAge))
	}
	if cfg.ReadOnly {
		router.Use(readonly.NewMiddleware(true).Handler())
	}
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	admin := func(c *gin.Context) { c.Set(auth.ContextKeyActor, auth.ActorAdmin) }
	if cfg.AdminGuard != nil {
		admin = cfg.AdminGuard.Middleware()
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.StorageName, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	if cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	// Local media files
	if cfg.MediaDir != "" && cfg.MediaURLPath != "" {
		router.Static(cfg.MediaURLPath, cfg.MediaDir)
	}

	api := router.Group("/api")

	// Projects API endpoints
	if cfg.Projects != nil {
		projects := NewProjectsController(cfg.Projects, cfg.Pipeline, cfg.AuditLog, logger)
		api.GET("/projects", projects.List)
		api.GET("/projects/:slug", projects.Get)
		api.DELETE("/projects/:slug", admin, projects.Delete)
		if cfg.Pipeline != nil {
			api.POST("/projects", admin, projects.Create)
		}
	}

	// Import endpoints
	api.GET("/projects/import/template", TemplateHandler(logger))
	if cfg.Pipeline != nil {
		importer := NewImportController(ImportControllerConfig{
			Pipeline:       cfg.Pipeline,
			Jobs:           cfg.Jobs,
			Enqueuer:       cfg.Enqueuer,
			Stager:         cfg.Stager,
			AuditLog:       cfg.AuditLog,
			Batches:        cfg.Batches,
			MaxUploadBytes: cfg.MaxUploadBytes,
			Logger:         logger,
		})
		api.POST("/projects/import", admin, importer.Import)
	}
	if cfg.Jobs != nil {
		jobs := NewJobsController(cfg.Jobs, logger)
		api.GET("/projects/import/jobs", admin, jobs.List)
		api.GET("/projects/import/jobs/:id", admin, jobs.Get)
	}

	// Audit endpoints
	if cfg.AuditLog != nil {
		auditController := NewAuditController(cfg.AuditLog, logger)
		api.GET("/audit", admin, auditController.GetAuditEvents)
		api.GET("/audit/imports", admin, auditController.GetImportEvents)
	}

	return router
}
