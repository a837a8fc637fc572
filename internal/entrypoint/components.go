package entrypoint

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/config"
	"github.com/mrlokans/portfolio/internal/database"
	auditrepo "github.com/mrlokans/portfolio/internal/database/audit"
	"github.com/mrlokans/portfolio/internal/database/jobs"
	"github.com/mrlokans/portfolio/internal/database/projects"
	"github.com/mrlokans/portfolio/internal/importers"
	"github.com/mrlokans/portfolio/internal/media"
	"github.com/mrlokans/portfolio/internal/metrics"
	"github.com/mrlokans/portfolio/internal/storage"
	"github.com/mrlokans/portfolio/internal/storage/backend"
)

// Components holds everything an import needs, shared by the server and the
// CLI.
type Components struct {
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	DB       *database.Database
	Store    storage.ObjectStore
	Projects *projects.Repository
	Jobs     *jobs.Repository
	Audit    *audit.Service
	Pipeline *importers.Pipeline
}

// Build opens the database and object store and assembles the import
// pipeline. Close must be called when done.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	db, err := database.NewDatabase(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.Backend, err)
	}

	projectRepo := projects.NewRepository(db.DB)

	resolver := media.NewResolver(media.ResolverConfig{
		Extensions:          cfg.Media.Extensions,
		KeyPrefix:           cfg.Storage.Prefix,
		PassthroughPrefixes: cfg.Media.PassthroughPrefixes,
		UserAgent:           cfg.Media.UserAgent,
		FetchTimeout:        cfg.Media.FetchTimeout,
		MaxRemoteBytes:      cfg.Media.MaxRemoteSize,
	}, store, &http.Client{}, logger.Named("media"), m)

	extractor := media.NewArchiveExtractor(media.ArchiveConfig{
		Extensions:    cfg.Media.Extensions,
		MaxEntryBytes: cfg.Media.MaxArchiveEntrySize,
	}, logger.Named("archive"), m)

	return &Components{
		Logger:   logger,
		Registry: registry,
		Metrics:  m,
		DB:       db,
		Store:    store,
		Projects: projectRepo,
		Jobs:     jobs.NewRepository(db.DB),
		Audit:    audit.NewService(auditrepo.NewRepository(db.DB), logger.Named("audit")),
		Pipeline: importers.NewPipeline(projectRepo, resolver, extractor, logger.Named("import"), m),
	}, nil
}

// Close waits for pending audit writes and closes the database.
func (c *Components) Close() error {
	c.Audit.Wait()
	return c.DB.Close()
}
