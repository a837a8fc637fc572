package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/auth"
	"github.com/mrlokans/portfolio/internal/config"
	http_controllers "github.com/mrlokans/portfolio/internal/http"
	"github.com/mrlokans/portfolio/internal/logging"
	"github.com/mrlokans/portfolio/internal/scheduler"
	"github.com/mrlokans/portfolio/internal/storage/localstore"
	"github.com/mrlokans/portfolio/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	// in-flight requests are drained before workers are stopped
	if onShutdown != nil {
		onShutdown(ctx)
	}

	logger.Info("server exited")
	return nil
}

func Run(cfg *config.Config, version string) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("starting portfolio", zap.String("version", version))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := comps.Close(); err != nil {
			logger.Error("error closing database", zap.Error(err))
		}
	}()
	logger.Info("database ready",
		zap.String("driver", comps.DB.Driver()),
		zap.String("storage", comps.Store.Name()),
	)

	routerCfg := http_controllers.RouterConfig{
		Logger:         logger.Named("http"),
		Database:       comps.DB,
		Projects:       comps.Projects,
		Pipeline:       comps.Pipeline,
		AuditLog:       comps.Audit,
		Batches:        comps.Metrics,
		Gatherer:       comps.Registry,
		StorageName:    comps.Store.Name(),
		MaxUploadBytes: cfg.Import.MaxUploadBytes,
		HSTSMaxAge:     cfg.Global.HSTSMaxAge,
		ReadOnly:       cfg.Global.ReadOnly,
		Version:        version,
	}
	if local, ok := comps.Store.(*localstore.Store); ok {
		routerCfg.MediaDir = local.Dir()
		routerCfg.MediaURLPath = local.BaseURL()
	}

	limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
	defer limiter.Stop()
	guard := auth.NewAdminGuard(cfg.Auth, limiter, logger.Named("auth"))
	if !guard.Enabled() {
		logger.Warn("AUTH_ADMIN_TOKEN is not set, write endpoints are unprotected")
	}
	routerCfg.AdminGuard = guard

	// Task queue for asynchronous imports and maintenance
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasks.FromConfig(cfg.Tasks), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("error closing task client", zap.Error(err))
			}
		}()

		stager := tasks.NewStager(cfg.Import.StagingDir)
		taskClient.Register(
			tasks.NewImportProjectsQueue(tasks.ImportProjectsDeps{
				Jobs:     comps.Jobs,
				Importer: comps.Pipeline,
				Stager:   stager,
				Auditor:  comps.Audit,
				Metrics:  comps.Metrics,
				Logger:   logger.Named("worker"),
			}),
			tasks.NewCleanupAuditEventsQueue(comps.Audit, comps.Audit, logger.Named("worker")),
			tasks.NewCleanupImportJobsQueue(comps.Jobs, stager, comps.Audit, logger.Named("worker")),
		)
		taskClient.Start(ctx)

		routerCfg.Jobs = comps.Jobs
		routerCfg.Enqueuer = taskClient
		routerCfg.Stager = stager

		maintenance = scheduler.NewMaintenanceScheduler(scheduler.MaintenanceConfig{
			Enabled:            cfg.Maintenance.Enabled,
			Schedule:           cfg.Maintenance.Schedule,
			AuditRetentionDays: cfg.Audit.RetentionDays,
			JobRetentionDays:   cfg.Maintenance.JobRetentionDays,
		}, taskClient, logger.Named("scheduler"))
		if err := maintenance.Start(ctx); err != nil {
			return fmt.Errorf("failed to start maintenance scheduler: %w", err)
		}
	} else {
		logger.Info("task queue disabled, asynchronous imports are unavailable")
	}

	if cfg.Global.ReadOnly {
		logger.Warn("read-only mode enabled, write requests will be rejected")
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(shutdownCtx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(shutdownCtx)
		}
		cancel()
	}

	return Serve(router, cfg, logger, onShutdown)
}
