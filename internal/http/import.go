package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/audit"
	"github.com/mrlokans/portfolio/internal/auth"
	"github.com/mrlokans/portfolio/internal/config"
	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
)

type ImportController struct {
	pipeline       ImportPipeline
	jobs           ImportJobStore
	enqueuer       ImportEnqueuer
	stager         UploadStager
	auditLog       AuditLog
	batches        BatchRecorder
	maxUploadBytes int64
	logger         *zap.Logger
}

type ImportControllerConfig struct {
	Pipeline       ImportPipeline
	Jobs           ImportJobStore
	Enqueuer       ImportEnqueuer
	Stager         UploadStager
	AuditLog       AuditLog
	Batches        BatchRecorder
	MaxUploadBytes int64
	Logger         *zap.Logger
}

func NewImportController(cfg ImportControllerConfig) *ImportController {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}
	return &ImportController{
		pipeline:       cfg.Pipeline,
		jobs:           cfg.Jobs,
		enqueuer:       cfg.Enqueuer,
		stager:         cfg.Stager,
		auditLog:       cfg.AuditLog,
		batches:        cfg.Batches,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         cfg.Logger,
	}
}

// ImportQueuedResponse is returned for asynchronous imports.
type ImportQueuedResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	StatusURL string `json:"status_url"`
}

type upload struct {
	name string
	data []byte
}

// asyncEnabled reports whether jobs can be queued.
func (ic *ImportController) asyncEnabled() bool {
	return ic.jobs != nil && ic.enqueuer != nil && ic.stager != nil
}

// Import runs a bulk import from a multipart upload: "file" holds the
// spreadsheet and the optional "archive" holds a zip of images. The report
// is returned directly unless async=true, in which case the files are staged
// and a job ID is returned.
// POST /api/projects/import
func (ic *ImportController) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ic.maxUploadBytes)

	sheet, err := readUpload(c, "file")
	if err != nil {
		ic.respondUploadError(c, "file", err)
		return
	}
	if sheet == nil {
		respondBadRequest(c, "file is required")
		return
	}

	archive, err := readUpload(c, "archive")
	if err != nil {
		ic.respondUploadError(c, "archive", err)
		return
	}

	if queryBool(c, "async") {
		ic.enqueue(c, sheet, archive)
		return
	}

	var archiveData []byte
	archiveName := ""
	if archive != nil {
		archiveData = archive.data
		archiveName = archive.name
	}

	start := time.Now()
	report, err := ic.pipeline.Import(c.Request.Context(), sheet.data, archiveData)
	if ic.batches != nil {
		ic.batches.Batch("sync", time.Since(start))
	}

	if ic.auditLog != nil {
		ic.auditLog.LogImport(audit.ImportRecord{
			Actor:     auth.Actor(c),
			IPAddress: c.ClientIP(),
			Mode:      "sync",
			Sheet:     sheet.name,
			Archive:   archiveName,
			Report:    report,
			Err:       err,
		})
	}

	if errors.Is(err, importers.ErrUnreadableSpreadsheet) {
		respondError(c, http.StatusBadRequest, "unreadable_spreadsheet", err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, ic.logger, err, "import projects")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (ic *ImportController) enqueue(c *gin.Context, sheet, archive *upload) {
	if !ic.asyncEnabled() {
		respondError(c, http.StatusServiceUnavailable, "async_disabled", "asynchronous imports are not enabled")
		return
	}

	// reject unreadable spreadsheets before anything is queued
	if _, err := importers.ReadSpreadsheet(sheet.data); err != nil {
		respondError(c, http.StatusBadRequest, "unreadable_spreadsheet", err.Error())
		return
	}

	ctx := c.Request.Context()
	job := &entities.ImportJob{
		ID:              uuid.NewString(),
		Status:          entities.ImportJobQueued,
		SpreadsheetName: sheet.name,
		Requester:       auth.Actor(c),
		IPAddress:       c.ClientIP(),
	}

	var err error
	if job.SpreadsheetPath, err = ic.stager.Stage(job.ID, "sheet", sheet.name, sheet.data); err != nil {
		respondInternalError(c, ic.logger, err, "stage spreadsheet")
		return
	}
	if archive != nil {
		job.ArchiveName = archive.name
		if job.ArchivePath, err = ic.stager.Stage(job.ID, "archive", archive.name, archive.data); err != nil {
			_ = ic.stager.Remove(job)
			respondInternalError(c, ic.logger, err, "stage archive")
			return
		}
	}

	if err := ic.jobs.Create(ctx, job); err != nil {
		_ = ic.stager.Remove(job)
		respondInternalError(c, ic.logger, err, "create import job")
		return
	}

	if err := ic.enqueuer.EnqueueImport(ctx, job.ID); err != nil {
		if markErr := ic.jobs.MarkFailed(ctx, job.ID, "could not be queued"); markErr != nil {
			ic.logger.Warn("failed to mark unqueued job", zap.String("job_id", job.ID), zap.Error(markErr))
		}
		_ = ic.stager.Remove(job)
		respondInternalError(c, ic.logger, err, "enqueue import job")
		return
	}

	ic.logger.Info("import job queued",
		zap.String("job_id", job.ID),
		zap.String("spreadsheet", job.SpreadsheetName),
		zap.String("archive", job.ArchiveName),
	)
	c.JSON(http.StatusAccepted, ImportQueuedResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		StatusURL: "/api/projects/import/jobs/" + job.ID,
	})
}

// readUpload returns nil without error when the field is absent.
func readUpload(c *gin.Context, field string) (*upload, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	data, err := readFileHeader(header)
	if err != nil {
		return nil, err
	}
	return &upload{name: header.Filename, data: data}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (ic *ImportController) respondUploadError(c *gin.Context, field string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(c, http.StatusRequestEntityTooLarge, "upload_too_large",
			fmt.Sprintf("upload exceeds the %d byte limit", ic.maxUploadBytes))
		return
	}
	respondBadRequest(c, fmt.Sprintf("could not read %s: %v", field, err))
}
