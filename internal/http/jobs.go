package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
)

const (
	defaultJobListLimit = 20
	maxJobListLimit     = 100
)

type JobsController struct {
	jobs   ImportJobStore
	logger *zap.Logger
}

func NewJobsController(jobs ImportJobStore, logger *zap.Logger) *JobsController {
	return &JobsController{jobs: jobs, logger: logger}
}

// JobResponse is the public view of an import job. Report is set once the
// job has succeeded.
type JobResponse struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	Spreadsheet string            `json:"spreadsheet"`
	Archive     string            `json:"archive,omitempty"`
	Requester   string            `json:"requester,omitempty"`
	Total       int               `json:"total"`
	Imported    int               `json:"imported"`
	Failed      int               `json:"failed"`
	Error       string            `json:"error,omitempty"`
	Report      *importers.Report `json:"report,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	FinishedAt  *time.Time        `json:"finished_at,omitempty"`
}

func newJobResponse(job *entities.ImportJob, withReport bool) (JobResponse, error) {
	resp := JobResponse{
		ID:          job.ID,
		Status:      string(job.Status),
		Spreadsheet: job.SpreadsheetName,
		Archive:     job.ArchiveName,
		Requester:   job.Requester,
		Total:       job.Total,
		Imported:    job.Imported,
		Failed:      job.Failed,
		Error:       job.ErrorMsg,
		CreatedAt:   job.CreatedAt,
		StartedAt:   job.StartedAt,
		FinishedAt:  job.FinishedAt,
	}
	if withReport && len(job.Report) > 0 {
		var report importers.Report
		if err := json.Unmarshal(job.Report, &report); err != nil {
			return resp, err
		}
		resp.Report = &report
	}
	return resp, nil
}

// Get returns a job with its report.
// GET /api/projects/import/jobs/:id
func (jc *JobsController) Get(c *gin.Context) {
	job, err := jc.jobs.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, entities.ErrNotFound) {
		respondNotFound(c, "import job")
		return
	}
	if err != nil {
		respondInternalError(c, jc.logger, err, "get import job")
		return
	}

	resp, err := newJobResponse(job, true)
	if err != nil {
		respondInternalError(c, jc.logger, err, "decode import report")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List returns the most recent jobs without their reports.
// GET /api/projects/import/jobs?limit=
func (jc *JobsController) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultJobListLimit)))
	if err != nil || limit < 1 {
		limit = defaultJobListLimit
	}
	if limit > maxJobListLimit {
		limit = maxJobListLimit
	}

	list, err := jc.jobs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, jc.logger, err, "list import jobs")
		return
	}

	out := make([]JobResponse, 0, len(list))
	for i := range list {
		resp, _ := newJobResponse(&list[i], false)
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, gin.H{"jobs": out})
}
