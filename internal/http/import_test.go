package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/portfolio/internal/database/jobs"
	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
)

const sampleCSV = "Title,City,Slug\n" +
	"Palm Grove Residency,Pune,\n" +
	"Lake View,,\n" +
	"Sea Breeze,Goa,sea-breeze\n"

func TestImportController_Sync(t *testing.T) {
	s := setupServer(t)

	w := s.do(multipartRequest(t, "/api/projects/import", map[string]namedFile{
		"file": {name: "projects.csv", data: []byte(sampleCSV)},
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[importers.Report](t, w)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Equal(t, importers.KindValidation, report.Errors[0].Kind)

	count, err := s.projects.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	s.audit.Wait()
	events, total, err := s.audit.GetEventsByType(entities.AuditEventImport, "", 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	assert.Equal(t, entities.AuditStatusPartial, events[0].Status)
	assert.Contains(t, events[0].Metadata, `"mode":"sync"`)
}

func TestImportController_RerunReportsConstraints(t *testing.T) {
	s := setupServer(t)
	upload := map[string]namedFile{"file": {name: "projects.csv", data: []byte(sampleCSV)}}

	require.Equal(t, http.StatusOK, s.do(multipartRequest(t, "/api/projects/import", upload)).Code)
	w := s.do(multipartRequest(t, "/api/projects/import", upload))

	require.Equal(t, http.StatusOK, w.Code)
	report := decode[importers.Report](t, w)
	assert.Equal(t, 0, report.Imported)
	require.Len(t, report.Errors, 3)
	assert.Equal(t, importers.KindConstraint, report.Errors[0].Kind)
	assert.Equal(t, importers.KindValidation, report.Errors[1].Kind)
	assert.Equal(t, importers.KindConstraint, report.Errors[2].Kind)
}

func TestImportController_Validation(t *testing.T) {
	t.Run("requires a file", func(t *testing.T) {
		s := setupServer(t)
		w := s.do(multipartRequest(t, "/api/projects/import", map[string]namedFile{
			"archive": {name: "media.zip", data: []byte("PK")},
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "file is required")
	})

	t.Run("rejects unreadable spreadsheets", func(t *testing.T) {
		s := setupServer(t)
		w := s.do(multipartRequest(t, "/api/projects/import", map[string]namedFile{
			"file": {name: "legacy.xls", data: []byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1rest")},
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "unreadable_spreadsheet", decode[ErrorResponse](t, w).Code)
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		s := setupServer(t, withMaxUpload(1024))
		w := s.do(multipartRequest(t, "/api/projects/import", map[string]namedFile{
			"file": {name: "big.csv", data: []byte("title,city\n" + strings.Repeat("x,y\n", 1000))},
		}))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestImportController_Async(t *testing.T) {
	t.Run("stages files and queues a job", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(multipartRequest(t, "/api/projects/import?async=true", map[string]namedFile{
			"file":    {name: "projects.csv", data: []byte(sampleCSV)},
			"archive": {name: "media.zip", data: []byte("PK\x05\x06" + strings.Repeat("\x00", 18))},
		}))

		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
		resp := decode[ImportQueuedResponse](t, w)
		assert.NotEmpty(t, resp.JobID)
		assert.Equal(t, "queued", resp.Status)
		assert.Equal(t, "/api/projects/import/jobs/"+resp.JobID, resp.StatusURL)
		assert.Equal(t, []string{resp.JobID}, s.enqueuer.ids)

		job, err := s.jobs.Get(context.Background(), resp.JobID)
		require.NoError(t, err)
		assert.Equal(t, entities.ImportJobQueued, job.Status)
		assert.Equal(t, "projects.csv", job.SpreadsheetName)
		assert.Equal(t, "media.zip", job.ArchiveName)

		data, err := os.ReadFile(job.SpreadsheetPath)
		require.NoError(t, err)
		assert.Equal(t, sampleCSV, string(data))
		assert.Equal(t, filepath.Join(s.stageDir, resp.JobID), filepath.Dir(job.ArchivePath))

		count, err := s.projects.Count(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("rejects unreadable spreadsheets before queueing", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(multipartRequest(t, "/api/projects/import?async=true", map[string]namedFile{
			"file": {name: "empty.csv", data: []byte("   ")},
		}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, s.enqueuer.ids)
	})

	t.Run("marks the job failed when it cannot be queued", func(t *testing.T) {
		s := setupServer(t)
		s.enqueuer.err = errors.New("queue unavailable")

		w := s.do(multipartRequest(t, "/api/projects/import?async=true", map[string]namedFile{
			"file": {name: "projects.csv", data: []byte(sampleCSV)},
		}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		list, err := s.jobs.ListRecent(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, entities.ImportJobFailed, list[0].Status)

		entries, err := os.ReadDir(s.stageDir)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("answers 503 when async imports are disabled", func(t *testing.T) {
		s := setupServer(t, withoutAsync())

		w := s.do(multipartRequest(t, "/api/projects/import?async=1", map[string]namedFile{
			"file": {name: "projects.csv", data: []byte(sampleCSV)},
		}))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestJobsController(t *testing.T) {
	s := setupServer(t)
	ctx := context.Background()

	job := &entities.ImportJob{ID: "job-1", SpreadsheetName: "projects.csv"}
	require.NoError(t, s.jobs.Create(ctx, job))

	t.Run("returns a queued job", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects/import/jobs/job-1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[JobResponse](t, w)
		assert.Equal(t, "queued", resp.Status)
		assert.Nil(t, resp.Report)
	})

	t.Run("returns the report once finished", func(t *testing.T) {
		report := importers.NewReport()
		report.Add(importers.RowOutcome{Row: 1, State: importers.RowSucceeded, Item: &importers.ReportItem{ID: 7, Title: "Palm Grove"}})
		payload, err := json.Marshal(report)
		require.NoError(t, err)
		require.NoError(t, s.jobs.MarkSucceeded(ctx, "job-1", jobs.Result{
			Total:    report.Total,
			Imported: report.Imported,
			Failed:   report.Failed(),
			Report:   payload,
		}))

		w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects/import/jobs/job-1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[JobResponse](t, w)
		assert.Equal(t, "succeeded", resp.Status)
		assert.Equal(t, 1, resp.Imported)
		require.NotNil(t, resp.Report)
		assert.Equal(t, "Palm Grove", resp.Report.Items[0].Title)
	})

	t.Run("lists recent jobs", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects/import/jobs", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Jobs []JobResponse `json:"jobs"`
		}](t, w)
		require.Len(t, resp.Jobs, 1)
		assert.Equal(t, "job-1", resp.Jobs[0].ID)
		assert.Nil(t, resp.Jobs[0].Report)
	})

	t.Run("unknown job is 404", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects/import/jobs/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuditController(t *testing.T) {
	s := setupServer(t)
	seedProjects(t, s, map[string]any{"title": "Palm Grove", "city": "Pune"})
	require.Equal(t, http.StatusOK, s.do(multipartRequest(t, "/api/projects/import", map[string]namedFile{
		"file": {name: "projects.csv", data: []byte("title,city\nSea Breeze,Goa\n")},
	})).Code)
	s.audit.Wait()

	t.Run("lists every event", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/audit", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Data  []entities.AuditEvent `json:"data"`
			Total int64                 `json:"total"`
		}](t, w)
		assert.Equal(t, int64(2), resp.Total)
	})

	t.Run("lists import events", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/audit/imports", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Data []entities.AuditEvent `json:"data"`
		}](t, w)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, entities.AuditEventImport, resp.Data[0].EventType)
	})
}
