package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/portfolio/internal/auth"
	"github.com/mrlokans/portfolio/internal/database/projects"
	"github.com/mrlokans/portfolio/internal/entities"
	"github.com/mrlokans/portfolio/internal/importers"
	"github.com/mrlokans/portfolio/internal/media"
)

type ProjectsController struct {
	store    ProjectStore
	pipeline ImportPipeline
	auditLog AuditLog
	logger   *zap.Logger
}

func NewProjectsController(store ProjectStore, pipeline ImportPipeline, auditLog AuditLog, logger *zap.Logger) *ProjectsController {
	return &ProjectsController{
		store:    store,
		pipeline: pipeline,
		auditLog: auditLog,
		logger:   logger,
	}
}

// List returns a page of projects.
// GET /api/projects?city=&category=&limit=&offset=
func (pc *ProjectsController) List(c *gin.Context) {
	limit, offset := parsePagination(c, projects.DefaultListLimit, projects.MaxListLimit)

	items, total, err := pc.store.List(c.Request.Context(), projects.ListFilter{
		City:     c.Query("city"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondInternalError(c, pc.logger, err, "list projects")
		return
	}

	c.JSON(http.StatusOK, newPaginatedResponse(items, total, limit, offset))
}

// Get returns one project.
// GET /api/projects/:slug
func (pc *ProjectsController) Get(c *gin.Context) {
	project, err := pc.store.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, entities.ErrNotFound) {
		respondNotFound(c, "project")
		return
	}
	if err != nil {
		respondInternalError(c, pc.logger, err, "get project")
		return
	}
	c.JSON(http.StatusOK, project)
}

// Create adds a single project from a JSON object keyed like the
// spreadsheet columns. It goes through the same normalization, media
// resolution and slug assignment as a bulk import row.
// POST /api/projects
func (pc *ProjectsController) Create(c *gin.Context) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "request body must be a JSON object")
		return
	}

	row := importers.SheetRow{Ordinal: 1, Cells: importers.NewRawRow(body)}
	outcome := pc.pipeline.ImportRow(c.Request.Context(), row, media.EmptyArchiveIndex())

	if !outcome.Succeeded() {
		msg := "project was not created"
		if outcome.Err != nil {
			msg = outcome.Err.Error()
		}
		kind := importers.Kind(outcome.Err)
		switch kind {
		case importers.KindValidation:
			respondError(c, http.StatusBadRequest, kind, msg)
		case importers.KindConstraint:
			respondError(c, http.StatusConflict, "duplicate_slug", msg)
		default:
			respondInternalError(c, pc.logger, outcome.Err, "create project")
		}
		return
	}

	project, err := pc.store.GetByID(c.Request.Context(), outcome.Item.ID)
	if err != nil {
		respondInternalError(c, pc.logger, err, "load created project")
		return
	}

	if pc.auditLog != nil {
		pc.auditLog.LogCreate(auth.Actor(c), c.ClientIP(), project)
	}
	c.JSON(http.StatusCreated, project)
}

// Delete removes a project.
// DELETE /api/projects/:slug
func (pc *ProjectsController) Delete(c *gin.Context) {
	slug := c.Param("slug")
	err := pc.store.DeleteBySlug(c.Request.Context(), slug)
	if errors.Is(err, entities.ErrNotFound) {
		respondNotFound(c, "project")
		return
	}
	if err != nil {
		respondInternalError(c, pc.logger, err, "delete project")
		return
	}

	if pc.auditLog != nil {
		pc.auditLog.LogDelete(auth.Actor(c), c.ClientIP(), slug)
	}
	c.Status(http.StatusNoContent)
}
