package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/portfolio/internal/entities"
)

func seedProjects(t *testing.T, s *testServer, rows ...map[string]any) {
	t.Helper()
	for _, row := range rows {
		w := s.do(jsonRequest(t, http.MethodPost, "/api/projects", row))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestProjectsController_Create(t *testing.T) {
	t.Run("creates a project through the row pipeline", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{
			"Title":          "  Palm Grove Residency ",
			"City":           "Pune",
			"Amenities":      "Pool, Gym",
			"Configurations": `[{"type":"2 BHK","size":"950 sqft","price":"85L"}]`,
		}))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		project := decode[entities.Project](t, w)
		assert.NotZero(t, project.ID)
		assert.Equal(t, "Palm Grove Residency", project.Title)
		require.NotNil(t, project.Slug)
		assert.Equal(t, "palm-grove-residency", *project.Slug)
		assert.Equal(t, []string{"Pool", "Gym"}, []string(project.Amenities))

		s.audit.Wait()
		events, total, err := s.audit.GetEventsByType(entities.AuditEventCreate, "", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "admin", events[0].Actor)
	})

	t.Run("accepts JSON arrays for list fields", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{
			"title":      "Lake View",
			"city":       "Goa",
			"highlights": []any{"Lake facing", "Club house"},
		}))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		project := decode[entities.Project](t, w)
		assert.Equal(t, []string{"Lake facing", "Club house"}, []string(project.Highlights))
	})

	t.Run("rejects a row without city", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{"title": "Lake View"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[ErrorResponse](t, w)
		assert.Equal(t, "validation", resp.Code)
		assert.Contains(t, resp.Error, "city")
	})

	t.Run("rejects a duplicate slug", func(t *testing.T) {
		s := setupServer(t)
		seedProjects(t, s, map[string]any{"title": "Sea Breeze", "city": "Goa"})

		w := s.do(jsonRequest(t, http.MethodPost, "/api/projects", map[string]any{"title": "Sea Breeze", "city": "Goa"}))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "duplicate_slug", decode[ErrorResponse](t, w).Code)
	})

	t.Run("rejects non-object bodies", func(t *testing.T) {
		s := setupServer(t)

		w := s.do(jsonRequest(t, http.MethodPost, "/api/projects", []string{"a"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestProjectsController_List(t *testing.T) {
	s := setupServer(t)
	seedProjects(t, s,
		map[string]any{"title": "Palm Grove", "city": "Pune", "category": "Residential"},
		map[string]any{"title": "Tech Park", "city": "Pune", "category": "Commercial"},
		map[string]any{"title": "Sea Breeze", "city": "Goa", "category": "Residential"},
	)

	t.Run("returns all projects with pagination metadata", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects?limit=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Data    []entities.Project `json:"data"`
			Total   int64              `json:"total"`
			Limit   int                `json:"limit"`
			HasMore bool               `json:"has_more"`
		}](t, w)
		assert.Equal(t, int64(3), resp.Total)
		assert.Equal(t, 2, resp.Limit)
		assert.Len(t, resp.Data, 2)
		assert.True(t, resp.HasMore)
	})

	t.Run("filters by city and category", func(t *testing.T) {
		w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects?city=pune&category=residential", nil))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[struct {
			Data  []entities.Project `json:"data"`
			Total int64              `json:"total"`
		}](t, w)
		assert.Equal(t, int64(1), resp.Total)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "Palm Grove", resp.Data[0].Title)
	})
}

func TestProjectsController_Get(t *testing.T) {
	s := setupServer(t)
	seedProjects(t, s, map[string]any{"title": "Palm Grove", "city": "Pune"})

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/projects/palm-grove", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Palm Grove", decode[entities.Project](t, w).Title)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/projects/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectsController_Delete(t *testing.T) {
	s := setupServer(t)
	seedProjects(t, s, map[string]any{"title": "Palm Grove", "city": "Pune"})

	w := s.do(httptest.NewRequest(http.MethodDelete, "/api/projects/palm-grove", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	count, err := s.projects.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	w = s.do(httptest.NewRequest(http.MethodDelete, "/api/projects/palm-grove", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	s.audit.Wait()
	_, total, err := s.audit.GetEventsByType(entities.AuditEventDelete, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
