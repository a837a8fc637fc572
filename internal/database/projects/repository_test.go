package projects

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/mrlokans/portfolio/internal/config"
	"github.com/mrlokans/portfolio/internal/database"
	"github.com/mrlokans/portfolio/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver:   database.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "projects.db"),
		LogLevel: "silent",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db.DB)
}

func strPtr(s string) *string { return &s }

func newProject(title, city, slug string) *entities.Project {
	p := &entities.Project{
		Title:      title,
		City:       city,
		Gallery:    datatypes.JSONSlice[string]{},
		Videos:     datatypes.JSONSlice[string]{},
		Highlights: datatypes.JSONSlice[string]{},
		Amenities:  datatypes.JSONSlice[string]{},
	}
	if slug != "" {
		p.Slug = strPtr(slug)
	}
	return p
}

func TestRepository_InsertAndGetBySlug(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	p := newProject("Palm Grove Residency", "Pune", "palm-grove-residency")
	p.Category = strPtr("Residential")
	p.Gallery = datatypes.JSONSlice[string]{"projects/a.jpg", "projects/b.jpg"}
	p.Configurations = datatypes.JSON(`[{"type":"2 BHK","size":"850 sq ft","price":"75 L"}]`)

	require.NoError(t, repo.Insert(ctx, p))
	assert.NotZero(t, p.ID)

	got, err := repo.GetBySlug(ctx, "palm-grove-residency")
	require.NoError(t, err)
	assert.Equal(t, "Palm Grove Residency", got.Title)
	assert.Equal(t, "Residential", *got.Category)
	assert.Nil(t, got.Location)
	assert.Equal(t, []string{"projects/a.jpg", "projects/b.jpg"}, []string(got.Gallery))
	assert.JSONEq(t, `[{"type":"2 BHK","size":"850 sq ft","price":"75 L"}]`, string(got.Configurations))

	byID, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Title, byID.Title)
}

func TestRepository_InsertDuplicateSlug(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProject("Palm Grove", "Pune", "palm-grove")))
	err := repo.Insert(ctx, newProject("Palm Grove", "Mumbai", "palm-grove"))

	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrDuplicate)
	assert.Contains(t, err.Error(), `"palm-grove"`)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestRepository_InsertWithoutSlug(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProject("A", "Pune", "")))
	require.NoError(t, repo.Insert(ctx, newProject("B", "Pune", "")))

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestRepository_GetBySlugNotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)

	_, err = repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for i, city := range []string{"Pune", "pune", "Mumbai", "Goa"} {
		p := newProject("Project", city, "")
		p.Slug = strPtr("project-" + string(rune('a'+i)))
		if city == "Goa" {
			p.Category = strPtr("Villa")
		}
		require.NoError(t, repo.Insert(ctx, p))
	}

	t.Run("all", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, items, 4)
	})

	t.Run("city is case-insensitive", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListFilter{City: "PUNE"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("category", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListFilter{Category: "villa"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "Goa", items[0].City)
	})

	t.Run("pagination keeps the total", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListFilter{Limit: 3, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, items, 2)
	})
}

func TestRepository_DeleteBySlug(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newProject("Palm Grove", "Pune", "palm-grove")))

	require.NoError(t, repo.DeleteBySlug(ctx, "palm-grove"))
	assert.ErrorIs(t, repo.DeleteBySlug(ctx, "palm-grove"), entities.ErrNotFound)

	// the slug is free again
	require.NoError(t, repo.Insert(ctx, newProject("Palm Grove", "Pune", "palm-grove")))
}
