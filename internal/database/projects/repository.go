package projects

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/portfolio/internal/database"
	"github.com/mrlokans/portfolio/internal/entities"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListFilter narrows List results. Empty fields match everything; City and
// Category compare case-insensitively.
type ListFilter struct {
	City     string
	Category string
	Limit    int
	Offset   int
}

// Insert stores a new project. A slug collision is reported as
// entities.ErrDuplicate and never resolved by renaming.
func (r *Repository) Insert(ctx context.Context, project *entities.Project) error {
	err := r.db.WithContext(ctx).Create(project).Error
	if err == nil {
		return nil
	}
	if database.IsDuplicateKey(err) {
		slug := ""
		if project.Slug != nil {
			slug = *project.Slug
		}
		return fmt.Errorf("%w: a project with slug %q already exists", entities.ErrDuplicate, slug)
	}
	return err
}

// List returns a page of projects ordered by newest first, plus the total
// count matching the filter.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]entities.Project, int64, error) {
	var projects []entities.Project
	var total int64

	query := r.db.WithContext(ctx).Model(&entities.Project{})
	if filter.City != "" {
		query = query.Where("LOWER(city) = LOWER(?)", filter.City)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", filter.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&projects).Error
	return projects, total, err
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (*entities.Project, error) {
	var project entities.Project
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error
	if database.IsNotFound(err) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Project, error) {
	var project entities.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if database.IsNotFound(err) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *Repository) DeleteBySlug(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&entities.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entities.Project{}).Count(&total).Error
	return total, err
}
