package jobs

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/mrlokans/portfolio/internal/database"
	"github.com/mrlokans/portfolio/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Result is the final tally written when a job finishes.
type Result struct {
	Total    int
	Imported int
	Failed   int
	Report   []byte
}

func (r *Repository) Create(ctx context.Context, job *entities.ImportJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.Status == "" {
		job.Status = entities.ImportJobQueued
	}
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repository) Get(ctx context.Context, id string) (*entities.ImportJob, error) {
	var job entities.ImportJob
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if database.IsNotFound(err) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListRecent returns the newest jobs first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]entities.ImportJob, error) {
	if limit <= 0 {
		limit = 20
	}
	var jobs []entities.ImportJob
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *Repository) MarkRunning(ctx context.Context, id string) error {
	now := time.Now()
	return r.update(ctx, id, map[string]any{
		"status":     entities.ImportJobRunning,
		"started_at": &now,
	})
}

func (r *Repository) MarkSucceeded(ctx context.Context, id string, result Result) error {
	now := time.Now()
	return r.update(ctx, id, map[string]any{
		"status":      entities.ImportJobSucceeded,
		"total":       result.Total,
		"imported":    result.Imported,
		"failed":      result.Failed,
		"report":      datatypes.JSON(result.Report),
		"error_msg":   "",
		"finished_at": &now,
	})
}

func (r *Repository) MarkFailed(ctx context.Context, id string, msg string) error {
	if len(msg) > 1000 {
		msg = msg[:1000]
	}
	now := time.Now()
	return r.update(ctx, id, map[string]any{
		"status":      entities.ImportJobFailed,
		"error_msg":   msg,
		"finished_at": &now,
	})
}

// DeleteFinishedBefore removes finished jobs older than the cutoff and
// returns them so staged files left behind can be cleaned up.
func (r *Repository) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) ([]entities.ImportJob, error) {
	var jobs []entities.ImportJob
	err := r.db.WithContext(ctx).
		Where("finished_at IS NOT NULL AND finished_at < ?", cutoff).
		Find(&jobs).Error
	if err != nil || len(jobs) == 0 {
		return nil, err
	}

	ids := make([]string, len(jobs))
	for i, job := range jobs {
		ids[i] = job.ID
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&entities.ImportJob{}).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *Repository) update(ctx context.Context, id string, values map[string]any) error {
	result := r.db.WithContext(ctx).Model(&entities.ImportJob{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrNotFound
	}
	return nil
}
