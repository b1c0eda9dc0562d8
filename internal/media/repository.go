package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
)

const defaultListLimit = 50

// Repository wires media persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the media row.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindByID loads a single media row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

// UpdateStatus transitions the row's lifecycle state.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MediaStatus, url *string) error {
	updates := map[string]any{"status": status, "updated_at": time.Now().UTC()}
	if url != nil {
		updates["url"] = *url
	}
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the media row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{}).Error
}

// ListByKind returns recent media rows, optionally filtered by kind.
func (r *Repository) ListByKind(ctx context.Context, kind enums.MediaKind, limit int) ([]models.Media, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}
	query := r.db.WithContext(ctx).Model(&models.Media{})
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	var rows []models.Media
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
