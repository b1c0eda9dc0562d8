package accommodations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// Repository wires accommodation persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the accommodation.
func (r *Repository) Create(ctx context.Context, accommodation *models.Accommodation) error {
	return r.db.WithContext(ctx).Create(accommodation).Error
}

// FindByID loads a single accommodation.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Accommodation, error) {
	var accommodation models.Accommodation
	err := r.db.WithContext(ctx).First(&accommodation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &accommodation, nil
}

// Save persists the accommodation fields.
func (r *Repository) Save(ctx context.Context, accommodation *models.Accommodation) error {
	return r.db.WithContext(ctx).Save(accommodation).Error
}

// Delete removes an accommodation.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Accommodation{}).Error
}

// List returns one page of accommodations newest first with an extra row to
// detect the next page. Search matches name and location.
func (r *Repository) List(ctx context.Context, input ListAccommodationsInput) ([]models.Accommodation, error) {
	query := r.db.WithContext(ctx).Model(&models.Accommodation{})

	if input.Search != "" {
		pattern := "%" + input.Search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ?", pattern, pattern)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Accommodation
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
