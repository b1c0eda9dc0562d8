package tours

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// Repository wires tour persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// InTx adapts WithTx to the service-side repository contract.
func (r *Repository) InTx(tx *gorm.DB) tourRepository {
	return r.WithTx(tx)
}

// Create inserts the tour with its rate and media rows.
func (r *Repository) Create(ctx context.Context, tour *models.Tour) error {
	return r.db.WithContext(ctx).Create(tour).Error
}

// FindByID loads a tour with rates and media in capture order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	var tour models.Tour
	err := r.preloaded(ctx).First(&tour, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

// FindBySlug loads an active tour for the public site.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var tour models.Tour
	err := r.preloaded(ctx).First(&tour, "slug = ? AND is_active = true", slug).Error
	if err != nil {
		return nil, err
	}
	return &tour, nil
}

func (r *Repository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("SeasonRates", func(db *gorm.DB) *gorm.DB {
			return db.Order("season ASC, position ASC")
		}).
		Preload("Media", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// Save persists the tour header fields.
func (r *Repository) Save(ctx context.Context, tour *models.Tour) error {
	return r.db.WithContext(ctx).Omit("SeasonRates", "Media").Save(tour).Error
}

// ReplaceRates swaps the tour's seasonal price table.
func (r *Repository) ReplaceRates(ctx context.Context, tourID uuid.UUID, rates []models.SeasonRate) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("tour_id = ?", tourID).Delete(&models.SeasonRate{}).Error; err != nil {
		return err
	}
	if len(rates) == 0 {
		return nil
	}
	return tx.Create(&rates).Error
}

// ReplaceMedia swaps the tour's media attachments.
func (r *Repository) ReplaceMedia(ctx context.Context, tourID uuid.UUID, media []models.TourMedia) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("tour_id = ?", tourID).Delete(&models.TourMedia{}).Error; err != nil {
		return err
	}
	if len(media) == 0 {
		return nil
	}
	return tx.Create(&media).Error
}

// Delete removes a tour; rates and media cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Tour{}).Error
}

// ListActiveIDs returns the IDs of all active tours. Used by the rate
// calendar warm job.
func (r *Repository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Tour{}).
		Where("is_active = true").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// List returns one page of tours ordered newest first with an extra row to
// detect the next page.
func (r *Repository) List(ctx context.Context, input ListToursInput) ([]models.Tour, error) {
	query := r.db.WithContext(ctx).Model(&models.Tour{})

	if input.Active != nil {
		query = query.Where("is_active = ?", *input.Active)
	}
	if input.Featured != nil {
		query = query.Where("is_featured = ?", *input.Featured)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Tour
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
