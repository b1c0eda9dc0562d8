package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// Repository wires quote persistence to GORM.
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
func (r *Repository) InTx(tx *gorm.DB) quoteRepository {
	return r.WithTx(tx)
}

// NextSequenceValue atomically bumps and returns the per-year quote counter.
func (r *Repository) NextSequenceValue(ctx context.Context, year int) (int, error) {
	var value int
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO quote_sequences (year, last_value) VALUES (?, 1)
		 ON CONFLICT (year) DO UPDATE SET last_value = quote_sequences.last_value + 1
		 RETURNING last_value`,
		year,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Create inserts the quote together with its day rows.
func (r *Repository) Create(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

// FindByID loads a quote with its itinerary days in day order.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	var quote models.Quote
	err := r.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number ASC")
		}).
		First(&quote, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// Save persists the quote header fields.
func (r *Repository) Save(ctx context.Context, quote *models.Quote) error {
	return r.db.WithContext(ctx).Omit("Days").Save(quote).Error
}

// ReplaceDays swaps the quote's itinerary for the provided rows.
func (r *Repository) ReplaceDays(ctx context.Context, quoteID uuid.UUID, days []models.QuoteDay) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("quote_id = ?", quoteID).Delete(&models.QuoteDay{}).Error; err != nil {
		return err
	}
	if len(days) == 0 {
		return nil
	}
	return tx.Create(&days).Error
}

// Delete removes a quote; day rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Quote{}).Error
}

// List returns one page of quotes ordered newest first with an extra row to
// detect the next page.
func (r *Repository) List(ctx context.Context, input ListQuotesInput) ([]models.Quote, error) {
	query := r.db.WithContext(ctx).Model(&models.Quote{})

	if input.Status != nil {
		query = query.Where("status = ?", *input.Status)
	}
	if input.TourID != nil {
		query = query.Where("tour_id = ?", *input.TourID)
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Quote
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus sets the status plus the related timestamps in one write.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus, fields map[string]any) error {
	updates := map[string]any{"status": status}
	for k, v := range fields {
		updates[k] = v
	}
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetExportState records the export lifecycle columns.
func (r *Repository) SetExportState(ctx context.Context, id uuid.UUID, status enums.ExportStatus, objectKey *string, exportedAt *time.Time) error {
	updates := map[string]any{"export_status": status}
	if objectKey != nil {
		updates["export_object_key"] = *objectKey
	}
	if exportedAt != nil {
		updates["exported_at"] = *exportedAt
	}
	return r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ExpireStale flips sent quotes past their expiry to expired and reports how
// many rows changed. Used by the scheduled expiry job.
func (r *Repository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Quote{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", enums.QuoteStatusSent, now).
		Update("status", enums.QuoteStatusExpired)
	return res.RowsAffected, res.Error
}
