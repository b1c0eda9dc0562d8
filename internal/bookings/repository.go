package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// Repository wires booking persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the booking request.
func (r *Repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID loads a single booking.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatus transitions a booking and stamps the transition timestamp.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, fields map[string]any) error {
	updates := map[string]any{"status": status, "updated_at": time.Now().UTC()}
	for k, v := range fields {
		updates[k] = v
	}
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// List returns one page of bookings newest first with an extra row to detect
// the next page.
func (r *Repository) List(ctx context.Context, input ListBookingsInput) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})

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
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Booking
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
