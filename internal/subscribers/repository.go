package subscribers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// Repository wires subscriber persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the subscriber. The email unique index rejects duplicates.
func (r *Repository) Create(ctx context.Context, subscriber *models.Subscriber) error {
	return r.db.WithContext(ctx).Create(subscriber).Error
}

// FindByEmail loads a subscriber by normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.WithContext(ctx).First(&subscriber, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// FindByID loads a single subscriber.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	var subscriber models.Subscriber
	err := r.db.WithContext(ctx).First(&subscriber, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &subscriber, nil
}

// Delete removes a subscriber.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subscriber{}).Error
}

// List returns one page of subscribers newest first with an extra row to
// detect the next page.
func (r *Repository) List(ctx context.Context, input ListSubscribersInput) ([]models.Subscriber, error) {
	query := r.db.WithContext(ctx).Model(&models.Subscriber{})

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Subscriber
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(input.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
