package models

import (
	"time"

	"github.com/google/uuid"
)

// TourMedia stores ordered media entries for tours.
type TourMedia struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TourID    uuid.UUID  `gorm:"column:tour_id;type:uuid;not null"`
	URL       *string    `gorm:"column:url"`
	GCSKey    string     `gorm:"column:gcs_key;not null"`
	MediaID   *uuid.UUID `gorm:"column:media_id;type:uuid"`
	Position  int        `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
