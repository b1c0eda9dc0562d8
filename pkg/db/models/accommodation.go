package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Accommodation is a reusable lodging entry referenced from itinerary days.
type Accommodation struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	Location  *string        `gorm:"column:location"`
	Category  *string        `gorm:"column:category"`
	Images    pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
