package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Tour represents a published tour package.
type Tour struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string         `gorm:"column:title;not null"`
	Slug         string         `gorm:"column:slug;not null;uniqueIndex"`
	Summary      *string        `gorm:"column:summary"`
	Description  *string        `gorm:"column:description"`
	DurationDays int            `gorm:"column:duration_days;not null;default:1"`
	Destinations pq.StringArray `gorm:"column:destinations;type:text[];not null;default:ARRAY[]::text[]"`
	Inclusions   pq.StringArray `gorm:"column:inclusions;type:text[];not null;default:ARRAY[]::text[]"`
	Exclusions   pq.StringArray `gorm:"column:exclusions;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured   bool           `gorm:"column:is_featured;not null;default:false"`
	SeasonRates  []SeasonRate   `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
	Media        []TourMedia    `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
