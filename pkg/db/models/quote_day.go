package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// QuoteDay is one day of a quote's itinerary. DayNumber is recomputed from
// slice order on write and never trusted from client input.
type QuoteDay struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteID uuid.UUID `gorm:"column:quote_id;type:uuid;not null;index"`

	DayNumber   int     `gorm:"column:day_number;not null"`
	Title       *string `gorm:"column:title"`
	Description *string `gorm:"column:description"`

	Destination       *string        `gorm:"column:destination"`
	DestinationImages pq.StringArray `gorm:"column:destination_images;type:text[];not null;default:ARRAY[]::text[]"`

	AccommodationID     *uuid.UUID     `gorm:"column:accommodation_id;type:uuid"`
	AccommodationName   *string        `gorm:"column:accommodation_name"`
	AccommodationImages pq.StringArray `gorm:"column:accommodation_images;type:text[];not null;default:ARRAY[]::text[]"`

	Meals      pq.StringArray `gorm:"column:meals;type:text[];not null;default:ARRAY[]::text[]"`
	Activities pq.StringArray `gorm:"column:activities;type:text[];not null;default:ARRAY[]::text[]"`

	WalkingTime *string `gorm:"column:walking_time"`
	Distance    *string `gorm:"column:distance"`
	MaxAltitude *string `gorm:"column:max_altitude"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
