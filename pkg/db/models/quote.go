package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

// Quote is a client proposal for a tour. Tour details are snapshotted onto
// the quote at creation so later tour edits never change an issued document.
type Quote struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	QuoteNumber string            `gorm:"column:quote_number;not null;uniqueIndex"`
	Status      enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:'draft'"`

	ClientName  string  `gorm:"column:client_name;not null"`
	ClientEmail *string `gorm:"column:client_email"`
	ClientPhone *string `gorm:"column:client_phone"`

	TourID        *uuid.UUID `gorm:"column:tour_id;type:uuid"`
	TourTitle     *string    `gorm:"column:tour_title"`
	Description   *string    `gorm:"column:description"`
	Greeting      *string    `gorm:"column:greeting"`
	StartLocation *string    `gorm:"column:start_location"`
	EndLocation   *string    `gorm:"column:end_location"`
	LogoURL       *string    `gorm:"column:logo_url"`

	StartDate *time.Time `gorm:"column:start_date;type:date"`
	EndDate   *time.Time `gorm:"column:end_date;type:date"`
	TotalDays int        `gorm:"column:total_days;not null;default:0"`
	Adults    int        `gorm:"column:adults;not null;default:1"`
	Children  int        `gorm:"column:children;not null;default:0"`

	AdultPrice *decimal.Decimal `gorm:"column:adult_price;type:numeric(12,2)"`
	ChildPrice *decimal.Decimal `gorm:"column:child_price;type:numeric(12,2)"`
	Currency   string           `gorm:"column:currency;not null;default:'USD'"`

	Inclusions pq.StringArray `gorm:"column:inclusions;type:text[];not null;default:ARRAY[]::text[]"`
	Exclusions pq.StringArray `gorm:"column:exclusions;type:text[];not null;default:ARRAY[]::text[]"`

	Days []QuoteDay `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`

	ExportStatus    *enums.ExportStatus `gorm:"column:export_status;type:export_status"`
	ExportObjectKey *string             `gorm:"column:export_object_key"`
	ExportedAt      *time.Time          `gorm:"column:exported_at"`

	SentAt    *time.Time `gorm:"column:sent_at"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
