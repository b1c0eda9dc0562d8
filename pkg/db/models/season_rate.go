package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

// SeasonRate is one priced cost category inside a tour's seasonal price
// table. Position preserves the order entries were captured in; the
// resolver's category fallback depends on it.
type SeasonRate struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TourID    uuid.UUID       `gorm:"column:tour_id;type:uuid;not null;index"`
	Season    enums.Season    `gorm:"column:season;type:season;not null"`
	Category  string          `gorm:"column:category;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Position  int             `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
