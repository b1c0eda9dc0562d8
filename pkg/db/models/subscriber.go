package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is a marketing mailing-list entry captured on the public site.
type Subscriber struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Source    *string   `gorm:"column:source"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
