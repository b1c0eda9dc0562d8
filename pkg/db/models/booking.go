package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

// Booking is a booking request submitted from the public site.
type Booking struct {
	ID     uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status enums.BookingStatus `gorm:"column:status;type:booking_status;not null;default:'new'"`

	TourID    *uuid.UUID `gorm:"column:tour_id;type:uuid"`
	TourTitle *string    `gorm:"column:tour_title"`

	ClientName  string  `gorm:"column:client_name;not null"`
	ClientEmail string  `gorm:"column:client_email;not null"`
	ClientPhone *string `gorm:"column:client_phone"`
	Country     *string `gorm:"column:country"`

	StartDate *time.Time `gorm:"column:start_date;type:date"`
	Adults    int        `gorm:"column:adults;not null;default:1"`
	Children  int        `gorm:"column:children;not null;default:0"`
	Notes     *string    `gorm:"column:notes"`

	ConfirmedAt *time.Time `gorm:"column:confirmed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
