package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// CreateBookingInput is the public booking request form.
type CreateBookingInput struct {
	TourID      *uuid.UUID `json:"tour_id"`
	TourTitle   *string    `json:"tour_title" validate:"omitempty,max=300"`
	ClientName  string     `json:"client_name" validate:"required,max=200"`
	ClientEmail string     `json:"client_email" validate:"required,email,max=320"`
	ClientPhone *string    `json:"client_phone" validate:"omitempty,max=50"`
	Country     *string    `json:"country" validate:"omitempty,max=100"`
	StartDate   *time.Time `json:"start_date"`
	Adults      int        `json:"adults" validate:"required,gte=1,lte=50"`
	Children    int        `json:"children" validate:"gte=0,lte=50"`
	Notes       *string    `json:"notes" validate:"omitempty,max=4000"`
}

// ListBookingsInput captures the admin list filters.
type ListBookingsInput struct {
	Status     *enums.BookingStatus
	TourID     *uuid.UUID
	Pagination pagination.Params
}

// BookingDTO is the full projection of a booking request.
type BookingDTO struct {
	ID          uuid.UUID           `json:"id"`
	Status      enums.BookingStatus `json:"status"`
	TourID      *uuid.UUID          `json:"tour_id,omitempty"`
	TourTitle   *string             `json:"tour_title,omitempty"`
	ClientName  string              `json:"client_name"`
	ClientEmail string              `json:"client_email"`
	ClientPhone *string             `json:"client_phone,omitempty"`
	Country     *string             `json:"country,omitempty"`
	StartDate   *time.Time          `json:"start_date,omitempty"`
	Adults      int                 `json:"adults"`
	Children    int                 `json:"children"`
	Notes       *string             `json:"notes,omitempty"`
	ConfirmedAt *time.Time          `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// BookingListResult bundles a page of bookings with the next cursor.
type BookingListResult struct {
	Bookings   []BookingDTO `json:"bookings"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

func dtoFromModel(b *models.Booking) *BookingDTO {
	return &BookingDTO{
		ID:          b.ID,
		Status:      b.Status,
		TourID:      b.TourID,
		TourTitle:   b.TourTitle,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		ClientPhone: b.ClientPhone,
		Country:     b.Country,
		StartDate:   b.StartDate,
		Adults:      b.Adults,
		Children:    b.Children,
		Notes:       b.Notes,
		ConfirmedAt: b.ConfirmedAt,
		CancelledAt: b.CancelledAt,
		CreatedAt:   b.CreatedAt,
	}
}
