package quotes

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// DayInput is one itinerary day as submitted by the back office. Position in
// the slice is the ordering key; any submitted day number is ignored.
type DayInput struct {
	Title               *string    `json:"title" validate:"omitempty,max=200"`
	Description         *string    `json:"description"`
	Destination         *string    `json:"destination" validate:"omitempty,max=200"`
	DestinationImages   []string   `json:"destination_images" validate:"omitempty,dive,max=2048"`
	AccommodationID     *uuid.UUID `json:"accommodation_id"`
	AccommodationName   *string    `json:"accommodation_name" validate:"omitempty,max=200"`
	AccommodationImages []string   `json:"accommodation_images" validate:"omitempty,dive,max=2048"`
	Meals               []string   `json:"meals" validate:"omitempty,dive,max=50"`
	Activities          []string   `json:"activities" validate:"omitempty,dive,max=500"`
	WalkingTime         *string    `json:"walking_time" validate:"omitempty,max=50"`
	Distance            *string    `json:"distance" validate:"omitempty,max=50"`
	MaxAltitude         *string    `json:"max_altitude" validate:"omitempty,max=50"`
}

// CreateQuoteInput captures a new quote draft.
type CreateQuoteInput struct {
	ClientName    string     `json:"client_name" validate:"required,max=200"`
	ClientEmail   *string    `json:"client_email" validate:"omitempty,email"`
	ClientPhone   *string    `json:"client_phone" validate:"omitempty,max=50"`
	TourID        *uuid.UUID `json:"tour_id"`
	TourTitle     *string    `json:"tour_title" validate:"omitempty,max=300"`
	Description   *string    `json:"description"`
	Greeting      *string    `json:"greeting"`
	StartLocation *string    `json:"start_location" validate:"omitempty,max=200"`
	EndLocation   *string    `json:"end_location" validate:"omitempty,max=200"`
	LogoURL       *string    `json:"logo_url" validate:"omitempty,max=2048"`

	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	TotalDays int        `json:"total_days" validate:"gte=0"`

	Adults   int `json:"adults" validate:"gte=0"`
	Children int `json:"children" validate:"gte=0"`

	AdultPrice *decimal.Decimal `json:"adult_price"`
	ChildPrice *decimal.Decimal `json:"child_price"`
	Currency   string           `json:"currency" validate:"omitempty,len=3"`

	Inclusions []string `json:"inclusions" validate:"omitempty,dive,max=500"`
	Exclusions []string `json:"exclusions" validate:"omitempty,dive,max=500"`

	Days []DayInput `json:"days" validate:"omitempty,dive"`
}

// UpdateQuoteInput replaces the editable fields of a draft quote. The day
// list is a full replacement.
type UpdateQuoteInput = CreateQuoteInput

// ListQuotesInput captures the admin list filters.
type ListQuotesInput struct {
	Status     *enums.QuoteStatus
	TourID     *uuid.UUID
	Pagination pagination.Params
}

// QuoteSummaryDTO is the list-view projection.
type QuoteSummaryDTO struct {
	ID          uuid.UUID           `json:"id"`
	QuoteNumber string              `json:"quote_number"`
	Status      enums.QuoteStatus   `json:"status"`
	ClientName  string              `json:"client_name"`
	TourTitle   *string             `json:"tour_title,omitempty"`
	StartDate   *time.Time          `json:"start_date,omitempty"`
	TotalDays   int                 `json:"total_days"`
	Adults      int                 `json:"adults"`
	Children    int                 `json:"children"`
	ExportState *enums.ExportStatus `json:"export_status,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// QuoteListResult bundles a page of quotes with the next cursor.
type QuoteListResult struct {
	Quotes     []QuoteSummaryDTO `json:"quotes"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// QuoteDayDTO is the detail-view projection of one itinerary day.
type QuoteDayDTO struct {
	DayNumber           int        `json:"day_number"`
	Title               *string    `json:"title,omitempty"`
	Description         *string    `json:"description,omitempty"`
	Destination         *string    `json:"destination,omitempty"`
	DestinationImages   []string   `json:"destination_images"`
	AccommodationID     *uuid.UUID `json:"accommodation_id,omitempty"`
	AccommodationName   *string    `json:"accommodation_name,omitempty"`
	AccommodationImages []string   `json:"accommodation_images"`
	Meals               []string   `json:"meals"`
	Activities          []string   `json:"activities"`
	WalkingTime         *string    `json:"walking_time,omitempty"`
	Distance            *string    `json:"distance,omitempty"`
	MaxAltitude         *string    `json:"max_altitude,omitempty"`
}

// QuoteDetailDTO is the full admin-facing projection of a quote.
type QuoteDetailDTO struct {
	QuoteSummaryDTO
	ClientEmail   *string          `json:"client_email,omitempty"`
	ClientPhone   *string          `json:"client_phone,omitempty"`
	TourID        *uuid.UUID       `json:"tour_id,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Greeting      *string          `json:"greeting,omitempty"`
	StartLocation *string          `json:"start_location,omitempty"`
	EndLocation   *string          `json:"end_location,omitempty"`
	LogoURL       *string          `json:"logo_url,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	AdultPrice    *decimal.Decimal `json:"adult_price,omitempty"`
	ChildPrice    *decimal.Decimal `json:"child_price,omitempty"`
	Currency      string           `json:"currency"`
	Inclusions    []string         `json:"inclusions"`
	Exclusions    []string         `json:"exclusions"`
	Days          []QuoteDayDTO    `json:"days"`
	ExportKey     *string          `json:"export_object_key,omitempty"`
	ExportedAt    *time.Time       `json:"exported_at,omitempty"`
	SentAt        *time.Time       `json:"sent_at,omitempty"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
}

func detailFromModel(q *models.Quote) *QuoteDetailDTO {
	detail := &QuoteDetailDTO{
		QuoteSummaryDTO: summaryFromModel(*q),
		ClientEmail:     q.ClientEmail,
		ClientPhone:     q.ClientPhone,
		TourID:          q.TourID,
		Description:     q.Description,
		Greeting:        q.Greeting,
		StartLocation:   q.StartLocation,
		EndLocation:     q.EndLocation,
		LogoURL:         q.LogoURL,
		EndDate:         q.EndDate,
		AdultPrice:      q.AdultPrice,
		ChildPrice:      q.ChildPrice,
		Currency:        q.Currency,
		Inclusions:      q.Inclusions,
		Exclusions:      q.Exclusions,
		Days:            make([]QuoteDayDTO, 0, len(q.Days)),
		ExportKey:       q.ExportObjectKey,
		ExportedAt:      q.ExportedAt,
		SentAt:          q.SentAt,
		ExpiresAt:       q.ExpiresAt,
	}
	for _, day := range q.Days {
		detail.Days = append(detail.Days, QuoteDayDTO{
			DayNumber:           day.DayNumber,
			Title:               day.Title,
			Description:         day.Description,
			Destination:         day.Destination,
			DestinationImages:   day.DestinationImages,
			AccommodationID:     day.AccommodationID,
			AccommodationName:   day.AccommodationName,
			AccommodationImages: day.AccommodationImages,
			Meals:               day.Meals,
			Activities:          day.Activities,
			WalkingTime:         day.WalkingTime,
			Distance:            day.Distance,
			MaxAltitude:         day.MaxAltitude,
		})
	}
	return detail
}

// ExportResult reports where the page-descriptor document was stored.
type ExportResult struct {
	QuoteID     uuid.UUID          `json:"quote_id"`
	QuoteNumber string             `json:"quote_number"`
	ObjectKey   string             `json:"object_key"`
	Status      enums.ExportStatus `json:"status"`
	PageCount   int                `json:"page_count"`
}

// ExportRequestedEvent is published when an export document is staged.
type ExportRequestedEvent struct {
	QuoteID     uuid.UUID `json:"quote_id"`
	QuoteNumber string    `json:"quote_number"`
	ObjectKey   string    `json:"object_key"`
	RequestedAt time.Time `json:"requested_at"`
}

func summaryFromModel(q models.Quote) QuoteSummaryDTO {
	return QuoteSummaryDTO{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		Status:      q.Status,
		ClientName:  q.ClientName,
		TourTitle:   q.TourTitle,
		StartDate:   q.StartDate,
		TotalDays:   q.TotalDays,
		Adults:      q.Adults,
		Children:    q.Children,
		ExportState: q.ExportStatus,
		CreatedAt:   q.CreatedAt,
	}
}
