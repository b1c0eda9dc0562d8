package tours

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

// SeasonRateInput is one price-table row. Slice order within a season is
// preserved as the entry position.
type SeasonRateInput struct {
	Season   enums.Season    `json:"season" validate:"required"`
	Category string          `json:"category" validate:"required,max=100"`
	Price    decimal.Decimal `json:"price" validate:"required"`
}

// TourMediaInput attaches an uploaded media object to the tour.
type TourMediaInput struct {
	GCSKey  string     `json:"gcs_key" validate:"required,max=1024"`
	URL     *string    `json:"url" validate:"omitempty,max=2048"`
	MediaID *uuid.UUID `json:"media_id"`
}

// CreateTourInput captures a new tour package. Slug is derived from the
// title when omitted.
type CreateTourInput struct {
	Title        string            `json:"title" validate:"required,max=300"`
	Slug         string            `json:"slug" validate:"omitempty,max=300"`
	Summary      *string           `json:"summary" validate:"omitempty,max=1000"`
	Description  *string           `json:"description"`
	DurationDays int               `json:"duration_days" validate:"required,gte=1"`
	Destinations []string          `json:"destinations" validate:"omitempty,dive,max=200"`
	Inclusions   []string          `json:"inclusions" validate:"omitempty,dive,max=500"`
	Exclusions   []string          `json:"exclusions" validate:"omitempty,dive,max=500"`
	IsActive     bool              `json:"is_active"`
	IsFeatured   bool              `json:"is_featured"`
	Rates        []SeasonRateInput `json:"rates" validate:"omitempty,dive"`
	Media        []TourMediaInput  `json:"media" validate:"omitempty,dive"`
}

// UpdateTourInput replaces the editable fields of a tour.
type UpdateTourInput = CreateTourInput

// ListToursInput captures the list filters.
type ListToursInput struct {
	Active     *bool
	Featured   *bool
	Pagination pagination.Params
}

// TourSummaryDTO is the list-view projection.
type TourSummaryDTO struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Summary      *string   `json:"summary,omitempty"`
	DurationDays int       `json:"duration_days"`
	Destinations []string  `json:"destinations"`
	IsActive     bool      `json:"is_active"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

// SeasonRateDTO is one priced category row in the detail view.
type SeasonRateDTO struct {
	Season   enums.Season    `json:"season"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// TourMediaDTO is one attached media object in the detail view.
type TourMediaDTO struct {
	GCSKey   string     `json:"gcs_key"`
	URL      *string    `json:"url,omitempty"`
	MediaID  *uuid.UUID `json:"media_id,omitempty"`
	Position int        `json:"position"`
}

// TourDetailDTO is the full projection of a tour package.
type TourDetailDTO struct {
	TourSummaryDTO
	Description *string         `json:"description,omitempty"`
	Inclusions  []string        `json:"inclusions"`
	Exclusions  []string        `json:"exclusions"`
	Rates       []SeasonRateDTO `json:"rates"`
	Media       []TourMediaDTO  `json:"media"`
}

// TourListResult bundles a page of tours with the next cursor.
type TourListResult struct {
	Tours      []TourSummaryDTO `json:"tours"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

func summaryFromModel(t models.Tour) TourSummaryDTO {
	return TourSummaryDTO{
		ID:           t.ID,
		Title:        t.Title,
		Slug:         t.Slug,
		Summary:      t.Summary,
		DurationDays: t.DurationDays,
		Destinations: []string(t.Destinations),
		IsActive:     t.IsActive,
		IsFeatured:   t.IsFeatured,
		CreatedAt:    t.CreatedAt,
	}
}

func detailFromModel(t *models.Tour) *TourDetailDTO {
	detail := &TourDetailDTO{
		TourSummaryDTO: summaryFromModel(*t),
		Description:    t.Description,
		Inclusions:     []string(t.Inclusions),
		Exclusions:     []string(t.Exclusions),
		Rates:          make([]SeasonRateDTO, 0, len(t.SeasonRates)),
		Media:          make([]TourMediaDTO, 0, len(t.Media)),
	}
	for _, rate := range t.SeasonRates {
		detail.Rates = append(detail.Rates, SeasonRateDTO{
			Season:   rate.Season,
			Category: rate.Category,
			Price:    rate.Price,
		})
	}
	for _, media := range t.Media {
		detail.Media = append(detail.Media, TourMediaDTO{
			GCSKey:   media.GCSKey,
			URL:      media.URL,
			MediaID:  media.MediaID,
			Position: media.Position,
		})
	}
	return detail
}
