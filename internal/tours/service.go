package tours

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db"
	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

type tourRepository interface {
	InTx(tx *gorm.DB) tourRepository
	Create(ctx context.Context, tour *models.Tour) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
	FindBySlug(ctx context.Context, slug string) (*models.Tour, error)
	Save(ctx context.Context, tour *models.Tour) error
	ReplaceRates(ctx context.Context, tourID uuid.UUID, rates []models.SeasonRate) error
	ReplaceMedia(ctx context.Context, tourID uuid.UUID, media []models.TourMedia) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListToursInput) ([]models.Tour, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type analyticsRecorder interface {
	Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error
}

// Service exposes tour package operations.
type Service interface {
	Create(ctx context.Context, input CreateTourInput) (*TourDetailDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*TourDetailDTO, error)
	GetBySlug(ctx context.Context, slug string) (*TourDetailDTO, error)
	List(ctx context.Context, input ListToursInput) (*TourListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTourInput) (*TourDetailDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      tourRepository
	tx        txRunner
	rates     *RateCache
	analytics analyticsRecorder
	logg      *logger.Logger
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo      tourRepository
	Tx        txRunner
	Rates     *RateCache
	Analytics analyticsRecorder
	Logger    *logger.Logger
}

// NewService builds the tour service.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("tour repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      p.Repo,
		tx:        p.Tx,
		rates:     p.Rates,
		analytics: p.Analytics,
		logg:      p.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateTourInput) (*TourDetailDTO, error) {
	tour := modelFromInput(input)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.InTx(tx).Create(ctx, tour); err != nil {
			if db.IsUniqueViolation(err, "idx_tours_slug") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a tour with this slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tour")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, tour.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*TourDetailDTO, error) {
	tour, err := s.findTour(ctx, id)
	if err != nil {
		return nil, err
	}
	return detailFromModel(tour), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*TourDetailDTO, error) {
	tour, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tour")
	}

	if s.analytics != nil {
		err := s.analytics.Record(ctx, enums.AnalyticsEventTourViewed, map[string]string{
			"tour_id": tour.ID.String(),
			"slug":    tour.Slug,
		})
		if err != nil {
			s.logg.Warn(ctx, fmt.Sprintf("record tour view: %v", err))
		}
	}

	return detailFromModel(tour), nil
}

func (s *service) List(ctx context.Context, input ListToursInput) (*TourListResult, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tours")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	result := &TourListResult{Tours: make([]TourSummaryDTO, 0, len(rows))}
	for i, row := range rows {
		if i == limit {
			last := rows[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Tours = append(result.Tours, summaryFromModel(row))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateTourInput) (*TourDetailDTO, error) {
	existing, err := s.findTour(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := modelFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	rates := updated.SeasonRates
	media := updated.Media
	updated.SeasonRates = nil
	updated.Media = nil

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.InTx(tx)
		if err := repo.Save(ctx, updated); err != nil {
			if db.IsUniqueViolation(err, "idx_tours_slug") {
				return pkgerrors.New(pkgerrors.CodeConflict, "a tour with this slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update tour")
		}
		for i := range rates {
			rates[i].TourID = existing.ID
		}
		if err := repo.ReplaceRates(ctx, existing.ID, rates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace season rates")
		}
		for i := range media {
			media[i].TourID = existing.ID
		}
		if err := repo.ReplaceMedia(ctx, existing.ID, media); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace tour media")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The price table changed; the cached calendar is stale.
	if s.rates != nil {
		s.rates.Invalidate(ctx, existing.ID)
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findTour(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete tour")
	}
	if s.rates != nil {
		s.rates.Invalidate(ctx, id)
	}
	return nil
}

func (s *service) findTour(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	tour, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tour")
	}
	return tour, nil
}

func modelFromInput(input CreateTourInput) *models.Tour {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(input.Title)
	}

	tour := &models.Tour{
		Title:        input.Title,
		Slug:         slug,
		Summary:      input.Summary,
		Description:  input.Description,
		DurationDays: input.DurationDays,
		Destinations: pq.StringArray(emptyIfNil(input.Destinations)),
		Inclusions:   pq.StringArray(emptyIfNil(input.Inclusions)),
		Exclusions:   pq.StringArray(emptyIfNil(input.Exclusions)),
		IsActive:     input.IsActive,
		IsFeatured:   input.IsFeatured,
	}

	// Position is assigned per season so each season's cost list keeps its
	// submitted order.
	positions := map[enums.Season]int{}
	for _, rate := range input.Rates {
		tour.SeasonRates = append(tour.SeasonRates, models.SeasonRate{
			Season:   rate.Season,
			Category: rate.Category,
			Price:    rate.Price,
			Position: positions[rate.Season],
		})
		positions[rate.Season]++
	}

	for i, media := range input.Media {
		tour.Media = append(tour.Media, models.TourMedia{
			GCSKey:   media.GCSKey,
			URL:      media.URL,
			MediaID:  media.MediaID,
			Position: i,
		})
	}
	return tour
}

// Slugify lowercases the title and collapses non-alphanumeric runs into
// single hyphens.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
