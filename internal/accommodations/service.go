package accommodations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

type accommodationRepository interface {
	Create(ctx context.Context, accommodation *models.Accommodation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Accommodation, error)
	Save(ctx context.Context, accommodation *models.Accommodation) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListAccommodationsInput) ([]models.Accommodation, error)
}

// CreateAccommodationInput captures a reusable lodging entry.
type CreateAccommodationInput struct {
	Name     string   `json:"name" validate:"required,max=300"`
	Location *string  `json:"location" validate:"omitempty,max=300"`
	Category *string  `json:"category" validate:"omitempty,max=100"`
	Images   []string `json:"images" validate:"omitempty,dive,max=2048"`
}

// UpdateAccommodationInput replaces the editable fields.
type UpdateAccommodationInput = CreateAccommodationInput

// ListAccommodationsInput captures list filters.
type ListAccommodationsInput struct {
	Search     string
	Pagination pagination.Params
}

// AccommodationDTO is the projection of a lodging entry.
type AccommodationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// AccommodationListResult bundles one page with the next cursor.
type AccommodationListResult struct {
	Accommodations []AccommodationDTO `json:"accommodations"`
	NextCursor     string             `json:"next_cursor,omitempty"`
}

// Service exposes accommodation catalog operations.
type Service interface {
	Create(ctx context.Context, input CreateAccommodationInput) (*AccommodationDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*AccommodationDTO, error)
	List(ctx context.Context, input ListAccommodationsInput) (*AccommodationListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAccommodationInput) (*AccommodationDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo accommodationRepository
	logg *logger.Logger
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo   accommodationRepository
	Logger *logger.Logger
}

// NewService builds the accommodation service.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("accommodation repository required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: p.Repo, logg: p.Logger}, nil
}

func (s *service) Create(ctx context.Context, input CreateAccommodationInput) (*AccommodationDTO, error) {
	accommodation := modelFromInput(input)
	if err := s.repo.Create(ctx, accommodation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create accommodation")
	}
	return dtoFromModel(accommodation), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*AccommodationDTO, error) {
	accommodation, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoFromModel(accommodation), nil
}

func (s *service) List(ctx context.Context, input ListAccommodationsInput) (*AccommodationListResult, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list accommodations")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	result := &AccommodationListResult{Accommodations: make([]AccommodationDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Accommodations = append(result.Accommodations, *dtoFromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAccommodationInput) (*AccommodationDTO, error) {
	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := modelFromInput(input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Save(ctx, updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update accommodation")
	}
	return dtoFromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete accommodation")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Accommodation, error) {
	accommodation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "accommodation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load accommodation")
	}
	return accommodation, nil
}

func modelFromInput(input CreateAccommodationInput) *models.Accommodation {
	images := input.Images
	if images == nil {
		images = []string{}
	}
	return &models.Accommodation{
		Name:     input.Name,
		Location: input.Location,
		Category: input.Category,
		Images:   pq.StringArray(images),
	}
}

func dtoFromModel(a *models.Accommodation) *AccommodationDTO {
	return &AccommodationDTO{
		ID:        a.ID,
		Name:      a.Name,
		Location:  a.Location,
		Category:  a.Category,
		Images:    []string(a.Images),
		CreatedAt: a.CreatedAt,
	}
}
