package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

type bookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, fields map[string]any) error
	List(ctx context.Context, input ListBookingsInput) ([]models.Booking, error)
}

type analyticsRecorder interface {
	Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error
}

// Service exposes booking operations.
type Service interface {
	Create(ctx context.Context, input CreateBookingInput) (*BookingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	List(ctx context.Context, input ListBookingsInput) (*BookingListResult, error)
	Confirm(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	Complete(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	Cancel(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
}

type service struct {
	repo      bookingRepository
	analytics analyticsRecorder
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo      bookingRepository
	Analytics analyticsRecorder
	Logger    *logger.Logger
	Now       func() time.Time
}

// NewService builds the booking service.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("booking repository required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := p.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      p.Repo,
		analytics: p.Analytics,
		logg:      p.Logger,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateBookingInput) (*BookingDTO, error) {
	booking := &models.Booking{
		Status:      enums.BookingStatusNew,
		TourID:      input.TourID,
		TourTitle:   input.TourTitle,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		ClientPhone: input.ClientPhone,
		Country:     input.Country,
		StartDate:   input.StartDate,
		Adults:      input.Adults,
		Children:    input.Children,
		Notes:       input.Notes,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
	}

	s.record(ctx, enums.AnalyticsEventBookingCreated, map[string]string{
		"booking_id": booking.ID.String(),
		"tour_id":    uuidString(booking.TourID),
	})

	return dtoFromModel(booking), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	return dtoFromModel(booking), nil
}

func (s *service) List(ctx context.Context, input ListBookingsInput) (*BookingListResult, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	result := &BookingListResult{Bookings: make([]BookingDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Bookings = append(result.Bookings, *dtoFromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != enums.BookingStatusNew {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("only new bookings can be confirmed, booking is %s", booking.Status))
	}

	now := s.now().UTC()
	err = s.repo.UpdateStatus(ctx, id, enums.BookingStatusConfirmed, map[string]any{"confirmed_at": now})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm booking")
	}

	s.record(ctx, enums.AnalyticsEventBookingConfirmed, map[string]string{
		"booking_id": id.String(),
		"tour_id":    uuidString(booking.TourID),
	})

	return s.Get(ctx, id)
}

func (s *service) Complete(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != enums.BookingStatusConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("only confirmed bookings can be completed, booking is %s", booking.Status))
	}

	err = s.repo.UpdateStatus(ctx, id, enums.BookingStatusCompleted, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "complete booking")
	}
	return s.Get(ctx, id)
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != enums.BookingStatusNew && booking.Status != enums.BookingStatusConfirmed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("booking is already %s", booking.Status))
	}

	now := s.now().UTC()
	err = s.repo.UpdateStatus(ctx, id, enums.BookingStatusCancelled, map[string]any{"cancelled_at": now})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel booking")
	}
	return s.Get(ctx, id)
}

func (s *service) findBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load booking")
	}
	return booking, nil
}

func (s *service) record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.Record(ctx, event, properties); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("record %s: %v", event, err))
	}
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
