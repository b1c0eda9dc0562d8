package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeBookingRepo struct {
	bookings map[uuid.UUID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*models.Booking{}}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *booking
	return &clone, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus, fields map[string]any) error {
	booking, ok := f.bookings[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	booking.Status = status
	if ts, ok := fields["confirmed_at"].(time.Time); ok {
		booking.ConfirmedAt = &ts
	}
	if ts, ok := fields["cancelled_at"].(time.Time); ok {
		booking.CancelledAt = &ts
	}
	return nil
}

func (f *fakeBookingRepo) List(ctx context.Context, input ListBookingsInput) ([]models.Booking, error) {
	rows := make([]models.Booking, 0, len(f.bookings))
	for _, booking := range f.bookings {
		if input.Status != nil && booking.Status != *input.Status {
			continue
		}
		rows = append(rows, *booking)
	}
	return rows, nil
}

type fakeBookingAnalytics struct {
	events []enums.AnalyticsEventType
}

func (f *fakeBookingAnalytics) Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error {
	f.events = append(f.events, event)
	return nil
}

func newBookingFixture(t *testing.T) (Service, *fakeBookingRepo, *fakeBookingAnalytics) {
	t.Helper()
	repo := newFakeBookingRepo()
	analytics := &fakeBookingAnalytics{}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Analytics: analytics,
		Logger:    logger.New(logger.Options{ServiceName: "bookings-test", Level: zerolog.ErrorLevel}),
		Now: func() time.Time {
			return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, analytics
}

func bookingInput() CreateBookingInput {
	tourID := uuid.New()
	return CreateBookingInput{
		TourID:      &tourID,
		ClientName:  "Ravi Sharma",
		ClientEmail: "ravi@example.com",
		Adults:      2,
		Children:    1,
	}
}

func TestBookingCreateStartsNew(t *testing.T) {
	svc, _, analytics := newBookingFixture(t)

	dto, err := svc.Create(context.Background(), bookingInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Status != enums.BookingStatusNew {
		t.Fatalf("expected new status, got %s", dto.Status)
	}
	if len(analytics.events) != 1 || analytics.events[0] != enums.AnalyticsEventBookingCreated {
		t.Fatalf("expected booking_created event, got %v", analytics.events)
	}
}

func TestBookingConfirmTransition(t *testing.T) {
	svc, _, analytics := newBookingFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, bookingInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	confirmed, err := svc.Confirm(ctx, created.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != enums.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", confirmed.Status)
	}
	if confirmed.ConfirmedAt == nil {
		t.Fatal("expected confirmed_at stamped")
	}
	if len(analytics.events) != 2 || analytics.events[1] != enums.AnalyticsEventBookingConfirmed {
		t.Fatalf("expected booking_confirmed event, got %v", analytics.events)
	}

	if _, err := svc.Confirm(ctx, created.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on double confirm, got %v", err)
	}
}

func TestBookingCompleteRequiresConfirmed(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, bookingInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Complete(ctx, created.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict completing a new booking, got %v", err)
	}

	if _, err := svc.Confirm(ctx, created.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	completed, err := svc.Complete(ctx, created.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != enums.BookingStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
}

func TestBookingCancelFromNewOrConfirmed(t *testing.T) {
	svc, _, _ := newBookingFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, bookingInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, created.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.BookingStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatal("expected cancelled_at stamped")
	}

	if _, err := svc.Cancel(ctx, created.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict cancelling twice, got %v", err)
	}
}

func TestBookingGetNotFound(t *testing.T) {
	svc, _, _ := newBookingFixture(t)

	if _, err := svc.Get(context.Background(), uuid.New()); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
