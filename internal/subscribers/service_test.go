package subscribers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeSubscriberRepo struct {
	byEmail map[string]*models.Subscriber
	byID    map[uuid.UUID]*models.Subscriber
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{
		byEmail: map[string]*models.Subscriber{},
		byID:    map[uuid.UUID]*models.Subscriber{},
	}
}

func (f *fakeSubscriberRepo) Create(ctx context.Context, subscriber *models.Subscriber) error {
	if _, exists := f.byEmail[subscriber.Email]; exists {
		return errors.New(`duplicate key value violates unique constraint "idx_subscribers_email"`)
	}
	if subscriber.ID == uuid.Nil {
		subscriber.ID = uuid.New()
	}
	f.byEmail[subscriber.Email] = subscriber
	f.byID[subscriber.ID] = subscriber
	return nil
}

func (f *fakeSubscriberRepo) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	subscriber, ok := f.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return subscriber, nil
}

func (f *fakeSubscriberRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	subscriber, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return subscriber, nil
}

func (f *fakeSubscriberRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if subscriber, ok := f.byID[id]; ok {
		delete(f.byEmail, subscriber.Email)
		delete(f.byID, id)
	}
	return nil
}

func (f *fakeSubscriberRepo) List(ctx context.Context, input ListSubscribersInput) ([]models.Subscriber, error) {
	rows := make([]models.Subscriber, 0, len(f.byID))
	for _, subscriber := range f.byID {
		rows = append(rows, *subscriber)
	}
	return rows, nil
}

type fakeSubscriberAnalytics struct {
	events []enums.AnalyticsEventType
}

func (f *fakeSubscriberAnalytics) Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error {
	f.events = append(f.events, event)
	return nil
}

func newSubscriberFixture(t *testing.T) (Service, *fakeSubscriberRepo, *fakeSubscriberAnalytics) {
	t.Helper()
	repo := newFakeSubscriberRepo()
	analytics := &fakeSubscriberAnalytics{}
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Analytics: analytics,
		Logger:    logger.New(logger.Options{ServiceName: "subscribers-test", Level: zerolog.ErrorLevel}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, analytics
}

func TestSubscribeNormalizesEmail(t *testing.T) {
	svc, _, analytics := newSubscriberFixture(t)

	dto, err := svc.Subscribe(context.Background(), SubscribeInput{Email: "  Trekker@Example.COM "})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if dto.Email != "trekker@example.com" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
	if len(analytics.events) != 1 || analytics.events[0] != enums.AnalyticsEventSubscriberAdded {
		t.Fatalf("expected subscriber_added event, got %v", analytics.events)
	}
}

func TestSubscribeIsIdempotentOnEmail(t *testing.T) {
	svc, _, analytics := newSubscriberFixture(t)
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, SubscribeInput{Email: "repeat@example.com"})
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	second, err := svc.Subscribe(ctx, SubscribeInput{Email: "REPEAT@example.com"})
	if err != nil {
		t.Fatalf("duplicate subscribe must succeed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("duplicate subscribe must return the existing entry")
	}
	if len(analytics.events) != 1 {
		t.Fatalf("duplicate subscribe must not emit a second event, got %v", analytics.events)
	}
}

func TestRemoveSubscriber(t *testing.T) {
	svc, _, analytics := newSubscriberFixture(t)
	ctx := context.Background()

	created, err := svc.Subscribe(ctx, SubscribeInput{Email: "leaver@example.com"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := svc.Remove(ctx, created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if analytics.events[len(analytics.events)-1] != enums.AnalyticsEventSubscriberRemoved {
		t.Fatalf("expected subscriber_removed event, got %v", analytics.events)
	}

	if err := svc.Remove(ctx, created.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second remove, got %v", err)
	}
}
