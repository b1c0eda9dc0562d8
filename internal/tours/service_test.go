package tours

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeTourRepo struct {
	tours   map[uuid.UUID]*models.Tour
	bySlug  map[string]uuid.UUID
	deleted []uuid.UUID
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{tours: map[uuid.UUID]*models.Tour{}, bySlug: map[string]uuid.UUID{}}
}

func (f *fakeTourRepo) InTx(tx *gorm.DB) tourRepository { return f }

func (f *fakeTourRepo) Create(ctx context.Context, tour *models.Tour) error {
	if tour.ID == uuid.Nil {
		tour.ID = uuid.New()
	}
	f.tours[tour.ID] = tour
	f.bySlug[tour.Slug] = tour.ID
	return nil
}

func (f *fakeTourRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error) {
	tour, ok := f.tours[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *tour
	return &clone, nil
}

func (f *fakeTourRepo) FindBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	id, ok := f.bySlug[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return f.FindByID(ctx, id)
}

func (f *fakeTourRepo) Save(ctx context.Context, tour *models.Tour) error {
	if existing, ok := f.tours[tour.ID]; ok {
		delete(f.bySlug, existing.Slug)
		tour.SeasonRates = existing.SeasonRates
		tour.Media = existing.Media
	}
	f.tours[tour.ID] = tour
	f.bySlug[tour.Slug] = tour.ID
	return nil
}

func (f *fakeTourRepo) ReplaceRates(ctx context.Context, tourID uuid.UUID, rates []models.SeasonRate) error {
	if tour, ok := f.tours[tourID]; ok {
		tour.SeasonRates = rates
	}
	return nil
}

func (f *fakeTourRepo) ReplaceMedia(ctx context.Context, tourID uuid.UUID, media []models.TourMedia) error {
	if tour, ok := f.tours[tourID]; ok {
		tour.Media = media
	}
	return nil
}

func (f *fakeTourRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if tour, ok := f.tours[id]; ok {
		delete(f.bySlug, tour.Slug)
		delete(f.tours, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}

func (f *fakeTourRepo) List(ctx context.Context, input ListToursInput) ([]models.Tour, error) {
	rows := make([]models.Tour, 0, len(f.tours))
	for _, tour := range f.tours {
		if input.Active != nil && tour.IsActive != *input.Active {
			continue
		}
		rows = append(rows, *tour)
	}
	return rows, nil
}

type fakeTourTx struct{}

func (fakeTourTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeViewRecorder struct {
	events []enums.AnalyticsEventType
}

func (f *fakeViewRecorder) Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error {
	f.events = append(f.events, event)
	return nil
}

func tourTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "tours-test", Level: zerolog.ErrorLevel})
}

func newTourService(t *testing.T, repo *fakeTourRepo, analytics analyticsRecorder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Tx:        fakeTourTx{},
		Analytics: analytics,
		Logger:    tourTestLogger(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func tourInput() CreateTourInput {
	return CreateTourInput{
		Title:        "Everest Base Camp Trek",
		DurationDays: 14,
		Destinations: []string{"Lukla", "Namche Bazaar", "Gorak Shep"},
		IsActive:     true,
		Rates: []SeasonRateInput{
			{Season: enums.SeasonHigh, Category: "2 Persons", Price: decimal.NewFromInt(1800)},
			{Season: enums.SeasonHigh, Category: "4 Persons", Price: decimal.NewFromInt(1656)},
			{Season: enums.SeasonMid, Category: "2 Persons", Price: decimal.NewFromInt(1500)},
		},
	}
}

func TestTourCreateDerivesSlugAndPositions(t *testing.T) {
	repo := newFakeTourRepo()
	svc := newTourService(t, repo, nil)

	detail, err := svc.Create(context.Background(), tourInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if detail.Slug != "everest-base-camp-trek" {
		t.Fatalf("unexpected slug %q", detail.Slug)
	}
	if len(detail.Rates) != 3 {
		t.Fatalf("expected 3 rate rows, got %d", len(detail.Rates))
	}

	stored := repo.tours[detail.ID]
	// Positions restart per season so each season's list keeps its order.
	if stored.SeasonRates[0].Position != 0 || stored.SeasonRates[1].Position != 1 {
		t.Fatalf("unexpected high-season positions %d/%d", stored.SeasonRates[0].Position, stored.SeasonRates[1].Position)
	}
	if stored.SeasonRates[2].Position != 0 {
		t.Fatalf("expected mid-season position to restart at 0, got %d", stored.SeasonRates[2].Position)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Everest Base Camp Trek", "everest-base-camp-trek"},
		{"  Annapurna -- Circuit!  ", "annapurna-circuit"},
		{"Mardi Himal 2026", "mardi-himal-2026"},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTourGetBySlugRecordsView(t *testing.T) {
	repo := newFakeTourRepo()
	analytics := &fakeViewRecorder{}
	svc := newTourService(t, repo, analytics)

	created, err := svc.Create(context.Background(), tourInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := svc.GetBySlug(context.Background(), created.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if detail.ID != created.ID {
		t.Fatal("expected same tour")
	}
	if len(analytics.events) != 1 || analytics.events[0] != enums.AnalyticsEventTourViewed {
		t.Fatalf("expected tour_viewed event, got %v", analytics.events)
	}

	if _, err := svc.GetBySlug(context.Background(), "missing"); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTourUpdateReplacesRates(t *testing.T) {
	repo := newFakeTourRepo()
	svc := newTourService(t, repo, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, tourInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := tourInput()
	input.Rates = input.Rates[:1]
	updated, err := svc.Update(ctx, created.ID, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Rates) != 1 {
		t.Fatalf("expected replaced rate table, got %d rows", len(updated.Rates))
	}
}

func TestTourDeleteNotFound(t *testing.T) {
	svc := newTourService(t, newFakeTourRepo(), nil)

	if err := svc.Delete(context.Background(), uuid.New()); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
