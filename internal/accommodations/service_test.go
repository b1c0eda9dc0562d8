package accommodations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeAccommodationRepo struct {
	rows map[uuid.UUID]*models.Accommodation
}

func newFakeAccommodationRepo() *fakeAccommodationRepo {
	return &fakeAccommodationRepo{rows: map[uuid.UUID]*models.Accommodation{}}
}

func (f *fakeAccommodationRepo) Create(ctx context.Context, accommodation *models.Accommodation) error {
	if accommodation.ID == uuid.Nil {
		accommodation.ID = uuid.New()
	}
	f.rows[accommodation.ID] = accommodation
	return nil
}

func (f *fakeAccommodationRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Accommodation, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeAccommodationRepo) Save(ctx context.Context, accommodation *models.Accommodation) error {
	f.rows[accommodation.ID] = accommodation
	return nil
}

func (f *fakeAccommodationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeAccommodationRepo) List(ctx context.Context, input ListAccommodationsInput) ([]models.Accommodation, error) {
	rows := make([]models.Accommodation, 0, len(f.rows))
	for _, row := range f.rows {
		rows = append(rows, *row)
	}
	return rows, nil
}

func newAccommodationFixture(t *testing.T) (Service, *fakeAccommodationRepo) {
	t.Helper()
	repo := newFakeAccommodationRepo()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Logger: logger.New(logger.Options{ServiceName: "accommodations-test", Level: zerolog.ErrorLevel}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestAccommodationCreateAndGet(t *testing.T) {
	svc, _ := newAccommodationFixture(t)
	ctx := context.Background()

	location := "Namche Bazaar"
	created, err := svc.Create(ctx, CreateAccommodationInput{
		Name:     "Yeti Mountain Home",
		Location: &location,
		Images:   []string{"media/accommodations/yeti-1.jpg"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Yeti Mountain Home" || *got.Location != "Namche Bazaar" {
		t.Fatalf("unexpected accommodation %+v", got)
	}
	if len(got.Images) != 1 {
		t.Fatalf("expected one image, got %d", len(got.Images))
	}
}

func TestAccommodationCreateDefaultsImages(t *testing.T) {
	svc, repo := newAccommodationFixture(t)

	created, err := svc.Create(context.Background(), CreateAccommodationInput{Name: "Teahouse"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if repo.rows[created.ID].Images == nil {
		t.Fatal("expected empty image slice, not nil")
	}
}

func TestAccommodationUpdateReplacesFields(t *testing.T) {
	svc, _ := newAccommodationFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccommodationInput{Name: "Old Name"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	category := "Lodge"
	updated, err := svc.Update(ctx, created.ID, UpdateAccommodationInput{
		Name:     "New Name",
		Category: &category,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New Name" || *updated.Category != "Lodge" {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if updated.ID != created.ID {
		t.Fatal("update must keep the identity")
	}
}

func TestAccommodationDeleteThenGet(t *testing.T) {
	svc, _ := newAccommodationFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccommodationInput{Name: "Temporary"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
