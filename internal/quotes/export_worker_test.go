package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeExportRepo struct {
	quotes map[uuid.UUID]*models.Quote
	states []enums.ExportStatus
	key    *string
	at     *time.Time
}

func newFakeExportRepo() *fakeExportRepo {
	return &fakeExportRepo{quotes: make(map[uuid.UUID]*models.Quote)}
}

func (f *fakeExportRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Quote, error) {
	if quote, ok := f.quotes[id]; ok {
		clone := *quote
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExportRepo) SetExportState(_ context.Context, _ uuid.UUID, status enums.ExportStatus, objectKey *string, exportedAt *time.Time) error {
	f.states = append(f.states, status)
	if objectKey != nil {
		f.key = objectKey
	}
	if exportedAt != nil {
		f.at = exportedAt
	}
	return nil
}

type fakeArtifactStore struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{objects: make(map[string][]byte), types: make(map[string]string)}
}

func (f *fakeArtifactStore) UploadObject(_ context.Context, bucket, object, contentType string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	key := bucket + "/" + object
	f.objects[key] = payload
	f.types[key] = contentType
	return nil
}

func exportableQuote() *models.Quote {
	title := "Everest Base Camp Trek"
	start := time.Date(2026, time.October, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	return &models.Quote{
		ID:          uuid.New(),
		QuoteNumber: "ATQ-2026-0042",
		Status:      enums.QuoteStatusSent,
		ClientName:  "Jordan Field",
		TourTitle:   &title,
		StartDate:   &start,
		EndDate:     &end,
		TotalDays:   3,
		Adults:      2,
		Currency:    "USD",
		Days: []models.QuoteDay{
			{DayNumber: 1, Title: strPtr("Arrival in Kathmandu")},
			{DayNumber: 2, Title: strPtr("Fly to Lukla")},
			{DayNumber: 3, Title: strPtr("Trek to Phakding")},
		},
	}
}

func newExportWorkerFixture(t *testing.T, repo *fakeExportRepo, store *fakeArtifactStore) *ExportWorker {
	t.Helper()
	worker, err := NewExportWorker(ExportWorkerParams{
		Repo:    repo,
		Builder: document.NewBuilder("https://atlastrek.com", "AtlasTrek"),
		Storage: store,
		Bucket:  "exports-bucket",
		Logger:  logger.New(logger.Options{ServiceName: "export-worker-test", Level: zerolog.ErrorLevel}),
		Now: func() time.Time {
			return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
		},
	})
	if err != nil {
		t.Fatalf("new export worker: %v", err)
	}
	return worker
}

func TestExportWorkerRendersArtifact(t *testing.T) {
	repo := newFakeExportRepo()
	store := newFakeArtifactStore()
	quote := exportableQuote()
	repo.quotes[quote.ID] = quote
	worker := newExportWorkerFixture(t, repo, store)

	event, _ := json.Marshal(ExportRequestedEvent{QuoteID: quote.ID, QuoteNumber: quote.QuoteNumber})
	ack, err := worker.HandleMessage(context.Background(), event)
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if !ack {
		t.Fatal("expected ack")
	}

	wantStates := []enums.ExportStatus{enums.ExportStatusRendering, enums.ExportStatusComplete}
	if len(repo.states) != len(wantStates) {
		t.Fatalf("expected states %v got %v", wantStates, repo.states)
	}
	for i, want := range wantStates {
		if repo.states[i] != want {
			t.Fatalf("state %d: expected %s got %s", i, want, repo.states[i])
		}
	}
	if repo.key == nil || !strings.HasPrefix(*repo.key, fmt.Sprintf("exports/quotes/%s/", quote.ID)) {
		t.Fatalf("unexpected object key %v", repo.key)
	}
	if repo.at == nil {
		t.Fatal("expected exported_at to be recorded")
	}

	stored := store.objects["exports-bucket/"+*repo.key]
	if len(stored) == 0 {
		t.Fatal("expected artifact uploaded")
	}
	body := string(stored)
	if !strings.Contains(body, "ATQ-2026-0042") {
		t.Fatal("expected quote number in artifact")
	}
	if !strings.Contains(body, "Everest Base Camp Trek") {
		t.Fatal("expected tour title in artifact")
	}
	if got := strings.Count(body, "<section"); got != 8 {
		t.Fatalf("expected 8 page sections got %d", got)
	}
	if store.types["exports-bucket/"+*repo.key] != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %s", store.types["exports-bucket/"+*repo.key])
	}
}

func TestExportWorkerDropsMalformedEvents(t *testing.T) {
	repo := newFakeExportRepo()
	store := newFakeArtifactStore()
	worker := newExportWorkerFixture(t, repo, store)

	ack, err := worker.HandleMessage(context.Background(), []byte("not json"))
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if !ack {
		t.Fatal("expected malformed event to be acked")
	}
	if len(repo.states) != 0 {
		t.Fatalf("expected no state changes got %v", repo.states)
	}
}

func TestExportWorkerDropsDeletedQuotes(t *testing.T) {
	repo := newFakeExportRepo()
	store := newFakeArtifactStore()
	worker := newExportWorkerFixture(t, repo, store)

	event, _ := json.Marshal(ExportRequestedEvent{QuoteID: uuid.New(), QuoteNumber: "ATQ-2026-0001"})
	ack, err := worker.HandleMessage(context.Background(), event)
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if !ack {
		t.Fatal("expected event for missing quote to be acked")
	}
}

func TestExportWorkerMarksFailureOnUploadError(t *testing.T) {
	repo := newFakeExportRepo()
	store := newFakeArtifactStore()
	store.err = fmt.Errorf("gcs unavailable")
	quote := exportableQuote()
	repo.quotes[quote.ID] = quote
	worker := newExportWorkerFixture(t, repo, store)

	event, _ := json.Marshal(ExportRequestedEvent{QuoteID: quote.ID, QuoteNumber: quote.QuoteNumber})
	ack, err := worker.HandleMessage(context.Background(), event)
	if err == nil {
		t.Fatal("expected upload error to propagate")
	}
	if ack {
		t.Fatal("expected nack for transient upload failure")
	}
	last := repo.states[len(repo.states)-1]
	if last != enums.ExportStatusFailed {
		t.Fatalf("expected failed state got %s", last)
	}
}
