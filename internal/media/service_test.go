package media

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
)

type fakeMediaRepo struct {
	rows map[uuid.UUID]*models.Media
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{rows: map[uuid.UUID]*models.Media{}}
}

func (f *fakeMediaRepo) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	f.rows[media.ID] = media
	return media, nil
}

func (f *fakeMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *row
	return &clone, nil
}

func (f *fakeMediaRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MediaStatus, url *string) error {
	row, ok := f.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	row.Status = status
	if url != nil {
		row.URL = url
	}
	return nil
}

func (f *fakeMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeMediaRepo) ListByKind(ctx context.Context, kind enums.MediaKind, limit int) ([]models.Media, error) {
	rows := make([]models.Media, 0, len(f.rows))
	for _, row := range f.rows {
		if kind != "" && row.Kind != kind {
			continue
		}
		rows = append(rows, *row)
	}
	return rows, nil
}

type fakeSigner struct {
	deleted []string
	signErr error
}

func (f *fakeSigner) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return fmt.Sprintf("https://signed.example.com/%s/%s", bucket, object), nil
}

func (f *fakeSigner) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://read.example.com/%s/%s", bucket, object), nil
}

func (f *fakeSigner) DeleteObject(ctx context.Context, bucket, object string) error {
	f.deleted = append(f.deleted, object)
	return nil
}

func newMediaFixture(t *testing.T) (Service, *fakeMediaRepo, *fakeSigner) {
	t.Helper()
	repo := newFakeMediaRepo()
	signer := &fakeSigner{}
	svc, err := NewService(repo, signer, "atlastrek-media", 15*time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, signer
}

func presignInput() PresignInput {
	return PresignInput{
		Kind:      enums.MediaKindTour,
		MimeType:  "image/jpeg",
		FileName:  "annapurna sunrise.jpg",
		SizeBytes: 1024,
	}
}

func TestPresignUploadHappyPath(t *testing.T) {
	svc, repo, _ := newMediaFixture(t)

	out, err := svc.PresignUpload(context.Background(), uuid.New(), presignInput())
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	if !strings.HasPrefix(out.GCSKey, "media/tour/") {
		t.Fatalf("unexpected key %q", out.GCSKey)
	}
	if !strings.HasSuffix(out.GCSKey, "annapurna-sunrise.jpg") {
		t.Fatalf("expected sanitized file name in key, got %q", out.GCSKey)
	}
	if out.SignedPUTURL == "" || out.ContentType != "image/jpeg" {
		t.Fatalf("unexpected output %+v", out)
	}

	row := repo.rows[out.MediaID]
	if row == nil || row.Status != enums.MediaStatusPending {
		t.Fatalf("expected pending media row, got %+v", row)
	}
}

func TestPresignUploadValidation(t *testing.T) {
	svc, _, _ := newMediaFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	cases := []struct {
		name  string
		input PresignInput
	}{
		{"bad kind", PresignInput{Kind: "poster", MimeType: "image/png", FileName: "a.png", SizeBytes: 1}},
		{"missing file name", PresignInput{Kind: enums.MediaKindTour, MimeType: "image/png", SizeBytes: 1}},
		{"zero size", PresignInput{Kind: enums.MediaKindTour, MimeType: "image/png", FileName: "a.png"}},
		{"oversized", PresignInput{Kind: enums.MediaKindTour, MimeType: "image/png", FileName: "a.png", SizeBytes: maxUploadBytes + 1}},
		{"wrong mime for kind", PresignInput{Kind: enums.MediaKindDocument, MimeType: "image/png", FileName: "a.png", SizeBytes: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.PresignUpload(ctx, userID, tc.input); pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestPresignUploadRollsBackOnSignFailure(t *testing.T) {
	svc, repo, signer := newMediaFixture(t)
	signer.signErr = fmt.Errorf("signer unavailable")

	_, err := svc.PresignUpload(context.Background(), uuid.New(), presignInput())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.rows) != 0 {
		t.Fatal("expected media row removed after sign failure")
	}
}

func TestMarkUploadedTransition(t *testing.T) {
	svc, _, _ := newMediaFixture(t)
	ctx := context.Background()

	out, err := svc.PresignUpload(ctx, uuid.New(), presignInput())
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	dto, err := svc.MarkUploaded(ctx, out.MediaID)
	if err != nil {
		t.Fatalf("mark uploaded: %v", err)
	}
	if dto.Status != enums.MediaStatusUploaded || dto.URL == nil {
		t.Fatalf("unexpected dto %+v", dto)
	}

	if _, err := svc.MarkUploaded(ctx, out.MediaID); pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on double confirm, got %v", err)
	}
}

func TestDeleteRemovesObjectAndRow(t *testing.T) {
	svc, repo, signer := newMediaFixture(t)
	ctx := context.Background()

	out, err := svc.PresignUpload(ctx, uuid.New(), presignInput())
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	if err := svc.Delete(ctx, out.MediaID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(signer.deleted) != 1 || signer.deleted[0] != out.GCSKey {
		t.Fatalf("expected object deleted, got %v", signer.deleted)
	}
	if len(repo.rows) != 0 {
		t.Fatal("expected row deleted")
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain.jpg", "plain.jpg"},
		{"with space.png", "with-space.png"},
		{"../../etc/passwd", "passwd"},
		{"  trimmed.pdf  ", "trimmed.pdf"},
	}
	for _, tc := range cases {
		if got := sanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
