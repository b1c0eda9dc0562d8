package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
)

const maxUploadBytes = 20 * 1024 * 1024

type mediaRepository interface {
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MediaStatus, url *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByKind(ctx context.Context, kind enums.MediaKind, limit int) ([]models.Media, error)
}

type gcsSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, bucket, object string) error
}

// Service exposes media presign and lifecycle semantics.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
	MarkUploaded(ctx context.Context, id uuid.UUID) (*MediaDTO, error)
	SignedRead(ctx context.Context, id uuid.UUID) (string, error)
	List(ctx context.Context, kind enums.MediaKind, limit int) ([]MediaDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      mediaRepository
	gcs       gcsSigner
	bucket    string
	uploadTTL time.Duration
	readTTL   time.Duration
}

// NewService constructs a media service backed by the provided repository and GCS signer.
func NewService(repo mediaRepository, gcs gcsSigner, bucket string, uploadTTL, readTTL time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 || readTTL <= 0 {
		return nil, fmt.Errorf("signing ttls must be positive")
	}
	return &service{
		repo:      repo,
		gcs:       gcs,
		bucket:    bucket,
		uploadTTL: uploadTTL,
		readTTL:   readTTL,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      enums.MediaKind
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the data returned to the client after creating a media record.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	GCSKey       string    `json:"gcs_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MediaDTO is the projection of an uploaded object.
type MediaDTO struct {
	ID        uuid.UUID         `json:"id"`
	Kind      enums.MediaKind   `json:"kind"`
	Status    enums.MediaStatus `json:"status"`
	GCSKey    string            `json:"gcs_key"`
	URL       *string           `json:"url,omitempty"`
	FileName  string            `json:"file_name"`
	MimeType  string            `json:"mime_type"`
	SizeBytes int64             `json:"size_bytes"`
	CreatedAt time.Time         `json:"created_at"`
}

var mimeTypesByKind = map[enums.MediaKind][]string{
	enums.MediaKindTour:          {"image/png", "image/jpeg", "image/webp", "video/mp4", "video/webm"},
	enums.MediaKindAccommodation: {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindDestination:   {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindLogo:          {"image/png", "image/jpeg", "image/svg+xml"},
	enums.MediaKindDocument:      {"application/pdf"},
	// MediaKindOther is intentionally absent to allow any mime type.
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.Kind == "" || !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be ≤ %d bytes", maxUploadBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(input.Kind, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for media kind")
	}

	mediaID := uuid.New()
	gcsKey := buildGCSKey(input.Kind, mediaID, fileName)

	mediaRow := &models.Media{
		ID:        mediaID,
		UserID:    &userID,
		Kind:      input.Kind,
		Status:    enums.MediaStatusPending,
		GCSKey:    gcsKey,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}

	if _, err := s.repo.Create(ctx, mediaRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = s.repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		GCSKey:       gcsKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// MarkUploaded confirms the client finished the PUT and flips the row to
// uploaded.
func (s *service) MarkUploaded(ctx context.Context, id uuid.UUID) (*MediaDTO, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status != enums.MediaStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("media is %s, only pending uploads can be confirmed", row.Status))
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, row.GCSKey)
	if err := s.repo.UpdateStatus(ctx, id, enums.MediaStatusUploaded, &publicURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark media uploaded")
	}

	row.Status = enums.MediaStatusUploaded
	row.URL = &publicURL
	return dtoFromModel(row), nil
}

// SignedRead returns a short-lived download URL for private objects.
func (s *service) SignedRead(ctx context.Context, id uuid.UUID) (string, error) {
	row, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.gcs.SignedReadURL(s.bucket, row.GCSKey, s.readTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign read url")
	}
	return url, nil
}

func (s *service) List(ctx context.Context, kind enums.MediaKind, limit int) ([]MediaDTO, error) {
	if kind != "" && !kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	rows, err := s.repo.ListByKind(ctx, kind, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list media")
	}
	out := make([]MediaDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *dtoFromModel(&rows[i]))
	}
	return out, nil
}

// Delete removes the object from GCS and then the row. A missing object is
// not an error so retries converge.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gcs.DeleteObject(ctx, s.bucket, row.GCSKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media object")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete media row")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load media")
	}
	return row, nil
}

func dtoFromModel(m *models.Media) *MediaDTO {
	return &MediaDTO{
		ID:        m.ID,
		Kind:      m.Kind,
		Status:    m.Status,
		GCSKey:    m.GCSKey,
		URL:       m.URL,
		FileName:  m.FileName,
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		CreatedAt: m.CreatedAt,
	}
}

func isAllowedMime(kind enums.MediaKind, mimeType string) bool {
	if allowed, ok := mimeTypesByKind[kind]; ok && len(allowed) > 0 {
		for _, candidate := range allowed {
			if strings.EqualFold(candidate, mimeType) {
				return true
			}
		}
		return false
	}
	return true
}

func buildGCSKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/%s/%s/%s", kind, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	result := strings.Trim(b.String(), "-_.")
	return result
}
