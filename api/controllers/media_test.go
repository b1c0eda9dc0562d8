package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/api/middleware"
	"github.com/atlastrek/tour-backend/internal/media"
	"github.com/atlastrek/tour-backend/pkg/enums"
)

type testMediaService struct {
	presignFn func(ctx context.Context, userID uuid.UUID, input media.PresignInput) (*media.PresignOutput, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (s *testMediaService) PresignUpload(ctx context.Context, userID uuid.UUID, input media.PresignInput) (*media.PresignOutput, error) {
	if s.presignFn != nil {
		return s.presignFn(ctx, userID, input)
	}
	return nil, nil
}

func (s *testMediaService) MarkUploaded(ctx context.Context, id uuid.UUID) (*media.MediaDTO, error) {
	return nil, nil
}

func (s *testMediaService) SignedRead(ctx context.Context, id uuid.UUID) (string, error) {
	return "", nil
}

func (s *testMediaService) List(ctx context.Context, kind enums.MediaKind, limit int) ([]media.MediaDTO, error) {
	return nil, nil
}

func (s *testMediaService) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func TestMediaPresignRequiresUserContext(t *testing.T) {
	body := `{"media_kind":"tour","mime_type":"image/jpeg","file_name":"summit.jpg","size_bytes":1024}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/media/presign", strings.NewReader(body))
	resp := httptest.NewRecorder()
	MediaPresign(&testMediaService{}, discardLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestMediaPresignSuccess(t *testing.T) {
	userID := uuid.New()
	mediaID := uuid.New()
	svc := &testMediaService{
		presignFn: func(ctx context.Context, uid uuid.UUID, input media.PresignInput) (*media.PresignOutput, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if input.Kind != enums.MediaKindTour {
				t.Fatalf("unexpected kind %s", input.Kind)
			}
			return &media.PresignOutput{MediaID: mediaID, SignedPUTURL: "https://signed.example/put"}, nil
		},
	}

	body := `{"media_kind":"tour","mime_type":"image/jpeg","file_name":"summit.jpg","size_bytes":1024}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/media/presign", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	MediaPresign(svc, discardLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data media.PresignOutput `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.MediaID != mediaID {
		t.Fatalf("unexpected media id %s", envelope.Data.MediaID)
	}
}

func TestMediaPresignRejectsUnknownKind(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/media/presign",
		strings.NewReader(`{"media_kind":"billboard","mime_type":"image/jpeg","file_name":"x.jpg","size_bytes":10}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	MediaPresign(&testMediaService{}, discardLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestMediaDeleteParsesID(t *testing.T) {
	mediaID := uuid.New()
	called := false
	svc := &testMediaService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			called = true
			if id != mediaID {
				t.Fatalf("unexpected id %s", id)
			}
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/v1/media/"+mediaID.String(), nil)
	req = addRouteParam(req, "mediaId", mediaID.String())
	resp := httptest.NewRecorder()
	MediaDelete(svc, discardLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !called {
		t.Fatal("expected service called")
	}
}
