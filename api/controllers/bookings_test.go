package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/internal/bookings"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
)

type testBookingService struct {
	createFn  func(ctx context.Context, input bookings.CreateBookingInput) (*bookings.BookingDTO, error)
	confirmFn func(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error)
	listFn    func(ctx context.Context, input bookings.ListBookingsInput) (*bookings.BookingListResult, error)
}

func (s *testBookingService) Create(ctx context.Context, input bookings.CreateBookingInput) (*bookings.BookingDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testBookingService) Get(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
}

func (s *testBookingService) List(ctx context.Context, input bookings.ListBookingsInput) (*bookings.BookingListResult, error) {
	if s.listFn != nil {
		return s.listFn(ctx, input)
	}
	return &bookings.BookingListResult{}, nil
}

func (s *testBookingService) Confirm(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error) {
	if s.confirmFn != nil {
		return s.confirmFn(ctx, id)
	}
	return nil, nil
}

func (s *testBookingService) Complete(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error) {
	return nil, nil
}

func (s *testBookingService) Cancel(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error) {
	return nil, nil
}

func TestBookingCreateReturnsCreated(t *testing.T) {
	var captured bookings.CreateBookingInput
	svc := &testBookingService{
		createFn: func(ctx context.Context, input bookings.CreateBookingInput) (*bookings.BookingDTO, error) {
			captured = input
			return &bookings.BookingDTO{
				ID:          uuid.New(),
				Status:      enums.BookingStatusNew,
				ClientName:  input.ClientName,
				ClientEmail: input.ClientEmail,
				Adults:      input.Adults,
			}, nil
		},
	}

	body := `{"client_name":"Jordan Field","client_email":"jordan@example.com","adults":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	resp := httptest.NewRecorder()
	BookingCreate(svc, discardLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if captured.ClientEmail != "jordan@example.com" {
		t.Fatalf("unexpected input %+v", captured)
	}
	var envelope struct {
		Data bookings.BookingDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != enums.BookingStatusNew {
		t.Fatalf("expected status new got %s", envelope.Data.Status)
	}
}

func TestBookingCreateRejectsUnknownFields(t *testing.T) {
	svc := &testBookingService{}
	body := `{"client_name":"A","client_email":"a@example.com","adults":1,"bogus":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	resp := httptest.NewRecorder()
	BookingCreate(svc, discardLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBookingConfirmParsesID(t *testing.T) {
	bookingID := uuid.New()
	called := false
	svc := &testBookingService{
		confirmFn: func(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error) {
			called = true
			if id != bookingID {
				t.Fatalf("unexpected id %s", id)
			}
			return &bookings.BookingDTO{ID: id, Status: enums.BookingStatusConfirmed}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/bookings/"+bookingID.String()+"/confirm", nil)
	req = addRouteParam(req, "bookingId", bookingID.String())
	resp := httptest.NewRecorder()
	BookingConfirm(svc, discardLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestBookingConfirmRejectsBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/bookings/bad/confirm", nil)
	req = addRouteParam(req, "bookingId", "bad")
	resp := httptest.NewRecorder()
	BookingConfirm(&testBookingService{}, discardLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestBookingListParsesFilters(t *testing.T) {
	var captured bookings.ListBookingsInput
	svc := &testBookingService{
		listFn: func(ctx context.Context, input bookings.ListBookingsInput) (*bookings.BookingListResult, error) {
			captured = input
			return &bookings.BookingListResult{}, nil
		},
	}

	tourID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/bookings?status=confirmed&tour_id="+tourID.String()+"&limit=10", nil)
	resp := httptest.NewRecorder()
	BookingList(svc, discardLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.Status == nil || *captured.Status != enums.BookingStatusConfirmed {
		t.Fatalf("expected confirmed filter got %+v", captured.Status)
	}
	if captured.TourID == nil || *captured.TourID != tourID {
		t.Fatalf("expected tour filter got %+v", captured.TourID)
	}
	if captured.Pagination.Limit != 10 {
		t.Fatalf("expected limit 10 got %d", captured.Pagination.Limit)
	}
}

func TestBookingListRejectsBadStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/bookings?status=nope", nil)
	resp := httptest.NewRecorder()
	BookingList(&testBookingService{}, discardLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
