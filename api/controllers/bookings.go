package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/api/responses"
	"github.com/atlastrek/tour-backend/api/validators"
	"github.com/atlastrek/tour-backend/internal/bookings"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

// BookingCreate accepts a booking request from the marketing site.
func BookingCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		var body bookings.CreateBookingInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// BookingGet returns one booking.
func BookingGet(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := uuidParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BookingList returns the paginated booking list with status and tour filters.
func BookingList(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		input := bookings.ListBookingsInput{}
		params, err := listPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Pagination = params

		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseBookingStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
				return
			}
			input.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("tour_id")); raw != "" {
			tourID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tour_id"))
				return
			}
			input.TourID = &tourID
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// BookingConfirm transitions a new booking to confirmed.
func BookingConfirm(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return bookingTransition(svc, logg, func(s bookings.Service) bookingTransitionFn { return s.Confirm })
}

// BookingComplete transitions a confirmed booking to completed.
func BookingComplete(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return bookingTransition(svc, logg, func(s bookings.Service) bookingTransitionFn { return s.Complete })
}

// BookingCancel cancels a new or confirmed booking.
func BookingCancel(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return bookingTransition(svc, logg, func(s bookings.Service) bookingTransitionFn { return s.Cancel })
}

type bookingTransitionFn func(ctx context.Context, id uuid.UUID) (*bookings.BookingDTO, error)

func bookingTransition(svc bookings.Service, logg *logger.Logger, pick func(bookings.Service) bookingTransitionFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		id, err := uuidParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := pick(svc)(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
