package controllers

import (
	"net/http"
	"strings"

	"github.com/atlastrek/tour-backend/api/responses"
	"github.com/atlastrek/tour-backend/api/validators"
	"github.com/atlastrek/tour-backend/internal/accommodations"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

// AccommodationCreate registers a lodging entry for the itinerary library.
func AccommodationCreate(svc accommodations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accommodation service unavailable"))
			return
		}

		var body accommodations.CreateAccommodationInput
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

// AccommodationGet returns one accommodation.
func AccommodationGet(svc accommodations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accommodation service unavailable"))
			return
		}

		id, err := uuidParam(r, "accommodationId")
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

// AccommodationList returns the paginated accommodation list. The search
// parameter matches against name and location.
func AccommodationList(svc accommodations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accommodation service unavailable"))
			return
		}

		input := accommodations.ListAccommodationsInput{
			Search: strings.TrimSpace(r.URL.Query().Get("search")),
		}
		params, err := listPagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Pagination = params

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AccommodationUpdate replaces the editable fields of an accommodation.
func AccommodationUpdate(svc accommodations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accommodation service unavailable"))
			return
		}

		id, err := uuidParam(r, "accommodationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body accommodations.UpdateAccommodationInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AccommodationDelete removes an accommodation.
func AccommodationDelete(svc accommodations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accommodation service unavailable"))
			return
		}

		id, err := uuidParam(r, "accommodationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
