package quotes

import (
	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/pkg/db/models"
)

// Normalize converts a stored quote into the fully-defaulted document input.
// This is the single "parse, don't validate" pass: nil pointers become empty
// strings, nil arrays become empty slices, day numbers are recomputed from
// slice order, total days are derived from the itinerary when unset, and the
// accommodation reference is resolved into its tagged variant. Downstream
// code never touches the raw model.
func Normalize(q *models.Quote) document.Quote {
	doc := document.Quote{
		Number:        q.QuoteNumber,
		ClientName:    q.ClientName,
		TourTitle:     deref(q.TourTitle),
		Description:   deref(q.Description),
		Greeting:      deref(q.Greeting),
		StartLocation: deref(q.StartLocation),
		EndLocation:   deref(q.EndLocation),
		LogoURL:       deref(q.LogoURL),
		StartDate:     q.StartDate,
		EndDate:       q.EndDate,
		TotalDays:     q.TotalDays,
		Adults:        q.Adults,
		Children:      q.Children,
		AdultPrice:    q.AdultPrice,
		ChildPrice:    q.ChildPrice,
		Currency:      q.Currency,
		Inclusions:    copyStrings(q.Inclusions),
		Exclusions:    copyStrings(q.Exclusions),
		Days:          make([]document.Day, 0, len(q.Days)),
	}

	for i, day := range q.Days {
		doc.Days = append(doc.Days, normalizeDay(day, i+1))
	}

	if doc.TotalDays <= 0 {
		doc.TotalDays = len(doc.Days)
	}

	return doc
}

func normalizeDay(day models.QuoteDay, number int) document.Day {
	return document.Day{
		Number:            number,
		Title:             deref(day.Title),
		Description:       deref(day.Description),
		Destination:       deref(day.Destination),
		DestinationImages: copyStrings(day.DestinationImages),
		Accommodation:     resolveAccommodation(day),
		Meals:             copyStrings(day.Meals),
		Activities:        copyStrings(day.Activities),
		WalkingTime:       deref(day.WalkingTime),
		Distance:          deref(day.Distance),
		MaxAltitude:       deref(day.MaxAltitude),
	}
}

// resolveAccommodation collapses the loosely-typed accommodation columns into
// the tagged variant: a linked record or attached images makes it detailed,
// a bare name stays named.
func resolveAccommodation(day models.QuoteDay) document.AccommodationRef {
	ref := document.AccommodationRef{
		Kind:   document.AccommodationNamed,
		Name:   deref(day.AccommodationName),
		Images: copyStrings(day.AccommodationImages),
	}
	if day.AccommodationID != nil || len(ref.Images) > 0 {
		ref.Kind = document.AccommodationDetailed
	}
	return ref
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
