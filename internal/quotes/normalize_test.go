package quotes

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/pkg/db/models"
)

func strPtr(s string) *string { return &s }

func TestNormalizeDefaultsAndDayNumbers(t *testing.T) {
	start := time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC)
	raw := &models.Quote{
		QuoteNumber: "ATQ-2026-0007",
		ClientName:  "Jordan Patel",
		StartDate:   &start,
		Adults:      2,
		Days: []models.QuoteDay{
			{DayNumber: 9, Title: strPtr("Fly to Lukla")},
			{DayNumber: 3},
			{DayNumber: 7, Destination: strPtr("Phakding")},
		},
	}

	doc := Normalize(raw)

	if doc.TourTitle != "" || doc.Description != "" {
		t.Fatalf("expected empty strings for absent fields, got %q / %q", doc.TourTitle, doc.Description)
	}
	if doc.Inclusions == nil || doc.Exclusions == nil {
		t.Fatal("expected non-nil inclusion/exclusion slices")
	}

	if len(doc.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(doc.Days))
	}
	// Stored day numbers are untrusted; slice order wins.
	for i, day := range doc.Days {
		if day.Number != i+1 {
			t.Fatalf("day %d: expected recomputed number %d, got %d", i, i+1, day.Number)
		}
	}
	if doc.Days[0].Title != "Fly to Lukla" {
		t.Fatalf("expected slice order preserved, got %q first", doc.Days[0].Title)
	}

	if doc.TotalDays != 3 {
		t.Fatalf("expected total days derived from itinerary, got %d", doc.TotalDays)
	}
}

func TestNormalizeKeepsStoredTotalDays(t *testing.T) {
	raw := &models.Quote{
		QuoteNumber: "ATQ-2026-0008",
		ClientName:  "Sam",
		TotalDays:   12,
		Days:        []models.QuoteDay{{DayNumber: 1}},
	}

	if doc := Normalize(raw); doc.TotalDays != 12 {
		t.Fatalf("expected stored total days 12, got %d", doc.TotalDays)
	}
}

func TestNormalizeAccommodationVariants(t *testing.T) {
	linked := uuid.New()
	cases := []struct {
		name string
		day  models.QuoteDay
		want document.AccommodationKind
	}{
		{
			name: "bare name is named",
			day:  models.QuoteDay{AccommodationName: strPtr("Teahouse")},
			want: document.AccommodationNamed,
		},
		{
			name: "linked record is detailed",
			day:  models.QuoteDay{AccommodationID: &linked, AccommodationName: strPtr("Hotel Shanker")},
			want: document.AccommodationDetailed,
		},
		{
			name: "images imply detailed",
			day:  models.QuoteDay{AccommodationName: strPtr("Lodge"), AccommodationImages: []string{"img/lodge.jpg"}},
			want: document.AccommodationDetailed,
		},
		{
			name: "absent accommodation stays named and empty",
			day:  models.QuoteDay{},
			want: document.AccommodationNamed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref := resolveAccommodation(tc.day)
			if ref.Kind != tc.want {
				t.Fatalf("expected kind %s, got %s", tc.want, ref.Kind)
			}
			if ref.Images == nil {
				t.Fatal("expected non-nil image slice")
			}
		})
	}
}

func TestNormalizeCopiesSlices(t *testing.T) {
	raw := &models.Quote{
		QuoteNumber: "ATQ-2026-0009",
		ClientName:  "Lee",
		Inclusions:  []string{"Permits"},
		Days: []models.QuoteDay{
			{DayNumber: 1, Meals: []string{"Breakfast"}},
		},
	}

	doc := Normalize(raw)
	doc.Inclusions[0] = "changed"
	doc.Days[0].Meals[0] = "changed"

	if raw.Inclusions[0] != "Permits" {
		t.Fatal("normalization aliased the inclusions slice")
	}
	if raw.Days[0].Meals[0] != "Breakfast" {
		t.Fatal("normalization aliased the meals slice")
	}
}
