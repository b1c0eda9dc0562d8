package document

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the fully-normalized input to the page builder. All slices are
// non-nil, day numbers are sequential from 1, and optional display fields are
// plain strings with "" meaning absent. Normalization happens once at the
// model boundary (internal/quotes); the builder never defends against nil.
type Quote struct {
	Number      string
	ClientName  string
	TourTitle   string
	Description string
	// Greeting overrides the generated greeting paragraph when set.
	Greeting      string
	StartLocation string
	EndLocation   string
	LogoURL       string

	StartDate *time.Time
	EndDate   *time.Time
	TotalDays int

	Adults     int
	Children   int
	AdultPrice *decimal.Decimal
	ChildPrice *decimal.Decimal
	Currency   string

	Inclusions []string
	Exclusions []string

	Days []Day
}

// AccommodationKind tags how an accommodation reference was supplied.
type AccommodationKind string

const (
	// AccommodationNamed is a plain name with no attached detail record.
	AccommodationNamed AccommodationKind = "named"
	// AccommodationDetailed carries images from a linked accommodation.
	AccommodationDetailed AccommodationKind = "detailed"
)

// AccommodationRef is the tagged accommodation variant resolved at ingestion.
type AccommodationRef struct {
	Kind   AccommodationKind
	Name   string
	Images []string
}

// Day is one normalized itinerary day. Number is 1-based and matches the
// day's position in Quote.Days.
type Day struct {
	Number            int
	Title             string
	Description       string
	Destination       string
	DestinationImages []string
	Accommodation     AccommodationRef
	Meals             []string
	Activities        []string
	WalkingTime       string
	Distance          string
	MaxAltitude       string
}

// PageKind identifies one of the fixed page types in an exported document.
type PageKind string

const (
	PageCover         PageKind = "cover"
	PageDescription   PageKind = "description"
	PageSummary       PageKind = "summary"
	PageDay           PageKind = "day"
	PageCostBreakdown PageKind = "cost_breakdown"
	PageClosing       PageKind = "closing"
)

// Field is a labelled value rendered as a key/value pair.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Table is a simple grid with a header row.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Banner heads an itinerary day page.
type Banner struct {
	DayLabel  string `json:"day_label"`
	DateLabel string `json:"date_label"`
}

// CostRow is one line item on the cost breakdown page.
type CostRow struct {
	Label     string `json:"label"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Amount    string `json:"amount"`
}

// CostBreakdown groups the pricing content of the breakdown page.
type CostBreakdown struct {
	Rows     []CostRow `json:"rows"`
	Total    string    `json:"total"`
	Currency string    `json:"currency"`
	Included []string  `json:"included"`
	Excluded []string  `json:"excluded"`
}

// Footer carries the reference block on the closing page. PageMarker is a
// literal placeholder the external renderer substitutes during layout.
type Footer struct {
	QuoteNumber string `json:"quote_number"`
	SiteURL     string `json:"site_url"`
	PageMarker  string `json:"page_marker"`
}

// Page is a renderer-agnostic description of one output page. Only the
// sections relevant to the page's kind are populated.
type Page struct {
	Kind       PageKind       `json:"kind"`
	Title      string         `json:"title,omitempty"`
	Fields     []Field        `json:"fields,omitempty"`
	Paragraphs []string       `json:"paragraphs,omitempty"`
	Lines      []string       `json:"lines,omitempty"`
	Table      *Table         `json:"table,omitempty"`
	Banner     *Banner        `json:"banner,omitempty"`
	ImageURL   string         `json:"image_url,omitempty"`
	Cost       *CostBreakdown `json:"cost,omitempty"`
	Footer     *Footer        `json:"footer,omitempty"`
}
