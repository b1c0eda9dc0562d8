package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// NotAvailable is the display fallback for any absent field.
	NotAvailable = "N/A"
	// NoItineraryRow is rendered when a quote has zero itinerary days.
	NoItineraryRow = "no itinerary details available"
	// PlaceholderImage stands in when a day has no destination or
	// accommodation image.
	PlaceholderImage = "assets/placeholder-day.jpg"
	// PageMarker is resolved to "Page X of Y" by the external renderer.
	PageMarker = "{page} of {pages}"

	longDateLayout = "Monday, January 2, 2006"
)

// Builder turns normalized quotes into ordered page descriptors. It is pure:
// BuildPages performs no I/O and never mutates its input.
type Builder struct {
	siteURL     string
	companyName string
}

// NewBuilder constructs a page builder carrying the site identity rendered
// on cover and closing pages.
func NewBuilder(siteURL, companyName string) *Builder {
	return &Builder{siteURL: siteURL, companyName: companyName}
}

// BuildPages produces exactly 5+N pages for a quote with N itinerary days:
// cover, description, summary, one page per day, cost breakdown, closing.
func (b *Builder) BuildPages(q Quote) []Page {
	pages := make([]Page, 0, len(q.Days)+5)
	pages = append(pages, b.coverPage(q), b.descriptionPage(q), b.summaryPage(q))
	for i := range q.Days {
		pages = append(pages, b.dayPage(q, q.Days[i]))
	}
	pages = append(pages, b.costPage(q), b.closingPage(q))
	return pages
}

func (b *Builder) coverPage(q Quote) Page {
	fields := []Field{
		{Label: "Quote No.", Value: fallback(q.Number)},
		{Label: "Prepared for", Value: fallback(q.ClientName)},
		{Label: "Tour length", Value: dayCountLabel(q.TotalDays)},
		{Label: "Travelers", Value: travelerLabel(q.Adults, q.Children)},
		{Label: "Start date", Value: formatLongDate(q.StartDate)},
		{Label: "End date", Value: formatLongDate(q.EndDate)},
	}

	lines := make([]string, 0, len(q.Days))
	for _, day := range q.Days {
		lines = append(lines, overviewLine(day))
	}
	if len(lines) == 0 {
		lines = append(lines, NoItineraryRow)
	}

	page := Page{
		Kind:       PageCover,
		Title:      fallback(q.TourTitle),
		Fields:     fields,
		Lines:      lines,
		Paragraphs: []string{b.greeting(q)},
	}
	if q.LogoURL != "" {
		page.ImageURL = q.LogoURL
	}
	return page
}

func (b *Builder) descriptionPage(q Quote) Page {
	return Page{
		Kind:       PageDescription,
		Title:      "About this tour",
		Paragraphs: []string{fallback(q.Description)},
	}
}

func (b *Builder) summaryPage(q Quote) Page {
	table := &Table{Headers: []string{"Day", "Destination", "Accommodation", "Meals"}}
	for _, day := range q.Days {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("Day %d", day.Number),
			fallback(day.Destination),
			fallback(day.Accommodation.Name),
			mealsLabel(day.Meals),
		})
	}
	if len(table.Rows) == 0 {
		table.Rows = append(table.Rows, []string{NoItineraryRow})
	}

	return Page{
		Kind:  PageSummary,
		Title: "Itinerary at a glance",
		Table: table,
	}
}

func (b *Builder) dayPage(q Quote, day Day) Page {
	title := day.Title
	if title == "" {
		title = fmt.Sprintf("Day %d", day.Number)
	}

	fields := []Field{
		{Label: "Destination", Value: fallback(day.Destination)},
		{Label: "Accommodation", Value: fallback(day.Accommodation.Name)},
		{Label: "Meals", Value: mealsLabel(day.Meals)},
	}
	if day.WalkingTime != "" {
		fields = append(fields, Field{Label: "Walking time", Value: day.WalkingTime})
	}
	if day.Distance != "" {
		fields = append(fields, Field{Label: "Distance", Value: day.Distance})
	}
	if day.MaxAltitude != "" {
		fields = append(fields, Field{Label: "Max altitude", Value: day.MaxAltitude})
	}

	return Page{
		Kind: PageDay,
		Banner: &Banner{
			DayLabel:  fmt.Sprintf("Day %d", day.Number),
			DateLabel: formatLongDate(dayDate(q.StartDate, day.Number)),
		},
		Title:      title,
		Paragraphs: []string{fallback(day.Description)},
		Lines:      day.Activities,
		Fields:     fields,
		ImageURL:   dayImage(day),
	}
}

func (b *Builder) costPage(q Quote) Page {
	breakdown := &CostBreakdown{
		Currency: q.Currency,
		Included: q.Inclusions,
		Excluded: q.Exclusions,
	}

	total := decimal.Zero
	priced := false

	breakdown.Rows = append(breakdown.Rows, costRow("Adults", q.Adults, q.AdultPrice))
	if q.AdultPrice != nil {
		total = total.Add(q.AdultPrice.Mul(decimal.NewFromInt(int64(q.Adults))))
		priced = true
	}

	if q.Children > 0 {
		breakdown.Rows = append(breakdown.Rows, costRow("Children", q.Children, q.ChildPrice))
		if q.ChildPrice != nil {
			total = total.Add(q.ChildPrice.Mul(decimal.NewFromInt(int64(q.Children))))
			priced = true
		}
	}

	if priced {
		breakdown.Total = total.StringFixed(2)
	} else {
		breakdown.Total = NotAvailable
	}

	return Page{
		Kind:  PageCostBreakdown,
		Title: "Cost breakdown",
		Cost:  breakdown,
	}
}

func (b *Builder) closingPage(q Quote) Page {
	signOff := fmt.Sprintf(
		"We look forward to welcoming you on this journey. Warm regards, the %s team.",
		fallback(b.companyName),
	)
	return Page{
		Kind:       PageClosing,
		Title:      "Thank you",
		Paragraphs: []string{signOff},
		Footer: &Footer{
			QuoteNumber: fallback(q.Number),
			SiteURL:     b.siteURL,
			PageMarker:  PageMarker,
		},
	}
}

func (b *Builder) greeting(q Quote) string {
	if q.Greeting != "" {
		return q.Greeting
	}
	return fmt.Sprintf(
		"Dear %s, thank you for your interest in %s. This %s itinerary takes you from %s to %s, departing %s and returning %s. We hope the pages that follow capture the trip you have in mind.",
		fallback(q.ClientName),
		fallback(q.TourTitle),
		dayCountLabel(q.TotalDays),
		fallback(q.StartLocation),
		fallback(q.EndLocation),
		formatLongDate(q.StartDate),
		formatLongDate(q.EndDate),
	)
}

func overviewLine(day Day) string {
	return fmt.Sprintf(
		"Day %d: %s - %s (%s)",
		day.Number,
		fallback(day.Destination),
		fallback(day.Accommodation.Name),
		mealsLabel(day.Meals),
	)
}

func costRow(label string, count int, unit *decimal.Decimal) CostRow {
	row := CostRow{
		Label:     label,
		Quantity:  count,
		UnitPrice: NotAvailable,
		Amount:    NotAvailable,
	}
	if unit != nil {
		row.UnitPrice = unit.StringFixed(2)
		row.Amount = unit.Mul(decimal.NewFromInt(int64(count))).StringFixed(2)
	}
	return row
}

// dayDate computes the calendar date of a 1-based itinerary day.
func dayDate(start *time.Time, dayNumber int) *time.Time {
	if start == nil {
		return nil
	}
	d := start.AddDate(0, 0, dayNumber-1)
	return &d
}

func dayImage(day Day) string {
	if len(day.DestinationImages) > 0 {
		return day.DestinationImages[0]
	}
	if len(day.Accommodation.Images) > 0 {
		return day.Accommodation.Images[0]
	}
	return PlaceholderImage
}

func formatLongDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return NotAvailable
	}
	return t.Format(longDateLayout)
}

func mealsLabel(meals []string) string {
	if len(meals) == 0 {
		return NotAvailable
	}
	return strings.Join(meals, ", ")
}

func travelerLabel(adults, children int) string {
	label := fmt.Sprintf("%d adults", adults)
	if adults == 1 {
		label = "1 adult"
	}
	if children > 0 {
		childLabel := fmt.Sprintf("%d children", children)
		if children == 1 {
			childLabel = "1 child"
		}
		label += ", " + childLabel
	}
	return label
}

func dayCountLabel(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func fallback(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}
