package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

func TestGenerateRateCalendarFanOut(t *testing.T) {
	table := PriceTable{
		enums.SeasonMid: {
			{Category: "2 Persons", Cost: decimal.NewFromInt(1000)},
			{Category: "4 Persons", Cost: decimal.NewFromInt(1840)},
			{Category: "6 Persons", Cost: decimal.NewFromInt(2700)},
		},
	}

	// Two windows inside a mid-season month: Sep 1-8 and Sep 9-16.
	start := date(2026, time.September, 1)
	end := date(2026, time.September, 15)
	rows := GenerateRateCalendar(table, 7, start, end)

	if len(rows) != 6 {
		t.Fatalf("expected 6 rows (3 categories x 2 windows), got %d", len(rows))
	}

	first := rows[:3]
	for _, row := range first {
		if !row.From.Equal(start) {
			t.Fatalf("expected window start %s, got %s", start, row.From)
		}
		if !row.To.Equal(start.AddDate(0, 0, 7)) {
			t.Fatalf("expected window end %s, got %s", start.AddDate(0, 0, 7), row.To)
		}
		if row.Season != enums.SeasonMid {
			t.Fatalf("expected mid season, got %s", row.Season)
		}
	}
	if first[0].Price.Equal(first[1].Price) || first[1].Price.Equal(first[2].Price) {
		t.Fatal("expected distinct prices across categories in one window")
	}

	second := rows[3:]
	wantNext := start.AddDate(0, 0, 8)
	for _, row := range second {
		if !row.From.Equal(wantNext) {
			t.Fatalf("expected second window to start %s, got %s", wantNext, row.From)
		}
	}
}

func TestGenerateRateCalendarSkipsUnpricedSeasons(t *testing.T) {
	table := PriceTable{
		enums.SeasonHigh: {
			{Category: "2 Persons", Cost: decimal.NewFromInt(1500)},
		},
	}

	// April is low season and has no rows in the table.
	rows := GenerateRateCalendar(table, 3, date(2026, time.April, 1), date(2026, time.April, 20))
	if len(rows) != 0 {
		t.Fatalf("expected no rows for unpriced window, got %d", len(rows))
	}
}

func TestGenerateRateCalendarSeasonByStartMonth(t *testing.T) {
	table := PriceTable{
		enums.SeasonHigh: {{Category: "2 Persons", Cost: decimal.NewFromInt(2000)}},
		enums.SeasonMid:  {{Category: "2 Persons", Cost: decimal.NewFromInt(1200)}},
	}

	// A window starting Dec 1 spills into high-season dates either way, but
	// classification uses the start month, so December is high throughout.
	rows := GenerateRateCalendar(table, 9, date(2026, time.December, 1), date(2026, time.December, 2))
	if len(rows) != 1 {
		t.Fatalf("expected a single row, got %d", len(rows))
	}
	if rows[0].Season != enums.SeasonHigh {
		t.Fatalf("expected high season for December window, got %s", rows[0].Season)
	}
	if !rows[0].Price.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected high-season price, got %s", rows[0].Price)
	}
}

func TestGenerateRateCalendarInvalidInput(t *testing.T) {
	table := PriceTable{enums.SeasonMid: {{Category: "2 Persons", Cost: decimal.NewFromInt(100)}}}

	if rows := GenerateRateCalendar(table, -1, date(2026, time.June, 1), date(2026, time.July, 1)); rows != nil {
		t.Fatalf("expected nil for negative duration, got %d rows", len(rows))
	}
	if rows := GenerateRateCalendar(table, 5, date(2026, time.July, 1), date(2026, time.June, 1)); rows != nil {
		t.Fatalf("expected nil for inverted window, got %d rows", len(rows))
	}
}

func TestDefaultWindow(t *testing.T) {
	now := time.Date(2026, time.March, 14, 15, 9, 26, 0, time.UTC)
	start, end := DefaultWindow(now, 365)

	if start.Hour() != 0 || start.Minute() != 0 {
		t.Fatalf("expected start truncated to midnight, got %s", start)
	}
	if !end.Equal(start.AddDate(0, 0, 365)) {
		t.Fatalf("expected one-year window, got %s", end)
	}

	_, fallbackEnd := DefaultWindow(now, 0)
	if !fallbackEnd.Equal(start.AddDate(0, 0, 365)) {
		t.Fatalf("expected 365-day fallback window, got %s", fallbackEnd)
	}
}
