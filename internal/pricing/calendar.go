package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

// RateRow is one bookable date window priced for a single traveler category.
type RateRow struct {
	From     time.Time       `json:"from"`
	To       time.Time       `json:"to"`
	Season   enums.Season    `json:"season"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
}

// GenerateRateCalendar materializes the forward-looking rate list for a tour.
// Starting at windowStart it emits one window [cur, cur+durationDays] per
// iteration, fanning each window out into one row per cost entry of the
// window's season. The season is keyed off the window's start month only.
// Windows advance by durationDays+1 so consecutive departures never overlap,
// and generation stops once the window start reaches windowEnd. Windows whose
// season has no cost rows are skipped.
func GenerateRateCalendar(table PriceTable, durationDays int, windowStart, windowEnd time.Time) []RateRow {
	if durationDays < 0 || !windowStart.Before(windowEnd) {
		return nil
	}

	rows := []RateRow{}
	for cur := windowStart; cur.Before(windowEnd); cur = cur.AddDate(0, 0, durationDays+1) {
		season := SeasonForMonth(cur.Month())
		costs := table[season]
		if len(costs) == 0 {
			continue
		}

		to := cur.AddDate(0, 0, durationDays)
		for _, entry := range costs {
			rows = append(rows, RateRow{
				From:     cur,
				To:       to,
				Season:   season,
				Category: entry.Category,
				Price:    entry.Cost,
			})
		}
	}
	return rows
}

// DefaultWindow returns the standard one-year rate window anchored at now.
func DefaultWindow(now time.Time, windowDays int) (time.Time, time.Time) {
	if windowDays <= 0 {
		windowDays = 365
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, windowDays)
}
