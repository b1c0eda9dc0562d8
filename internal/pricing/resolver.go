package pricing

import (
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// BaseCategory is the canonical traveler tier every tour is priced against.
const BaseCategory = "2 Persons"

// CostEntry is one traveler-category price row within a season.
type CostEntry struct {
	Category string
	Cost     decimal.Decimal
	Discount decimal.Decimal
}

// PriceTable holds the per-season cost rows for a tour. A season missing
// from the map means the tour is not priced for that season.
type PriceTable map[enums.Season][]CostEntry

// ResolvePrice looks up the price for the requested traveler category in the
// given season. A missing season or an empty cost list means no price is
// available, reported through ok=false rather than a zero value. An exact
// category match wins; otherwise the FIRST entry's cost is returned. The
// first-entry fallback mirrors long-standing behavior and can surface a
// different tier's price when the category is absent; callers display it
// as-is rather than erroring.
func ResolvePrice(table PriceTable, season enums.Season, category string) (decimal.Decimal, bool) {
	costs, found := table[season]
	if !found || len(costs) == 0 {
		return decimal.Decimal{}, false
	}

	for _, entry := range costs {
		if entry.Category == category {
			return entry.Cost, true
		}
	}
	return costs[0].Cost, true
}
