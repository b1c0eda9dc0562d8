package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

func TestResolvePriceExactMatch(t *testing.T) {
	table := PriceTable{
		enums.SeasonHigh: {
			{Category: "2 Persons", Cost: decimal.NewFromInt(1000)},
			{Category: "4 Persons", Cost: decimal.NewFromInt(1800)},
		},
	}

	price, ok := ResolvePrice(table, enums.SeasonHigh, "4 Persons")
	if !ok {
		t.Fatal("expected price to resolve")
	}
	if !price.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("expected 1800, got %s", price)
	}
}

func TestResolvePriceFirstEntryFallback(t *testing.T) {
	table := PriceTable{
		enums.SeasonHigh: {
			{Category: "2 Persons", Cost: decimal.NewFromInt(1000)},
			{Category: "4 Persons", Cost: decimal.NewFromInt(1800)},
		},
	}

	price, ok := ResolvePrice(table, enums.SeasonHigh, "6 Persons")
	if !ok {
		t.Fatal("expected fallback price to resolve")
	}
	if !price.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected first-entry fallback 1000, got %s", price)
	}
}

func TestResolvePriceMissingSeason(t *testing.T) {
	if _, ok := ResolvePrice(PriceTable{}, enums.SeasonHigh, "2 Persons"); ok {
		t.Fatal("expected no price for missing season")
	}

	empty := PriceTable{enums.SeasonLow: {}}
	if _, ok := ResolvePrice(empty, enums.SeasonLow, "2 Persons"); ok {
		t.Fatal("expected no price for empty cost list")
	}
}

func TestDiscountedPriceMultipliers(t *testing.T) {
	base := decimal.NewFromInt(1000)

	four := DiscountedPrice(base, TierFourPersons)
	if four.StringFixed(2) != "920.00" {
		t.Fatalf("expected 920.00 for four-person tier, got %s", four.StringFixed(2))
	}

	sixPlus := DiscountedPrice(base, TierSixPlus)
	if sixPlus.StringFixed(2) != "900.00" {
		t.Fatalf("expected 900.00 for six-plus tier, got %s", sixPlus.StringFixed(2))
	}

	unknown := DiscountedPrice(base, Tier("solo"))
	if unknown.StringFixed(2) != "1000.00" {
		t.Fatalf("expected base price for unknown tier, got %s", unknown.StringFixed(2))
	}
}

func TestDiscountedPriceRoundsHalfUp(t *testing.T) {
	// 10.25 * 0.90 = 9.225, which rounds half-up to 9.23.
	got := DiscountedPrice(decimal.RequireFromString("10.25"), TierSixPlus)
	if got.StringFixed(2) != "9.23" {
		t.Fatalf("expected 9.23, got %s", got.StringFixed(2))
	}
}
