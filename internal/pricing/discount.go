package pricing

import "github.com/shopspring/decimal"

// Tier identifies a traveler-count discount bracket applied to the base
// (2-person) rate.
type Tier string

const (
	TierFourPersons Tier = "4_persons"
	TierSixPlus     Tier = "6_plus_persons"
)

var (
	fourPersonMultiplier = decimal.NewFromFloat(0.92)
	sixPlusMultiplier    = decimal.NewFromFloat(0.90)
)

// DiscountedPrice applies the fixed group-size multiplier to the base price:
// 8% off for the four-person tier, 10% off for six or more. The result is
// rounded half-up to 2 decimal places for currency display. An unknown tier
// returns the base price unchanged, rounded the same way.
func DiscountedPrice(base decimal.Decimal, tier Tier) decimal.Decimal {
	switch tier {
	case TierFourPersons:
		return base.Mul(fourPersonMultiplier).Round(2)
	case TierSixPlus:
		return base.Mul(sixPlusMultiplier).Round(2)
	default:
		return base.Round(2)
	}
}
