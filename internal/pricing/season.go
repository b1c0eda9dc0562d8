package pricing

import (
	"time"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

// CurrentSeason maps a calendar date to a pricing season using fixed
// month/day thresholds:
//
//	high: July, August, December 20-31, January 1-10
//	low:  April, May 1-19
//	mid:  everything else
func CurrentSeason(date time.Time) enums.Season {
	month := date.Month()
	day := date.Day()

	switch {
	case month == time.July || month == time.August:
		return enums.SeasonHigh
	case month == time.December && day >= 20:
		return enums.SeasonHigh
	case month == time.January && day <= 10:
		return enums.SeasonHigh
	case month == time.April:
		return enums.SeasonLow
	case month == time.May && day <= 19:
		return enums.SeasonLow
	default:
		return enums.SeasonMid
	}
}

// SeasonForMonth classifies by month alone. The rate calendar keys windows
// off the start month only, so December and January count as high season in
// full and April and May as low season in full. This diverges from
// CurrentSeason around the month boundaries on purpose.
func SeasonForMonth(month time.Month) enums.Season {
	switch month {
	case time.July, time.August, time.December, time.January:
		return enums.SeasonHigh
	case time.April, time.May:
		return enums.SeasonLow
	default:
		return enums.SeasonMid
	}
}
