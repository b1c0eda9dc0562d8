package pricing

import (
	"testing"
	"time"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCurrentSeasonBoundaries(t *testing.T) {
	cases := []struct {
		name string
		date time.Time
		want enums.Season
	}{
		{"jun 30 mid", date(2026, time.June, 30), enums.SeasonMid},
		{"jul 1 high", date(2026, time.July, 1), enums.SeasonHigh},
		{"aug 31 high", date(2026, time.August, 31), enums.SeasonHigh},
		{"sep 1 mid", date(2026, time.September, 1), enums.SeasonMid},
		{"dec 19 mid", date(2026, time.December, 19), enums.SeasonMid},
		{"dec 20 high", date(2026, time.December, 20), enums.SeasonHigh},
		{"dec 31 high", date(2026, time.December, 31), enums.SeasonHigh},
		{"jan 1 high", date(2027, time.January, 1), enums.SeasonHigh},
		{"jan 10 high", date(2027, time.January, 10), enums.SeasonHigh},
		{"jan 11 mid", date(2027, time.January, 11), enums.SeasonMid},
		{"mar 31 mid", date(2026, time.March, 31), enums.SeasonMid},
		{"apr 1 low", date(2026, time.April, 1), enums.SeasonLow},
		{"apr 30 low", date(2026, time.April, 30), enums.SeasonLow},
		{"may 19 low", date(2026, time.May, 19), enums.SeasonLow},
		{"may 20 mid", date(2026, time.May, 20), enums.SeasonMid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CurrentSeason(tc.date); got != tc.want {
				t.Fatalf("CurrentSeason(%s) = %s, want %s", tc.date.Format("2006-01-02"), got, tc.want)
			}
		})
	}
}

func TestSeasonForMonth(t *testing.T) {
	cases := []struct {
		month time.Month
		want  enums.Season
	}{
		{time.January, enums.SeasonHigh},
		{time.February, enums.SeasonMid},
		{time.March, enums.SeasonMid},
		{time.April, enums.SeasonLow},
		{time.May, enums.SeasonLow},
		{time.June, enums.SeasonMid},
		{time.July, enums.SeasonHigh},
		{time.August, enums.SeasonHigh},
		{time.September, enums.SeasonMid},
		{time.October, enums.SeasonMid},
		{time.November, enums.SeasonMid},
		{time.December, enums.SeasonHigh},
	}

	for _, tc := range cases {
		t.Run(tc.month.String(), func(t *testing.T) {
			if got := SeasonForMonth(tc.month); got != tc.want {
				t.Fatalf("SeasonForMonth(%s) = %s, want %s", tc.month, got, tc.want)
			}
		})
	}
}

// The month-only classification disagrees with the month/day thresholds in
// the shoulder days; pin that down so nobody "fixes" one side silently.
func TestSeasonClassifiersDivergeOnShoulderDays(t *testing.T) {
	dec1 := date(2026, time.December, 1)
	if CurrentSeason(dec1) != enums.SeasonMid {
		t.Fatalf("expected Dec 1 mid season from CurrentSeason")
	}
	if SeasonForMonth(dec1.Month()) != enums.SeasonHigh {
		t.Fatalf("expected December high season from SeasonForMonth")
	}

	may25 := date(2026, time.May, 25)
	if CurrentSeason(may25) != enums.SeasonMid {
		t.Fatalf("expected May 25 mid season from CurrentSeason")
	}
	if SeasonForMonth(may25.Month()) != enums.SeasonLow {
		t.Fatalf("expected May low season from SeasonForMonth")
	}
}
