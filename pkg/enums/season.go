package enums

import "fmt"

// Season buckets a travel date into one of the operator's pricing seasons.
type Season string

const (
	SeasonHigh Season = "high_season"
	SeasonMid  Season = "mid_season"
	SeasonLow  Season = "low_season"
)

var validSeasons = []Season{
	SeasonHigh,
	SeasonMid,
	SeasonLow,
}

// String implements fmt.Stringer.
func (s Season) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Season.
func (s Season) IsValid() bool {
	for _, candidate := range validSeasons {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSeason converts raw input into a Season.
func ParseSeason(value string) (Season, error) {
	for _, candidate := range validSeasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid season %q", value)
}
