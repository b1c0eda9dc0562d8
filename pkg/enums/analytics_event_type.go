package enums

import "fmt"

// AnalyticsEventType is the canonical event_type for marketing analytics routing.
type AnalyticsEventType string

const (
	AnalyticsEventSubscriberAdded   AnalyticsEventType = "subscriber_added"
	AnalyticsEventSubscriberRemoved AnalyticsEventType = "subscriber_removed"
	AnalyticsEventQuoteCreated      AnalyticsEventType = "quote_created"
	AnalyticsEventQuoteExported     AnalyticsEventType = "quote_exported"
	AnalyticsEventBookingCreated    AnalyticsEventType = "booking_created"
	AnalyticsEventBookingConfirmed  AnalyticsEventType = "booking_confirmed"
	AnalyticsEventTourViewed        AnalyticsEventType = "tour_viewed"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventSubscriberAdded,
	AnalyticsEventSubscriberRemoved,
	AnalyticsEventQuoteCreated,
	AnalyticsEventQuoteExported,
	AnalyticsEventBookingCreated,
	AnalyticsEventBookingConfirmed,
	AnalyticsEventTourViewed,
}

// IsValid reports whether the value matches the canonical analytics event_type enum.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
