package analytics

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/pkg/enums"
)

// Event is one marketing analytics fact flowing from the API to BigQuery via
// the marketing Pub/Sub topic.
type Event struct {
	ID         uuid.UUID                `json:"id"`
	Type       enums.AnalyticsEventType `json:"type"`
	OccurredAt time.Time                `json:"occurred_at"`
	Properties map[string]string        `json:"properties,omitempty"`
}

// MarketingEventRow is the BigQuery insert shape for the marketing_events
// table. Properties are flattened to JSON text so the table schema stays
// stable as event payloads evolve.
type MarketingEventRow struct {
	EventID    string    `bigquery:"event_id"`
	EventType  string    `bigquery:"event_type"`
	OccurredAt time.Time `bigquery:"occurred_at"`
	Properties string    `bigquery:"properties"`
	IngestedAt time.Time `bigquery:"ingested_at"`
}
