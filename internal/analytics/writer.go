package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atlastrek/tour-backend/pkg/logger"
)

type rowInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

// Writer lands marketing events in BigQuery. It runs inside the analytics
// consumer loop; malformed messages are dropped with a warning so one bad
// payload cannot wedge the subscription.
type Writer struct {
	inserter rowInserter
	table    string
	logg     *logger.Logger
	now      func() time.Time
}

// NewWriter builds a writer targeting the marketing events table.
func NewWriter(inserter rowInserter, table string, logg *logger.Logger) (*Writer, error) {
	if inserter == nil {
		return nil, fmt.Errorf("bigquery inserter required")
	}
	if table == "" {
		return nil, fmt.Errorf("marketing events table required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Writer{inserter: inserter, table: table, logg: logg, now: time.Now}, nil
}

// HandleMessage decodes one published event and inserts its row. The bool
// result reports whether the message should be acked; only transient insert
// failures return false for redelivery.
func (w *Writer) HandleMessage(ctx context.Context, data []byte) (bool, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		w.logg.Warn(ctx, fmt.Sprintf("drop malformed analytics event: %v", err))
		return true, nil
	}
	if !event.Type.IsValid() {
		w.logg.Warn(ctx, fmt.Sprintf("drop analytics event with unknown type %q", event.Type))
		return true, nil
	}

	properties := "{}"
	if len(event.Properties) > 0 {
		encoded, err := json.Marshal(event.Properties)
		if err == nil {
			properties = string(encoded)
		}
	}

	row := MarketingEventRow{
		EventID:    event.ID.String(),
		EventType:  string(event.Type),
		OccurredAt: event.OccurredAt,
		Properties: properties,
		IngestedAt: w.now().UTC(),
	}
	if err := w.inserter.InsertRows(ctx, w.table, []any{row}); err != nil {
		return false, fmt.Errorf("insert marketing event: %w", err)
	}
	return true, nil
}
