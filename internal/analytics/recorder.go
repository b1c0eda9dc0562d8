package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
)

type eventPublisher interface {
	Publish(ctx context.Context, data []byte) error
}

// Recorder publishes marketing events to the marketing topic. Domain
// services depend on its Record method only; delivery to BigQuery happens
// asynchronously in the analytics worker.
type Recorder struct {
	publisher eventPublisher
	now       func() time.Time
}

// NewRecorder builds a recorder over the marketing-topic publisher.
func NewRecorder(publisher eventPublisher) (*Recorder, error) {
	if publisher == nil {
		return nil, fmt.Errorf("marketing publisher required")
	}
	return &Recorder{publisher: publisher, now: time.Now}, nil
}

// Record validates and publishes one marketing event.
func (r *Recorder) Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error {
	if !event.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid analytics event type %q", event))
	}

	payload, err := json.Marshal(Event{
		ID:         uuid.New(),
		Type:       event,
		OccurredAt: r.now().UTC(),
		Properties: properties,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode analytics event")
	}

	if err := r.publisher.Publish(ctx, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish analytics event")
	}
	return nil
}
