package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeInserter struct {
	table string
	rows  []any
	err   error
}

func (f *fakeInserter) InsertRows(ctx context.Context, table string, rows []any) error {
	f.table = table
	f.rows = append(f.rows, rows...)
	return f.err
}

type capturePublisher struct {
	messages [][]byte
	err      error
}

func (c *capturePublisher) Publish(ctx context.Context, data []byte) error {
	c.messages = append(c.messages, data)
	return c.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "analytics-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func TestRecorderPublishesEvent(t *testing.T) {
	pub := &capturePublisher{}
	rec, err := NewRecorder(pub)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	err = rec.Record(context.Background(), enums.AnalyticsEventSubscriberAdded, map[string]string{"email": "a@b.c"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(pub.messages) != 1 {
		t.Fatalf("expected one published message, got %d", len(pub.messages))
	}
	var event Event
	if err := json.Unmarshal(pub.messages[0], &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.Type != enums.AnalyticsEventSubscriberAdded {
		t.Fatalf("unexpected event type %s", event.Type)
	}
	if event.ID == uuid.Nil || event.OccurredAt.IsZero() {
		t.Fatal("expected populated id and timestamp")
	}
	if event.Properties["email"] != "a@b.c" {
		t.Fatalf("unexpected properties %v", event.Properties)
	}
}

func TestRecorderRejectsUnknownType(t *testing.T) {
	rec, err := NewRecorder(&capturePublisher{})
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	err = rec.Record(context.Background(), enums.AnalyticsEventType("bogus"), nil)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWriterInsertsRow(t *testing.T) {
	inserter := &fakeInserter{}
	writer, err := NewWriter(inserter, "marketing_events", testLogger())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	payload, _ := json.Marshal(Event{
		ID:         uuid.New(),
		Type:       enums.AnalyticsEventQuoteExported,
		OccurredAt: time.Now().UTC(),
		Properties: map[string]string{"quote_id": uuid.NewString()},
	})

	ack, err := writer.HandleMessage(context.Background(), payload)
	if err != nil {
		t.Fatalf("handle message: %v", err)
	}
	if !ack {
		t.Fatal("expected ack")
	}
	if inserter.table != "marketing_events" {
		t.Fatalf("unexpected table %q", inserter.table)
	}
	if len(inserter.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(inserter.rows))
	}
	row := inserter.rows[0].(MarketingEventRow)
	if row.EventType != "quote_exported" {
		t.Fatalf("unexpected event type %q", row.EventType)
	}
	if row.Properties == "{}" {
		t.Fatal("expected flattened properties")
	}
}

func TestWriterDropsMalformedMessages(t *testing.T) {
	writer, err := NewWriter(&fakeInserter{}, "marketing_events", testLogger())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	ack, err := writer.HandleMessage(context.Background(), []byte("not json"))
	if err != nil || !ack {
		t.Fatalf("expected malformed message to be acked without error, got ack=%v err=%v", ack, err)
	}

	unknown, _ := json.Marshal(Event{ID: uuid.New(), Type: "mystery"})
	ack, err = writer.HandleMessage(context.Background(), unknown)
	if err != nil || !ack {
		t.Fatalf("expected unknown type to be acked without error, got ack=%v err=%v", ack, err)
	}
}

func TestWriterNacksOnInsertFailure(t *testing.T) {
	inserter := &fakeInserter{err: errors.New("stream closed")}
	writer, err := NewWriter(inserter, "marketing_events", testLogger())
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	payload, _ := json.Marshal(Event{ID: uuid.New(), Type: enums.AnalyticsEventBookingCreated, OccurredAt: time.Now()})
	ack, err := writer.HandleMessage(context.Background(), payload)
	if err == nil || ack {
		t.Fatalf("expected nack with error, got ack=%v err=%v", ack, err)
	}
}
