package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atlastrek/tour-backend/pkg/logger"
)

type fakeQuoteExpirer struct {
	expired int64
	err     error
	calls   int
	lastNow time.Time
}

func (f *fakeQuoteExpirer) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	f.calls++
	f.lastNow = now
	return f.expired, f.err
}

func TestQuoteExpiryJobRuns(t *testing.T) {
	expirer := &fakeQuoteExpirer{expired: 3}
	job, err := NewQuoteExpiryJob(QuoteExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Quotes: expirer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "quote-expiry" {
		t.Fatalf("unexpected job name %q", job.Name())
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected one expire call, got %d", expirer.calls)
	}
	if expirer.lastNow.IsZero() {
		t.Fatal("expected the job to pass the current time")
	}
}

func TestQuoteExpiryJobPropagatesFailure(t *testing.T) {
	expirer := &fakeQuoteExpirer{err: errors.New("db down")}
	job, err := NewQuoteExpiryJob(QuoteExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Quotes: expirer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed expiry")
	}
}
