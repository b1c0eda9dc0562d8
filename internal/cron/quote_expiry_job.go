package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/atlastrek/tour-backend/pkg/logger"
)

type staleQuoteExpirer interface {
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

// QuoteExpiryJobParams configure the sent-quote expiration job.
type QuoteExpiryJobParams struct {
	Logger *logger.Logger
	Quotes staleQuoteExpirer
}

// NewQuoteExpiryJob builds the cron job that expires sent quotes whose
// validity window has passed.
func NewQuoteExpiryJob(params QuoteExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quote expirer required")
	}
	return &quoteExpiryJob{
		logg:   params.Logger,
		quotes: params.Quotes,
		now:    time.Now,
	}, nil
}

type quoteExpiryJob struct {
	logg   *logger.Logger
	quotes staleQuoteExpirer
	now    func() time.Time
}

func (j *quoteExpiryJob) Name() string { return "quote-expiry" }

func (j *quoteExpiryJob) Run(ctx context.Context) error {
	expired, err := j.quotes.ExpireStale(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("expire stale quotes: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": expired})
	j.logg.Info(logCtx, "quote expiry loop complete")
	return nil
}
