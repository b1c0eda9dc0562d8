package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/atlastrek/tour-backend/pkg/logger"
)

type activeTourLister interface {
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

type calendarWarmer interface {
	Warm(ctx context.Context, tourID uuid.UUID) error
}

// RateWarmJobParams configure the rate calendar warm job.
type RateWarmJobParams struct {
	Logger *logger.Logger
	Tours  activeTourLister
	Rates  calendarWarmer
}

// NewRateWarmJob builds the cron job that pre-generates rate calendars for
// every active tour so public reads stay warm.
func NewRateWarmJob(params RateWarmJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Tours == nil {
		return nil, fmt.Errorf("tour lister required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("rate warmer required")
	}
	return &rateWarmJob{
		logg:  params.Logger,
		tours: params.Tours,
		rates: params.Rates,
	}, nil
}

type rateWarmJob struct {
	logg  *logger.Logger
	tours activeTourLister
	rates calendarWarmer
}

func (j *rateWarmJob) Name() string { return "rate-warm" }

// Run warms every active tour, collecting per-tour failures instead of
// aborting so one bad price table does not starve the rest.
func (j *rateWarmJob) Run(ctx context.Context) error {
	ids, err := j.tours.ListActiveIDs(ctx)
	if err != nil {
		return fmt.Errorf("list active tours: %w", err)
	}

	var errs []error
	warmed := 0
	for _, id := range ids {
		if err := j.rates.Warm(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("warm tour %s: %w", id, err))
			continue
		}
		warmed++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{"warmed": warmed, "failed": len(errs)})
	j.logg.Info(logCtx, "rate warm loop complete")
	return multierr.Combine(errs...)
}
