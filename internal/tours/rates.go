package tours

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/internal/pricing"
	"github.com/atlastrek/tour-backend/pkg/config"
	"github.com/atlastrek/tour-backend/pkg/db/models"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type rateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RateCalendarKey(tourID string) string
}

type calendarTourLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tour, error)
}

// RateCache serves tour rate calendars, generating on miss and caching the
// materialized rows in Redis for the configured TTL.
type RateCache struct {
	repo  calendarTourLoader
	store rateStore
	cfg   config.RatesConfig
	logg  *logger.Logger
	now   func() time.Time
}

// NewRateCache builds the rate calendar cache.
func NewRateCache(repo calendarTourLoader, store rateStore, cfg config.RatesConfig, logg *logger.Logger) (*RateCache, error) {
	if repo == nil {
		return nil, fmt.Errorf("tour repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &RateCache{repo: repo, store: store, cfg: cfg, logg: logg, now: time.Now}, nil
}

// Calendar returns the rate rows for a tour, from cache when warm.
func (c *RateCache) Calendar(ctx context.Context, tourID uuid.UUID) ([]pricing.RateRow, error) {
	if c.store != nil {
		cached, err := c.store.Get(ctx, c.store.RateCalendarKey(tourID.String()))
		if err == nil {
			var rows []pricing.RateRow
			if jsonErr := json.Unmarshal([]byte(cached), &rows); jsonErr == nil {
				return rows, nil
			}
			// A corrupt entry falls through to regeneration.
		} else if !errors.Is(err, redislib.Nil) {
			c.logg.Warn(ctx, fmt.Sprintf("rate cache read failed: %v", err))
		}
	}

	rows, err := c.generate(ctx, tourID)
	if err != nil {
		return nil, err
	}

	if c.store != nil {
		payload, err := json.Marshal(rows)
		if err == nil {
			if err := c.store.Set(ctx, c.store.RateCalendarKey(tourID.String()), string(payload), c.cfg.CacheTTL); err != nil {
				c.logg.Warn(ctx, fmt.Sprintf("rate cache write failed: %v", err))
			}
		}
	}
	return rows, nil
}

// Warm regenerates and re-caches the calendar, used by the scheduled warm
// job so public reads rarely pay the generation cost.
func (c *RateCache) Warm(ctx context.Context, tourID uuid.UUID) error {
	rows, err := c.generate(ctx, tourID)
	if err != nil {
		return err
	}
	if c.store == nil {
		return nil
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rate calendar: %w", err)
	}
	return c.store.Set(ctx, c.store.RateCalendarKey(tourID.String()), string(payload), c.cfg.CacheTTL)
}

// Invalidate drops the cached calendar after a price-table change.
func (c *RateCache) Invalidate(ctx context.Context, tourID uuid.UUID) {
	if c.store == nil {
		return
	}
	if err := c.store.Del(ctx, c.store.RateCalendarKey(tourID.String())); err != nil {
		c.logg.Warn(ctx, fmt.Sprintf("rate cache invalidation failed: %v", err))
	}
}

func (c *RateCache) generate(ctx context.Context, tourID uuid.UUID) ([]pricing.RateRow, error) {
	tour, err := c.repo.FindByID(ctx, tourID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tour not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tour")
	}

	table := pricing.PriceTable{}
	for _, rate := range tour.SeasonRates {
		table[rate.Season] = append(table[rate.Season], pricing.CostEntry{
			Category: rate.Category,
			Cost:     rate.Price,
		})
	}

	start, end := pricing.DefaultWindow(c.now(), c.cfg.WindowDays)
	rows := pricing.GenerateRateCalendar(table, tour.DurationDays, start, end)
	if rows == nil {
		rows = []pricing.RateRow{}
	}
	return rows, nil
}
