package subscribers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/pkg/db"
	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

type subscriberRepository interface {
	Create(ctx context.Context, subscriber *models.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscriber, error)
	List(ctx context.Context, input ListSubscribersInput) ([]models.Subscriber, error)
}

type analyticsRecorder interface {
	Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error
}

// SubscribeInput is the public newsletter signup form.
type SubscribeInput struct {
	Email  string  `json:"email" validate:"required,email,max=320"`
	Source *string `json:"source" validate:"omitempty,max=100"`
}

// ListSubscribersInput captures the admin list filters.
type ListSubscribersInput struct {
	Pagination pagination.Params
}

// SubscriberDTO is the projection of a mailing-list entry.
type SubscriberDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Source    *string   `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriberListResult bundles one page with the next cursor.
type SubscriberListResult struct {
	Subscribers []SubscriberDTO `json:"subscribers"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}

// Service exposes newsletter subscriber operations.
type Service interface {
	Subscribe(ctx context.Context, input SubscribeInput) (*SubscriberDTO, error)
	List(ctx context.Context, input ListSubscribersInput) (*SubscriberListResult, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo      subscriberRepository
	analytics analyticsRecorder
	logg      *logger.Logger
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo      subscriberRepository
	Analytics analyticsRecorder
	Logger    *logger.Logger
}

// NewService builds the subscriber service.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("subscriber repository required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: p.Repo, analytics: p.Analytics, logg: p.Logger}, nil
}

// Subscribe is idempotent on email. A duplicate signup returns the existing
// entry and does not emit a second analytics event.
func (s *service) Subscribe(ctx context.Context, input SubscribeInput) (*SubscriberDTO, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	subscriber := &models.Subscriber{Email: email, Source: input.Source}
	err := s.repo.Create(ctx, subscriber)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_subscribers_email") {
			existing, findErr := s.repo.FindByEmail(ctx, email)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, findErr, "load subscriber")
			}
			return dtoFromModel(existing), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subscriber")
	}

	s.record(ctx, enums.AnalyticsEventSubscriberAdded, map[string]string{
		"subscriber_id": subscriber.ID.String(),
	})

	return dtoFromModel(subscriber), nil
}

func (s *service) List(ctx context.Context, input ListSubscribersInput) (*SubscriberListResult, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscribers")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	result := &SubscriberListResult{Subscribers: make([]SubscriberDTO, 0, len(rows))}
	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Subscribers = append(result.Subscribers, *dtoFromModel(&rows[i]))
	}
	return result, nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "subscriber not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subscriber")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete subscriber")
	}

	s.record(ctx, enums.AnalyticsEventSubscriberRemoved, map[string]string{
		"subscriber_id": id.String(),
	})
	return nil
}

func (s *service) record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.Record(ctx, event, properties); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("record %s: %v", event, err))
	}
}

func dtoFromModel(sub *models.Subscriber) *SubscriberDTO {
	return &SubscriberDTO{
		ID:        sub.ID,
		Email:     sub.Email,
		Source:    sub.Source,
		CreatedAt: sub.CreatedAt,
	}
}
