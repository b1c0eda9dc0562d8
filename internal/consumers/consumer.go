package consumers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/atlastrek/tour-backend/pkg/logger"
)

const dedupeTTL = 24 * time.Hour

// MessageHandler processes one decoded message. The bool result reports
// whether the message should be acked; transient failures return false so
// Pub/Sub redelivers.
type MessageHandler interface {
	HandleMessage(ctx context.Context, data []byte) (bool, error)
}

type deduper interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Service drives a Pub/Sub subscription into a handler. Messages are deduped
// on their broker message ID through Redis so at-least-once delivery does not
// double-apply side effects.
type Service struct {
	name    string
	sub     *gcppubsub.Subscriber
	handler MessageHandler
	dedupe  deduper
	logg    *logger.Logger
}

// NewService builds a consumer loop for the named subscription.
func NewService(name string, sub *gcppubsub.Subscriber, handler MessageHandler, dedupe deduper, logg *logger.Logger) (*Service, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("consumer name required")
	}
	if sub == nil {
		return nil, errors.New("subscription required")
	}
	if handler == nil {
		return nil, errors.New("handler required")
	}
	if dedupe == nil {
		return nil, errors.New("dedupe store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Service{
		name:    strings.TrimSpace(name),
		sub:     sub,
		handler: handler,
		dedupe:  dedupe,
		logg:    logg,
	}, nil
}

// Run consumes messages until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.sub.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if s.process(innerCtx, msg.ID, msg.Data) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

func (s *Service) process(ctx context.Context, messageID string, data []byte) bool {
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"consumer":   s.name,
		"message_id": messageID,
	})

	key := s.dedupeKey(messageID)
	fresh, err := s.dedupe.SetNX(logCtx, key, "1", dedupeTTL)
	if err != nil {
		s.logg.Error(logCtx, "dedupe check failed", err)
		return false
	}
	if !fresh {
		s.logg.Info(logCtx, "message already processed")
		return true
	}

	ack, err := s.handler.HandleMessage(logCtx, data)
	if err != nil {
		s.logg.Error(logCtx, "handler error", err)
	}
	if !ack {
		if delErr := s.dedupe.Del(logCtx, key); delErr != nil {
			s.logg.Error(logCtx, "release dedupe key", delErr)
		}
		return false
	}
	return true
}

func (s *Service) dedupeKey(messageID string) string {
	return fmt.Sprintf("consumers:%s:msg:%s", s.name, messageID)
}
