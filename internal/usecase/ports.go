package usecase

import (
	"context"
	"log"
	"time"

	"skill-eval/internal/ws"

	"github.com/google/uuid"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type StateStore interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	ConsumeKey(ctx context.Context, key string) (string, bool, error)
}

type EventPublisher interface {
	Publish(userID uuid.UUID, evt ws.Event)
}

func analyticsKey(userID uuid.UUID, name string) string {
	return "analytics:" + userID.String() + ":" + name
}

// changeNotifier is embedded by the write usecases. It drops the caller's
// cached analytics and pushes a live event; both are best effort.
type changeNotifier struct {
	cache     Cache
	publisher EventPublisher
	logger    *log.Logger
}

func (n changeNotifier) skillChanged(ctx context.Context, userID uuid.UUID, evt ws.Event) {
	n.invalidate(ctx, userID)
	if n.publisher != nil {
		n.publisher.Publish(userID, evt)
	}
}

func (n changeNotifier) invalidate(ctx context.Context, userID uuid.UUID) {
	if n.cache == nil {
		return
	}
	if err := n.cache.DeleteByPattern(ctx, analyticsKey(userID, "*")); err != nil && n.logger != nil {
		n.logger.Printf("Analytics cache invalidate failed | user_id=%s err=%v", userID, err)
	}
}

func (n changeNotifier) invalidateAll(ctx context.Context) {
	if n.cache == nil {
		return
	}
	if err := n.cache.DeleteByPattern(ctx, "analytics:*"); err != nil && n.logger != nil {
		n.logger.Printf("Analytics cache invalidate failed | scope=all err=%v", err)
	}
}
