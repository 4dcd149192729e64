package service

import (
	"context"
	"time"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/queue"
)

// PublishFunc sends an audit event to the broker.  Services hold one so
// tests can run without RabbitMQ; a nil publisher disables auditing.
type PublishFunc func(ctx context.Context, event queue.EntityChangedEvent) error

// emit fires an audit event and drops any publish error.  Mutations
// must succeed even when the broker is unreachable.
func emit(ctx context.Context, publish PublishFunc, domain, action string, entityID, actorID uint64) {
	if publish == nil {
		return
	}
	_ = publish(ctx, queue.EntityChangedEvent{
		Domain:     domain,
		Action:     action,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	})
}
