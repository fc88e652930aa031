// Package service holds the application services: the batch lifecycle
// engine with its plan completion watcher, plan/entry/report services,
// authentication, and the periodic timer broadcaster.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sgmi/production-backend/internal/queue"
	"github.com/sgmi/production-backend/internal/ws"
	"go.uber.org/zap"
)

// Broadcaster fans realtime events out to role-filtered audiences.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToBatchOperators(msg ws.Message)
	BroadcastToDirectors(msg ws.Message)
}

// publishEvent mirrors a realtime broadcast onto the durable broker
// queue. Broker failures are logged and swallowed: downstream
// consumers are best-effort and must never fail the originating
// operation.
func publishEvent(ctx context.Context, publisher queue.Publisher, logger *zap.Logger, eventType string, data map[string]any, occurredAt time.Time) {
	if publisher == nil {
		return
	}

	event := queue.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		Data:       data,
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish production event",
			zap.String("event", eventType),
			zap.Error(err),
		)
	}
}
