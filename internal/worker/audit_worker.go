package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/bazaarhq/marketplace/internal/events"
	"github.com/bazaarhq/marketplace/internal/observability"
)

// StartAuditWorker subscribes audit handlers for tenant lifecycle events.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) {
	if dispatcher == nil {
		return
	}
	handler := func(_ context.Context, event events.Event) error {
		metrics.RecordTenantEvent(string(event.Type))
		logger.Info("tenant event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("tenant_id", event.TenantID),
			zap.String("actor_id", event.ActorID),
			zap.Any("payload", event.Payload),
		)
		return nil
	}
	for _, t := range []events.EventType{events.EventTenantCreated, events.EventTenantUpdated, events.EventTenantDeleted} {
		dispatcher.Subscribe(t, handler)
	}
}
