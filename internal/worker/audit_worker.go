package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/inventory-service/internal/events"
)

// StartAuditWorker subscribes to product lifecycle events and records the
// ownership and role context of each mutation at debug level.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}

	log := func(msg string) events.EventHandler {
		return func(_ context.Context, event events.Event) error {
			logger.Debug(msg,
				zap.String("event_id", event.ID),
				zap.String("product_id", event.ProductID),
				zap.String("actor_id", event.Actor.UserID),
				zap.String("actor_role", string(event.Actor.Role)),
				zap.Any("payload", event.Payload),
			)
			return nil
		}
	}

	dispatcher.Subscribe(events.EventProductCreated, log("product created"))
	dispatcher.Subscribe(events.EventProductUpdated, log("product updated"))
	dispatcher.Subscribe(events.EventProductDeleted, log("product deleted"))
	dispatcher.Subscribe(events.EventCatalogImported, log("catalog imported"))
}
