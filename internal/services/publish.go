package services

import (
	"context"
	"log/slog"

	"github.com/alpha-aviation/enrollment-service/internal/events"
)

// publish never fails the caller; a lost event is only logged.
func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "type", event.Type, "error", err)
	}
}
