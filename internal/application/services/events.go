package services

import (
	"context"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
	"github.com/zatekoja/chikitsamitra/internal/infrastructure/observability"
)

// publishEvent sends event on the assistant channel. A nil bus is allowed;
// failures are logged and never reach the caller.
func publishEvent(ctx context.Context, bus providers.EventBus, event *entities.AssistantEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, providers.EventChannelAssistant, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("event_type", string(event.Type)).
			Msg("failed to publish assistant event")
	}
}
