package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/domain/providers"
)

// MemoryEventBus delivers events to subscribers in the same process
type MemoryEventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.AssistantEvent]struct{}
	closed      bool
}

// NewMemoryEventBus creates a new in-process event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.AssistantEvent]struct{}),
	}
}

var _ providers.EventBus = (*MemoryEventBus)(nil)

// Publish implements providers.EventBus. Slow subscribers miss events.
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.AssistantEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber channel full, skipping event")
		}
	}
	return nil
}

// Subscribe implements providers.EventBus
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AssistantEvent, error) {
	eventChan := make(chan *entities.AssistantEvent, subscriberBuffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(eventChan)
		return eventChan, nil
	}
	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.AssistantEvent]struct{})
	}
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[channel][eventChan]; ok {
			delete(b.subscribers[channel], eventChan)
			close(eventChan)
		}
	}()

	return eventChan, nil
}

// Close implements providers.EventBus
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	return nil
}
