package entities

import (
	"time"

	"github.com/google/uuid"
)

// AssistantEventType tells a front end which view to re-render
type AssistantEventType string

const (
	AssistantEventSelectorUpdated AssistantEventType = "selector.updated"
	AssistantEventBookingsUpdated AssistantEventType = "bookings.updated"
	AssistantEventVerification    AssistantEventType = "verification.updated"
)

// AssistantEvent is published whenever assistant state visible to a page changes
type AssistantEvent struct {
	ID        string             `json:"id"`
	Type      AssistantEventType `json:"type"`
	Group     string             `json:"group,omitempty"`
	Payload   interface{}        `json:"payload,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewAssistantEvent creates a new event
func NewAssistantEvent(eventType AssistantEventType, group string, payload interface{}) *AssistantEvent {
	return &AssistantEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Group:     group,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
