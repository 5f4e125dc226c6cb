package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTenantCreated EventType = "tenant_created"
	EventTenantUpdated EventType = "tenant_updated"
	EventTenantDeleted EventType = "tenant_deleted"
)

// Event represents a tenant lifecycle change.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, tenantID, actorID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  tenantID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TenantChangedPayload describes the tenant after a create or update.
type TenantChangedPayload struct {
	PreviousTenantID string `json:"previous_tenant_id,omitempty"`
	OwnerID          string `json:"owner_id"`
	Name             string `json:"name"`
}
