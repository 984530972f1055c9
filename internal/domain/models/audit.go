package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
)

// AuditEvent is a single audit trail event published to the event stream
// after realm, user or token state changes. Delivery failures surface as a
// webhook notification error but never roll back the primary write.
type AuditEvent struct {
	EventID   uuid.UUID                `json:"event_id" gorm:"type:uuid;primaryKey"`
	RealmID   uuid.UUID                `json:"realm_id" gorm:"type:uuid;index"`
	UserID    *uuid.UUID               `json:"user_id,omitempty" gorm:"type:uuid;index"`
	ClientID  string                   `json:"client_id,omitempty"`
	ActorID   string                   `json:"actor_id,omitempty"`
	EventType constants.AuditEventType `json:"event_type" gorm:"index"`
	Result    string                   `json:"result"`
	IPAddress string                   `json:"ip_address,omitempty"`
	TraceID   string                   `json:"trace_id,omitempty"`
	Message   string                   `json:"message,omitempty"`
	Metadata  json.RawMessage          `json:"metadata,omitempty"`
	Timestamp time.Time                `json:"timestamp" gorm:"index"`
}

// NewAuditEvent creates an audit event for a realm-scoped action.
func NewAuditEvent(realmID uuid.UUID, eventType constants.AuditEventType, result, message string) *AuditEvent {
	return &AuditEvent{
		EventID:   uuid.New(),
		RealmID:   realmID,
		EventType: eventType,
		Result:    result,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// WithUser sets the subject user of the event.
func (a *AuditEvent) WithUser(userID uuid.UUID) *AuditEvent {
	a.UserID = &userID
	return a
}

// WithClient sets the acting client of the event.
func (a *AuditEvent) WithClient(clientID string) *AuditEvent {
	a.ClientID = clientID
	return a
}

// WithMetadata attaches event-specific payload data.
func (a *AuditEvent) WithMetadata(metadata any) *AuditEvent {
	raw, err := json.Marshal(metadata)
	if err == nil {
		a.Metadata = raw
	}
	return a
}
