package activity

import (
	"strings"
	"time"
)

// Event is a normalized activity record emitted by dashboard services.
type Event struct {
	Verb           string         `json:"verb"`
	ActorID        string         `json:"actorId,omitempty"`
	UserID         string         `json:"userId,omitempty"`
	TenantID       string         `json:"tenantId,omitempty"`
	ObjectType     string         `json:"objectType"`
	ObjectID       string         `json:"objectId"`
	Channel        string         `json:"channel,omitempty"`
	DefinitionCode string         `json:"definitionCode,omitempty"`
	Recipients     []string       `json:"recipients,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

// Valid reports whether the event carries the fields sinks require.
func (e Event) Valid() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// NormalizeEvent trims identifiers and copies the metadata and recipients so
// hooks cannot mutate the caller's values. A zero OccurredAt is set to now.
func NormalizeEvent(evt Event) Event {
	evt.Verb = strings.TrimSpace(evt.Verb)
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.TenantID = strings.TrimSpace(evt.TenantID)
	evt.ObjectType = strings.TrimSpace(evt.ObjectType)
	evt.ObjectID = strings.TrimSpace(evt.ObjectID)
	evt.Channel = strings.TrimSpace(evt.Channel)
	evt.DefinitionCode = strings.TrimSpace(evt.DefinitionCode)
	if evt.Metadata != nil {
		meta := make(map[string]any, len(evt.Metadata))
		for key, value := range evt.Metadata {
			meta[key] = value
		}
		evt.Metadata = meta
	}
	if evt.Recipients != nil {
		evt.Recipients = append([]string(nil), evt.Recipients...)
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	return evt
}
