package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const TypeKnowledgeIngestRequested = "KNOWLEDGE_INGEST_REQUESTED"

// NewKnowledgeIngestRequested marks a batch of documents queued for
// embedding and storage.
func NewKnowledgeIngestRequested(collection string, count int) Event {
	return BaseEvent{
		Type: TypeKnowledgeIngestRequested,
		Data: map[string]interface{}{
			"collection": collection,
			"count":      count,
		},
		OccurredAt: time.Now(),
	}
}
