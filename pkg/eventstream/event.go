package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeDocumentIngested is emitted after a document is durably
	// added to the knowledge base.
	EventTypeDocumentIngested = "kbase.document.ingested"

	// EventTypeIngestFailed is emitted when an ingestion task ends in
	// the error state.
	EventTypeIngestFailed = "kbase.ingest.failed"

	// EventTypeEmbeddingDegraded is emitted when the embedding provider
	// fails and a zero-vector fallback is substituted.
	EventTypeEmbeddingDegraded = "kbase.embedding.degraded"
)

// Event is a transport-neutral payload describing an ingestion-side
// occurrence in the knowledge base.
type Event struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	// Subject identifies what the event is about: a document ID for
	// ingested events, a task ID for failures. May be empty.
	Subject string `json:"subject,omitempty"`

	// Detail carries a human-readable description, e.g. the failure or
	// degradation reason.
	Detail string `json:"detail,omitempty"`
}

// NewEvent builds an event of the given type with a fresh ID and the
// current timestamp.
func NewEvent(eventType, subject, detail string) *Event {
	return &Event{
		SchemaVersion: SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Subject:       subject,
		Detail:        detail,
	}
}
