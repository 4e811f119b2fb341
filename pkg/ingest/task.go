package ingest

import "time"

// Status is the lifecycle state of an upload task.
//
// The state machine is pending → processing → {completed | error}.
// A task enters processing once its embedding call begins; extraction
// failures move it straight from pending to error. Completed and error
// are terminal: the only way out is removal via ClearFinished.
type Status string

const (
	// StatusPending means the file has been accepted but work has not started.
	StatusPending Status = "pending"

	// StatusProcessing means extraction succeeded and embedding is underway.
	StatusProcessing Status = "processing"

	// StatusCompleted means the document was durably added to the store.
	StatusCompleted Status = "completed"

	// StatusError means extraction, embedding assembly, or storage failed.
	StatusError Status = "error"
)

// Terminal reports whether the status is a terminal state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Task is one tracked attempt to turn a single input file into a
// stored, embedded document.
type Task struct {
	// ID is unique per ingestion attempt.
	ID string `json:"id"`

	// Name is the source file name.
	Name string `json:"name"`

	// Status is the task's current lifecycle state.
	Status Status `json:"status"`

	// Error is the failure message, present only when Status is error.
	Error string `json:"error,omitempty"`

	// CreatedAt is when the file was accepted into the pipeline.
	CreatedAt time.Time `json:"created_at"`
}
