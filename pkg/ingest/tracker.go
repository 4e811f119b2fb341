package ingest

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Tracker coordinates the shared task list for concurrent ingestion
// attempts. All methods are safe for concurrent use; callers only ever
// see copies of tasks, never the tracked entries themselves.
type Tracker struct {
	mu sync.Mutex

	// tasks is kept newest first.
	tasks []*Task
}

// NewTracker creates an empty task tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Create registers a new task in the pending state and returns its
// snapshot. Task IDs are unique for the tracker's lifetime.
func (t *Tracker) Create(name string) Task {
	task := &Task{
		ID:        uuid.NewString(),
		Name:      name,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.tasks = append([]*Task{task}, t.tasks...)

	return *task
}

// Tasks returns a snapshot of all tasks, newest first.
func (t *Tracker) Tasks() []Task {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks := make([]Task, len(t.tasks))
	for i, task := range t.tasks {
		tasks[i] = *task
	}

	return tasks
}

// Get returns a snapshot of the task with the given id.
func (t *Tracker) Get(id string) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task := t.find(id); task != nil {
		return *task, true
	}

	return Task{}, false
}

// ClearFinished removes all tasks in a terminal state and returns how
// many were removed. Pending and processing tasks are never touched.
func (t *Tracker) ClearFinished() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.tasks[:0]
	removed := 0
	for _, task := range t.tasks {
		if task.Status.Terminal() {
			removed++
			continue
		}
		kept = append(kept, task)
	}
	t.tasks = kept

	return removed
}

// markProcessing transitions a pending task to processing.
func (t *Tracker) markProcessing(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task := t.find(id); task != nil && task.Status == StatusPending {
		task.Status = StatusProcessing
	}
}

// markCompleted transitions a non-terminal task to completed.
func (t *Tracker) markCompleted(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task := t.find(id); task != nil && !task.Status.Terminal() {
		task.Status = StatusCompleted
	}
}

// markError transitions a non-terminal task to error with a message.
func (t *Tracker) markError(id, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if task := t.find(id); task != nil && !task.Status.Terminal() {
		task.Status = StatusError
		task.Error = message
	}
}

// find returns the tracked task with the given id. Callers must hold mu.
func (t *Tracker) find(id string) *Task {
	for _, task := range t.tasks {
		if task.ID == id {
			return task
		}
	}

	return nil
}
