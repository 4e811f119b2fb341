package testutils

import (
	"context"
	"sync"

	"github.com/techcorp/kbase/pkg/eventstream"
)

// MockPublisher is a test publisher that records published events
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.Event
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) Publish(_ context.Context, event *eventstream.Event) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)

	return nil
}

// Events returns a snapshot of everything published so far.
func (m *MockPublisher) Events() []*eventstream.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*eventstream.Event, len(m.events))
	copy(out, m.events)

	return out
}

// EventsOfType filters the published events by type.
func (m *MockPublisher) EventsOfType(eventType string) []*eventstream.Event {
	var out []*eventstream.Event
	for _, e := range m.Events() {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}

	return out
}

func (m *MockPublisher) Close() error {
	return nil
}
