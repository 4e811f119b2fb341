// Package eventstream publishes knowledge-base lifecycle events to an
// event stream backend.
package eventstream

import "context"

// Publisher publishes events to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
