package audit

import (
	"context"
	"time"
)

// Event mirrors the public audit event shape without importing the root
// package (which imports this one).
type Event struct {
	Timestamp time.Time
	EventType string
	UserID    string
	Source    string
	IP        string
	Success   bool
	Error     string
	Metadata  map[string]string
}

// Sink consumes dispatched events.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards every event.
type NoOpSink struct{}

// Emit implements Sink.
func (NoOpSink) Emit(context.Context, Event) {}
