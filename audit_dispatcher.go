package flexauth

import (
	"context"

	internalaudit "github.com/flexauth/flexauth/internal/audit"
)

// sinkBridge adapts a public AuditSink to the internal dispatcher sink.
type sinkBridge struct {
	sink AuditSink
}

func (b sinkBridge) Emit(ctx context.Context, event internalaudit.Event) {
	b.sink.Emit(ctx, AuditEvent{
		Timestamp: event.Timestamp,
		EventType: event.EventType,
		UserID:    event.UserID,
		Source:    event.Source,
		IP:        event.IP,
		Success:   event.Success,
		Error:     event.Error,
		Metadata:  event.Metadata,
	})
}

func newDispatcher(cfg AuditConfig, sink AuditSink) *internalaudit.Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sinkBridge{sink: sink})
}
