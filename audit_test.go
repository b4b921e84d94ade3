package flexauth

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestChannelSink(t *testing.T) {
	sink := NewChannelSink(4)
	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: AuditTokenAuth,
		UserID:    "42",
		Success:   true,
	}

	sink.Emit(context.Background(), event)

	select {
	case got := <-sink.Events():
		if got.EventType != AuditTokenAuth || got.UserID != "42" || !got.Success {
			t.Fatalf("event = %+v", got)
		}
	default:
		t.Fatal("event not buffered")
	}
}

func TestChannelSinkRespectsContext(t *testing.T) {
	sink := NewChannelSink(1)
	sink.Emit(context.Background(), AuditEvent{EventType: AuditTokenAuth})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Buffer is full; a cancelled context must not block.
	done := make(chan struct{})
	go func() {
		sink.Emit(ctx, AuditEvent{EventType: AuditTokenAuth})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a cancelled context")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		EventType: AuditSessionAuth,
		UserID:    "42",
		Source:    "cookie",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{
		EventType: AuditTokenAuth,
		Success:   false,
		Error:     "invalid token",
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first AuditEvent
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("line not valid JSON: %v", err)
	}
	if first.EventType != AuditSessionAuth || first.UserID != "42" || first.Source != "cookie" {
		t.Fatalf("first = %+v", first)
	}

	var second AuditEvent
	if err := json.Unmarshal(lines[1], &second); err != nil {
		t.Fatalf("line not valid JSON: %v", err)
	}
	if second.Error != "invalid token" || second.Success {
		t.Fatalf("second = %+v", second)
	}
}

func TestNoOpSink(t *testing.T) {
	NoOpSink{}.Emit(context.Background(), AuditEvent{EventType: AuditTokenIssued})
}
