package audit

import (
	"context"
	"log/slog"
	"sync"
)

// LogSink writes each event as one structured log line.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Write(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit",
		"event_id", event.ID,
		"action", event.Action,
		"domain", event.Domain,
		"did", event.DID,
		"domains", event.Domains,
		"actor", event.Actor,
		"request_id", event.RequestID,
		"client_ip", event.ClientIP,
		"client", event.Client,
		"timestamp", event.Timestamp,
	)
	return nil
}

// MemorySink keeps events in memory. Used by tests and local runs.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything written so far.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
