package audit

import (
	"context"
	"log/slog"
)

// Sink persists or forwards audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and hands them to a Sink.
// Sink failures are logged and the event is dropped.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled, then flushes whatever is
// still buffered. It returns nil on shutdown.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush(context.WithoutCancel(ctx))
			return nil
		case event := <-w.inbox:
			w.write(ctx, event)
		}
	}
}

func (w *Worker) flush(ctx context.Context) {
	for {
		select {
		case event := <-w.inbox:
			w.write(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) write(ctx context.Context, event Event) {
	if err := w.sink.Write(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to write audit event",
			"action", event.Action,
			"event_id", event.ID,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}
