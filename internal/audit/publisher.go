// Package audit records domain actions (claims, releases, shredder logins)
// off the request path. Publisher enqueues without blocking and a Worker
// drains the queue into a Sink.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"atproto-handle/pkg/requestcontext"
)

// ErrQueueFull is returned by Emit when the event was dropped.
var ErrQueueFull = errors.New("audit queue full")

const defaultBuffer = 256

// Publisher enriches events with request metadata and queues them.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
	clock  func() time.Time
}

type PublisherOption func(*Publisher)

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan Event, size)
		}
	}
}

func WithClock(clock func() time.Time) PublisherOption {
	return func(p *Publisher) {
		p.clock = clock
	}
}

func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		inbox:  make(chan Event, defaultBuffer),
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit stamps base with an id, time and request metadata, then queues it.
// It never blocks; a full queue drops the event and returns ErrQueueFull.
func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = p.clock()
	}
	if base.RequestID == "" {
		base.RequestID = requestcontext.RequestID(ctx)
	}
	if base.Actor == "" {
		base.Actor = requestcontext.Actor(ctx)
	}
	if base.ClientIP == "" {
		base.ClientIP = requestcontext.ClientIP(ctx)
	}
	if base.Client == "" {
		base.Client = DescribeUserAgent(requestcontext.UserAgent(ctx))
	}

	select {
	case p.inbox <- base:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit event dropped",
			"action", base.Action,
			"request_id", base.RequestID,
		)
		return ErrQueueFull
	}
}

// Events exposes the queue to a Worker.
func (p *Publisher) Events() <-chan Event {
	return p.inbox
}
