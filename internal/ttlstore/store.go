// Package ttlstore provides expiring key-value stores used to carry OAuth
// state and session data across the multi-step redirect flow.
//
// An entry older than the store's TTL is logically absent: reads that find
// one delete it and report a miss, and a periodic sweep removes the rest.
// Entries are not durable; a restart drops everything, which only aborts
// logins that were in flight.
package ttlstore

import (
	"context"
	"time"
)

// Store is the contract shared by the in-memory and Redis implementations.
// The in-memory store never returns an error; the Redis store surfaces
// transport faults so callers can log them.
type Store[V any] interface {
	Set(ctx context.Context, key string, value V) error
	Get(ctx context.Context, key string) (V, bool, error)
	Delete(ctx context.Context, key string) error
}

// Clock returns the current time. Injected for deterministic expiry tests.
type Clock func() time.Time

type options struct {
	clock Clock
}

// Option configures a store.
type Option func(*options)

// WithClock overrides time.Now.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
