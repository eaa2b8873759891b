// Package identity turns a user-supplied handle or DID into a canonical DID
// by delegating to the atproto identity directory.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	atid "github.com/bluesky-social/indigo/atproto/identity"
	"github.com/bluesky-social/indigo/atproto/syntax"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	dErrors "atproto-handle/pkg/domain-errors"
	"atproto-handle/pkg/platform/circuit"
	"atproto-handle/pkg/platform/sentinel"
)

//go:generate mockgen -source=resolver.go -destination=mocks/mocks.go -package=mocks HandleResolver,DIDResolver

// DefaultTimeout bounds a single external lookup when no WithTimeout option
// is supplied.
const DefaultTimeout = 10 * time.Second

const didPrefix = "did:"

// HandleResolver maps a handle to the DID it claims.
type HandleResolver interface {
	ResolveHandle(ctx context.Context, handle syntax.Handle) (syntax.DID, error)
}

// DIDResolver fetches the DID document for a DID.
type DIDResolver interface {
	ResolveDID(ctx context.Context, did syntax.DID) (*atid.DIDDocument, error)
}

// Resolver resolves identifiers. It holds no state between calls apart from
// collapsing concurrent lookups of the same identifier. The registry resolves
// under its write lock, so collapsing only pays off for callers that resolve
// outside it.
type Resolver struct {
	handles HandleResolver
	dids    DIDResolver
	timeout time.Duration
	logger  *slog.Logger
	tracer  trace.Tracer
	breaker *circuit.Breaker
	group   singleflight.Group
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTimeout bounds each external lookup. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = d
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Resolver) {
		r.tracer = tracer
	}
}

// WithBreaker fails lookups fast while the directory is unreachable.
// Unknown handles and DIDs do not count as failures.
func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Resolver) {
		r.breaker = b
	}
}

// New constructs a Resolver over the given lookups.
func New(handles HandleResolver, dids DIDResolver, opts ...Option) *Resolver {
	r := &Resolver{
		handles: handles,
		dids:    dids,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		tracer:  otel.Tracer("atproto-handle/identity"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFromDirectory wires a Resolver to the network-backed atproto directory.
func NewFromDirectory(dir *atid.BaseDirectory, opts ...Option) *Resolver {
	return New(dir, dir, opts...)
}

// Resolve returns the canonical DID for a handle or DID.
//
// Errors:
//   - CodeMissingInput when input is blank
//   - CodeResolution when the identifier is malformed or does not resolve
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", dErrors.New(dErrors.CodeMissingInput, "handle or DID is required")
	}

	ctx, span := r.tracer.Start(ctx, "identity.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("identity.input", input))

	key := input
	if !strings.HasPrefix(input, didPrefix) {
		key = strings.ToLower(input)
	}
	// The shared lookup outlives any one caller: it runs detached from the
	// caller's cancellation and is bounded by the resolver timeout instead.
	lookupCtx := ctx
	if r.timeout > 0 {
		lookupCtx = context.WithoutCancel(ctx)
	}
	ch := r.group.DoChan(key, func() (any, error) {
		if strings.HasPrefix(input, didPrefix) {
			return r.resolveDID(lookupCtx, input)
		}
		return r.resolveHandle(lookupCtx, input)
	})

	var (
		v      any
		err    error
		shared bool
	)
	select {
	case res := <-ch:
		v, err, shared = res.Val, res.Err, res.Shared
	case <-ctx.Done():
		err = dErrors.Wrap(ctx.Err(), dErrors.CodeResolution, notResolved(input))
	}
	span.SetAttributes(attribute.Bool("identity.shared", shared))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "resolution failed")
		r.logger.WarnContext(ctx, "identity resolution failed",
			"input", input,
			"error", err,
		)
		return "", err
	}
	did := v.(string)
	span.SetAttributes(attribute.String("identity.did", did))
	return did, nil
}

func (r *Resolver) resolveDID(ctx context.Context, input string) (string, error) {
	did, err := syntax.ParseDID(input)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeResolution, "DID did not resolve")
	}
	var doc *atid.DIDDocument
	err = r.call(ctx, func(ctx context.Context) (err error) {
		doc, err = r.dids.ResolveDID(ctx, did)
		return err
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeResolution, "DID did not resolve")
	}
	if doc == nil {
		return "", dErrors.New(dErrors.CodeResolution, "DID did not resolve")
	}
	return did.String(), nil
}

func (r *Resolver) resolveHandle(ctx context.Context, input string) (string, error) {
	handle, err := syntax.ParseHandle(input)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeResolution, "handle did not resolve")
	}
	var did syntax.DID
	err = r.call(ctx, func(ctx context.Context) (err error) {
		did, err = r.handles.ResolveHandle(ctx, handle.Normalize())
		return err
	})
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeResolution, "handle did not resolve")
	}
	if did == "" {
		return "", dErrors.New(dErrors.CodeResolution, "handle did not resolve")
	}
	return did.String(), nil
}

// call runs one external lookup under the timeout and the breaker.
func (r *Resolver) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.breaker != nil && !r.breaker.Allow() {
		return dErrors.Wrap(sentinel.ErrUnavailable, dErrors.CodeResolution, "identity directory unavailable")
	}
	ctx, cancel := r.bound(ctx)
	defer cancel()

	err := fn(ctx)
	if r.breaker == nil {
		return err
	}
	if err != nil && !isNotFound(err) && !errors.Is(ctx.Err(), context.Canceled) {
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.logger.WarnContext(ctx, "identity directory breaker opened", "breaker", r.breaker.Name(), "error", err)
		}
		return err
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "identity directory breaker closed", "breaker", r.breaker.Name())
	}
	return err
}

func notResolved(input string) string {
	if strings.HasPrefix(input, didPrefix) {
		return "DID did not resolve"
	}
	return "handle did not resolve"
}

func isNotFound(err error) bool {
	return errors.Is(err, atid.ErrHandleNotFound) || errors.Is(err, atid.ErrDIDNotFound)
}

func (r *Resolver) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}
