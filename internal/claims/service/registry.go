// Package service implements the claim registry: the single owner of the
// domain->DID binding set.
package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"atproto-handle/internal/audit"
	"atproto-handle/internal/claims/metrics"
	"atproto-handle/internal/claims/models"
	"atproto-handle/internal/domainauth"
	dErrors "atproto-handle/pkg/domain-errors"
	"atproto-handle/pkg/requestcontext"
)

// Backend persists the full binding set.
type Backend interface {
	Read(ctx context.Context) ([]models.Binding, error)
	Write(ctx context.Context, bindings []models.Binding) error
	Reload(ctx context.Context) error
}

// IdentityResolver turns a handle or DID into a canonical DID.
type IdentityResolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// DomainAuthorizer decides which domains the public may claim.
type DomainAuthorizer interface {
	IsAuthorized(domain string) bool
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Registry keeps the binding set in memory, backed by a Backend.
//
// writeMu serializes every mutation end to end, including identity
// resolution during Claim, so check-then-act sequences cannot interleave.
// Reads only take readMu and never wait on a resolution in flight.
type Registry struct {
	writeMu sync.Mutex
	readMu  sync.RWMutex
	byDom   map[string]string

	backend    Backend
	resolver   IdentityResolver
	authorizer DomainAuthorizer

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	tracer         trace.Tracer
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(r *Registry) {
		r.auditPublisher = publisher
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(r *Registry) {
		r.tracer = tracer
	}
}

// New loads the binding set from backend.
func New(ctx context.Context, backend Backend, resolver IdentityResolver, authorizer DomainAuthorizer, opts ...Option) (*Registry, error) {
	if backend == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "binding backend is required")
	}
	if resolver == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "identity resolver is required")
	}
	if authorizer == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "domain authorizer is required")
	}
	r := &Registry{
		backend:    backend,
		resolver:   resolver,
		authorizer: authorizer,
		logger:     slog.Default(),
		tracer:     otel.Tracer("atproto-handle/claims"),
	}
	for _, opt := range opts {
		opt(r)
	}

	bindings, err := backend.Read(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodePersistence, "failed to load bindings")
	}
	r.swap(models.ToMap(bindings))
	return r, nil
}

// GetByDomain returns the DID bound to domain.
func (r *Registry) GetByDomain(domain string) (string, bool) {
	domain = domainauth.Normalize(domain)
	r.readMu.RLock()
	defer r.readMu.RUnlock()
	did, ok := r.byDom[domain]
	return did, ok
}

// GetDomainByDID returns a domain bound to did by linear scan. When an admin
// bound several domains to one DID, the lexically smallest is returned.
func (r *Registry) GetDomainByDID(did string) (string, bool) {
	r.readMu.RLock()
	defer r.readMu.RUnlock()
	return domainForDID(r.byDom, did)
}

// List returns every binding sorted by domain.
func (r *Registry) List() []models.Binding {
	r.readMu.RLock()
	defer r.readMu.RUnlock()
	return models.FromMap(r.byDom)
}

// Claim binds domain to the DID identifier resolves to.
//
// Errors (by code):
//   - CodeMissingInput: blank domain or identifier
//   - CodeUnauthorized: public claim of a domain no pattern allows
//   - CodeAlreadyClaimed: domain already bound, whatever the DID
//   - CodeResolution: identifier did not resolve
//   - CodeIdentityAlreadyBound: public claim by a DID that holds a domain
//   - CodePersistence: backend write failed; nothing changed
func (r *Registry) Claim(ctx context.Context, domain, identifier string, privileged bool) (did string, err error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "claims.Claim", trace.WithAttributes(
		attribute.String("claims.domain", domain),
		attribute.Bool("claims.privileged", privileged),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
		r.observeClaim(start, err)
	}()

	domain = domainauth.Normalize(domain)
	if domain == "" {
		return "", dErrors.New(dErrors.CodeMissingInput, "domain is required")
	}
	if !privileged && !r.authorizer.IsAuthorized(domain) {
		return "", dErrors.New(dErrors.CodeUnauthorized, "domain is not open for claims")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.snapshot()
	if _, taken := current[domain]; taken {
		return "", dErrors.New(dErrors.CodeAlreadyClaimed, "domain already has a did")
	}

	did, err = r.resolver.Resolve(ctx, identifier)
	if err != nil {
		return "", err
	}

	if !privileged {
		if other, bound := domainForDID(current, did); bound {
			r.logger.InfoContext(ctx, "claim rejected, identity already bound",
				"domain", domain,
				"did", did,
				"bound_domain", other,
				"request_id", requestcontext.RequestID(ctx),
			)
			return "", dErrors.New(dErrors.CodeIdentityAlreadyBound, "identity already has a domain")
		}
	}

	next := cloneMap(current)
	next[domain] = did
	if err := r.commit(ctx, next); err != nil {
		return "", err
	}

	r.logger.InfoContext(ctx, "domain claimed",
		"domain", domain,
		"did", did,
		"privileged", privileged,
		"request_id", requestcontext.RequestID(ctx),
	)
	r.emit(ctx, audit.Event{Action: audit.ActionDomainClaimed, Domain: domain, DID: did})
	return did, nil
}

// Release removes the binding for domain. Releasing an unbound domain is a
// no-op.
func (r *Registry) Release(ctx context.Context, domain string) error {
	domain = domainauth.Normalize(domain)
	if domain == "" {
		return dErrors.New(dErrors.CodeMissingInput, "domain is required")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.snapshot()
	did, ok := current[domain]
	if !ok {
		return nil
	}
	next := cloneMap(current)
	delete(next, domain)
	if err := r.commit(ctx, next); err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.AddReleases(1)
	}
	r.logger.InfoContext(ctx, "domain released",
		"domain", domain,
		"did", did,
		"request_id", requestcontext.RequestID(ctx),
	)
	r.emit(ctx, audit.Event{Action: audit.ActionDomainReleased, Domain: domain, DID: did})
	return nil
}

// ReleaseAllByDID removes every binding pointing at did and returns the
// released domains. No matches is not an error.
func (r *Registry) ReleaseAllByDID(ctx context.Context, did string) ([]string, error) {
	if did == "" {
		return nil, dErrors.New(dErrors.CodeMissingInput, "did is required")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	current := r.snapshot()
	next := make(map[string]string, len(current))
	var released []string
	for domain, bound := range current {
		if bound == did {
			released = append(released, domain)
			continue
		}
		next[domain] = bound
	}
	if len(released) == 0 {
		return nil, nil
	}
	sort.Strings(released)
	if err := r.commit(ctx, next); err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.AddReleases(len(released))
	}
	r.logger.InfoContext(ctx, "released all domains for did",
		"did", did,
		"domains", released,
		"request_id", requestcontext.RequestID(ctx),
	)
	r.emit(ctx, audit.Event{Action: audit.ActionDIDReleased, DID: did, Domains: released})
	return released, nil
}

// Reload asks the backend to re-read its medium and replaces the in-memory
// set. On failure the current set is kept.
func (r *Registry) Reload(ctx context.Context) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if err := r.backend.Reload(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodePersistence, "failed to reload bindings")
	}
	bindings, err := r.backend.Read(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodePersistence, "failed to read bindings")
	}
	r.swap(models.ToMap(bindings))

	r.logger.InfoContext(ctx, "bindings reloaded",
		"count", len(bindings),
		"request_id", requestcontext.RequestID(ctx),
	)
	r.emit(ctx, audit.Event{Action: audit.ActionRegistryReloaded})
	return nil
}

// Len reports how many bindings are held.
func (r *Registry) Len() int {
	r.readMu.RLock()
	defer r.readMu.RUnlock()
	return len(r.byDom)
}

// commit persists next and, only on success, makes it current.
// Caller must hold writeMu.
func (r *Registry) commit(ctx context.Context, next map[string]string) error {
	if err := r.backend.Write(ctx, models.FromMap(next)); err != nil {
		r.logger.ErrorContext(ctx, "failed to persist bindings",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return dErrors.Wrap(err, dErrors.CodePersistence, "failed to save bindings")
	}
	r.swap(next)
	return nil
}

func (r *Registry) swap(next map[string]string) {
	r.readMu.Lock()
	r.byDom = next
	r.readMu.Unlock()
	if r.metrics != nil {
		r.metrics.SetBindings(len(next))
	}
}

// snapshot returns the current map. Only writers replace it and the caller
// holds writeMu, so the map cannot change underneath.
func (r *Registry) snapshot() map[string]string {
	r.readMu.RLock()
	defer r.readMu.RUnlock()
	return r.byDom
}

func (r *Registry) emit(ctx context.Context, event audit.Event) {
	if r.auditPublisher == nil {
		return
	}
	if err := r.auditPublisher.Emit(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (r *Registry) observeClaim(start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObserveClaim(start)
	r.metrics.IncrementClaim(claimOutcome(err))
}

func claimOutcome(err error) string {
	if err == nil {
		return metrics.OutcomeClaimed
	}
	switch dErrors.CodeOf(err) {
	case dErrors.CodeUnauthorized:
		return metrics.OutcomeUnauthorized
	case dErrors.CodeAlreadyClaimed:
		return metrics.OutcomeAlreadyTaken
	case dErrors.CodeIdentityAlreadyBound:
		return metrics.OutcomeIdentityBound
	case dErrors.CodeResolution:
		return metrics.OutcomeUnresolved
	case dErrors.CodePersistence:
		return metrics.OutcomePersistFailed
	default:
		return metrics.OutcomeInvalid
	}
}

func domainForDID(m map[string]string, did string) (string, bool) {
	found := ""
	for domain, bound := range m {
		if bound == did && (found == "" || domain < found) {
			found = domain
		}
	}
	return found, found != ""
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

