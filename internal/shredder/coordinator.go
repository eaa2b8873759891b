// Package shredder runs the self-service flow that lets an identity holder
// release every domain bound to their DID: an OAuth login proves control of
// the DID, and a successful callback triggers the release.
//
// No per-attempt state lives here. The OAuth state and session entries kept
// by the OAuth client are the only record of a login in flight, so an
// expired state is indistinguishable from a forged one.
package shredder

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"atproto-handle/internal/audit"
	"atproto-handle/internal/shredder/metrics"
	dErrors "atproto-handle/pkg/domain-errors"
	"atproto-handle/pkg/requestcontext"
)

//go:generate mockgen -source=coordinator.go -destination=mocks/mocks.go -package=mocks OAuthClient,BindingReleaser,AuditPublisher

// SuccessPath is where a completed login is sent.
const SuccessPath = "/shredder/success"

const defaultCleanupTimeout = 30 * time.Second

// Session identifies the account that completed an OAuth login.
type Session struct {
	DID       string
	SessionID string
}

// OAuthClient runs the authorization-code exchange. It owns the state and
// session entries.
type OAuthClient interface {
	StartAuthFlow(ctx context.Context, identifier string) (string, error)
	ProcessCallback(ctx context.Context, params url.Values) (Session, error)
}

// BindingReleaser removes every binding for a DID.
type BindingReleaser interface {
	ReleaseAllByDID(ctx context.Context, did string) ([]string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Coordinator drives begin/complete login.
type Coordinator struct {
	client   OAuthClient
	releaser BindingReleaser

	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
	cleanupTimeout time.Duration

	cleanups sync.WaitGroup
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(c *Coordinator) {
		c.auditPublisher = publisher
	}
}

// WithCleanupTimeout bounds the background release after a login.
func WithCleanupTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.cleanupTimeout = d
		}
	}
}

func New(client OAuthClient, releaser BindingReleaser, opts ...Option) (*Coordinator, error) {
	if client == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "oauth client is required")
	}
	if releaser == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "binding releaser is required")
	}
	c := &Coordinator{
		client:         client,
		releaser:       releaser,
		logger:         slog.Default(),
		cleanupTimeout: defaultCleanupTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BeginLogin returns the authorization URL to redirect the user to.
//
// Errors: CodeMissingHandle for a blank handle, CodeOAuthCallback when the
// authorization request could not be started.
func (c *Coordinator) BeginLogin(ctx context.Context, handle string) (string, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		c.count(metrics.StageBegin, metrics.OutcomeRejected)
		return "", dErrors.New(dErrors.CodeMissingHandle, "handle is required")
	}

	redirectURL, err := c.client.StartAuthFlow(ctx, handle)
	if err != nil {
		c.count(metrics.StageBegin, metrics.OutcomeFailed)
		c.logger.WarnContext(ctx, "failed to start shredder login",
			"handle", handle,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return "", dErrors.Wrap(err, dErrors.CodeOAuthCallback, "failed to start login")
	}

	c.count(metrics.StageBegin, metrics.OutcomeOK)
	return redirectURL, nil
}

// CompleteLogin finishes the OAuth exchange and returns SuccessPath. The
// release of the DID's bindings runs in the background; its failures are
// logged and counted, never returned.
func (c *Coordinator) CompleteLogin(ctx context.Context, params url.Values) (string, error) {
	session, err := c.client.ProcessCallback(ctx, params)
	if err != nil {
		c.count(metrics.StageCallback, metrics.OutcomeFailed)
		c.logger.WarnContext(ctx, "shredder callback rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return "", dErrors.Wrap(err, dErrors.CodeOAuthCallback, "login could not be completed")
	}
	if session.DID == "" {
		c.count(metrics.StageCallback, metrics.OutcomeFailed)
		return "", dErrors.New(dErrors.CodeOAuthCallback, "login returned no account")
	}

	c.count(metrics.StageCallback, metrics.OutcomeOK)
	c.logger.InfoContext(ctx, "shredder login completed",
		"did", session.DID,
		"request_id", requestcontext.RequestID(ctx),
	)

	c.cleanups.Add(1)
	go c.release(context.WithoutCancel(ctx), session.DID)

	return SuccessPath, nil
}

// Wait blocks until background releases started so far have finished.
func (c *Coordinator) Wait() {
	c.cleanups.Wait()
}

func (c *Coordinator) release(ctx context.Context, did string) {
	defer c.cleanups.Done()
	ctx, cancel := context.WithTimeout(ctx, c.cleanupTimeout)
	defer cancel()

	released, err := c.releaser.ReleaseAllByDID(ctx, did)
	if err != nil {
		if c.metrics != nil {
			c.metrics.IncrementCleanupFailure()
		}
		c.logger.ErrorContext(ctx, "failed to release domains after shredder login",
			"did", did,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	if c.metrics != nil {
		c.metrics.AddReleased(len(released))
	}
	if c.auditPublisher != nil {
		event := audit.Event{Action: audit.ActionShredderLogin, DID: did, Domains: released}
		if err := c.auditPublisher.Emit(ctx, event); err != nil {
			c.logger.WarnContext(ctx, "failed to emit audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}

func (c *Coordinator) count(stage, outcome string) {
	if c.metrics != nil {
		c.metrics.IncrementLogin(stage, outcome)
	}
}
