package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.opentelemetry.io/otel"

	"atproto-handle/internal/audit"
	claimsmetrics "atproto-handle/internal/claims/metrics"
	"atproto-handle/internal/claims/service"
	filestore "atproto-handle/internal/claims/store/file"
	pgstore "atproto-handle/internal/claims/store/postgres"
	"atproto-handle/internal/domainauth"
	"atproto-handle/internal/identity"
	"atproto-handle/internal/platform/config"
	"atproto-handle/internal/platform/metrics"
	platformredis "atproto-handle/internal/platform/redis"
	"atproto-handle/internal/shredder"
	"atproto-handle/internal/shredder/atproto"
	shreddermetrics "atproto-handle/internal/shredder/metrics"
	httptransport "atproto-handle/internal/transport/http"
	"atproto-handle/internal/ttlstore"
	"atproto-handle/pkg/platform/circuit"
	"atproto-handle/pkg/platform/middleware/admin"
)

const (
	userAgent     = "atproto-handle"
	statePrefix   = "atproto-handle:oauth:state:"
	sessionPrefix = "atproto-handle:oauth:session:"
)

type worker func(ctx context.Context) error

type application struct {
	router      http.Handler
	coordinator *shredder.Coordinator
	workers     []worker
	closers     []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build wires every component. On failure the closers registered so far
// run before the error is returned.
func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	app := &application{}
	ok := false
	defer func() {
		if !ok {
			app.close()
		}
	}()

	promReg := metrics.NewRegistry()
	httpMetrics := metrics.New(promReg)

	publisher := audit.NewPublisher(audit.WithPublisherLogger(log))
	sink, err := buildAuditSink(ctx, cfg, log, app)
	if err != nil {
		return nil, err
	}
	app.workers = append(app.workers, audit.NewWorker(sink, publisher.Events(), log).Run)

	var healthChecks []httptransport.HealthCheck
	states, sessions, err := buildTTLStores(ctx, cfg, httpMetrics, app, &healthChecks)
	if err != nil {
		return nil, err
	}

	backend, err := buildBackend(ctx, cfg, app, &healthChecks)
	if err != nil {
		return nil, err
	}

	matcher, err := domainauth.New(cfg.Claims.AllowedDomains)
	if err != nil {
		return nil, fmt.Errorf("allowed domains: %w", err)
	}
	resolver := identity.NewFromDirectory(
		identity.NewBaseDirectory(userAgent, cfg.Identity.ResolveTimeout),
		identity.WithLogger(log),
		identity.WithTimeout(cfg.Identity.ResolveTimeout),
		identity.WithTracer(otel.Tracer("atproto-handle/identity")),
		identity.WithBreaker(circuit.New("identity-directory",
			circuit.WithFailureThreshold(cfg.Identity.BreakerThreshold),
			circuit.WithCooldown(cfg.Identity.BreakerCooldown),
		)),
	)

	registry, err := service.New(ctx, backend, resolver, matcher,
		service.WithLogger(log),
		service.WithMetrics(claimsmetrics.New(promReg)),
		service.WithAuditPublisher(publisher),
		service.WithTracer(otel.Tracer("atproto-handle/claims")),
	)
	if err != nil {
		return nil, fmt.Errorf("load bindings: %w", err)
	}
	log.Info("bindings loaded", "count", registry.Len(), "backend", cfg.Claims.Backend)

	oauthClient := atproto.NewClient(atproto.Config{PublicURL: cfg.OAuth.PublicURL}, atproto.NewAuthStore(states, sessions))
	coordinator, err := shredder.New(oauthClient, registry,
		shredder.WithLogger(log),
		shredder.WithMetrics(shreddermetrics.New(promReg)),
		shredder.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}
	app.coordinator = coordinator
	log.Info("oauth client configured", "client_id", oauthClient.ClientID())

	app.router = httptransport.NewRouter(httptransport.Dependencies{
		Registry:       registry,
		Shredder:       coordinator,
		ClientMetadata: oauthClient,
		Credential: admin.Credential{
			Key:     cfg.Auth.APIKey,
			KeyHash: cfg.Auth.APIKeyHash,
			Public:  cfg.Auth.IsPublic,
		},
		Metrics:        httpMetrics,
		Logger:         log,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   healthChecks,
	})
	ok = true
	return app, nil
}

func buildAuditSink(ctx context.Context, cfg *config.Config, log *slog.Logger, app *application) (audit.Sink, error) {
	if len(cfg.Audit.KafkaBrokers) == 0 {
		return audit.NewLogSink(log), nil
	}
	sink, err := audit.NewKafkaSink(ctx, cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("audit kafka sink: %w", err)
	}
	app.closers = append(app.closers, sink.Close)
	log.Info("audit events published to kafka", "topic", cfg.Audit.KafkaTopic)
	return sink, nil
}

func buildTTLStores(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
	app *application,
	checks *[]httptransport.HealthCheck,
) (ttlstore.Store[oauth.AuthRequestData], ttlstore.Store[oauth.ClientSessionData], error) {
	if cfg.OAuth.StoreBackend == config.BackendRedis {
		client, err := platformredis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		app.closers = append(app.closers, func() { _ = client.Close() })
		*checks = append(*checks, client.Health)
		return ttlstore.NewRedis[oauth.AuthRequestData](client.Client, statePrefix, cfg.OAuth.StateTTL),
			ttlstore.NewRedis[oauth.ClientSessionData](client.Client, sessionPrefix, cfg.OAuth.SessionTTL),
			nil
	}

	states := ttlstore.NewMemory[oauth.AuthRequestData](cfg.OAuth.StateTTL)
	sessions := ttlstore.NewMemory[oauth.ClientSessionData](cfg.OAuth.SessionTTL)
	m.RegisterGauge("atproto_handle_oauth_state_entries", "Entries held by the OAuth state store",
		func() float64 { return float64(states.Len()) })
	m.RegisterGauge("atproto_handle_oauth_session_entries", "Entries held by the OAuth session store",
		func() float64 { return float64(sessions.Len()) })
	app.workers = append(app.workers, states.Run, sessions.Run)
	return states, sessions, nil
}

func buildBackend(ctx context.Context, cfg *config.Config, app *application, checks *[]httptransport.HealthCheck) (service.Backend, error) {
	if cfg.Claims.Backend == config.BackendPostgres {
		db, err := sql.Open("pgx", cfg.Claims.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		app.closers = append(app.closers, func() { _ = db.Close() })
		if err := db.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		store := pgstore.New(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		*checks = append(*checks, db.PingContext)
		return store, nil
	}
	store, err := filestore.New(cfg.Claims.File)
	if err != nil {
		return nil, fmt.Errorf("open bindings file: %w", err)
	}
	return store, nil
}
