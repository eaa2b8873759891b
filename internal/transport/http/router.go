package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"atproto-handle/internal/platform/metrics"
	"atproto-handle/internal/platform/middleware"
	"atproto-handle/pkg/platform/middleware/admin"
	"atproto-handle/pkg/platform/middleware/metadata"
	"atproto-handle/pkg/platform/middleware/requesttime"
)

// HealthCheck reports a dependency fault, e.g. the Redis TTL store.
type HealthCheck func(ctx context.Context) error

// Dependencies is everything the router needs. Metrics and HealthChecks are
// optional.
type Dependencies struct {
	Registry       Registry
	Shredder       Shredder
	ClientMetadata ClientMetadataProvider
	Credential     admin.Credential
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	RequestTimeout time.Duration
	HealthChecks   []HealthCheck
}

// NewRouter wires every endpoint onto a chi router.
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	if deps.RequestTimeout > 0 {
		r.Use(chimw.Timeout(deps.RequestTimeout))
	}

	r.Get("/health", healthHandler(deps.HealthChecks, logger))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	NewHandleHandler(deps.Registry, logger).Register(r, deps.Credential)
	NewAdminHandler(deps.Registry, logger).Register(r, deps.Credential, logger)
	NewShredderHandler(deps.Shredder, deps.ClientMetadata, logger).Register(r)

	return r
}

func healthHandler(checks []HealthCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed", "error", err)
				writeText(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		writeText(w, http.StatusOK, "ok")
	}
}
