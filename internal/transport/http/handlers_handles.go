package httptransport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"atproto-handle/internal/claims/models"
	"atproto-handle/internal/domainauth"
	"atproto-handle/pkg/platform/httputil"
	"atproto-handle/pkg/platform/middleware/admin"
	"atproto-handle/pkg/platform/middleware/metadata"
	"atproto-handle/pkg/requestcontext"
)

// ProfileBaseURL is where a bound domain's root redirects.
const ProfileBaseURL = "https://bsky.app/profile/"

//go:generate mockgen -source=handlers_handles.go -destination=mocks/registry_mocks.go -package=mocks Registry

// Registry is the subset of the claim registry the HTTP layer uses.
type Registry interface {
	GetByDomain(domain string) (string, bool)
	List() []models.Binding
	Claim(ctx context.Context, domain, identifier string, privileged bool) (string, error)
	Release(ctx context.Context, domain string) error
	Reload(ctx context.Context) error
}

// HandleHandler serves handle resolution for bound hosts and the claim
// endpoint.
type HandleHandler struct {
	registry Registry
	logger   *slog.Logger
}

func NewHandleHandler(registry Registry, logger *slog.Logger) *HandleHandler {
	return &HandleHandler{registry: registry, logger: logger}
}

// Register mounts handle endpoints. /claim is privileged when the admin
// credential is present.
func (h *HandleHandler) Register(r chi.Router, cred admin.Credential) {
	r.Get("/.well-known/atproto-did", h.HandleWellKnown)
	r.Get("/", h.HandleProfileRedirect)
	r.With(admin.Detect(cred)).Post("/claim", h.HandleClaim)
}

// HandleWellKnown handles GET /.well-known/atproto-did for the request host.
func (h *HandleHandler) HandleWellKnown(w http.ResponseWriter, r *http.Request) {
	host := metadata.Host(r)
	did, ok := h.registry.GetByDomain(host)
	if !ok {
		h.notFound(w, r, host)
		return
	}
	writeText(w, http.StatusOK, did)
}

// HandleProfileRedirect handles GET / by redirecting to the bound profile.
func (h *HandleHandler) HandleProfileRedirect(w http.ResponseWriter, r *http.Request) {
	host := metadata.Host(r)
	did, ok := h.registry.GetByDomain(host)
	if !ok {
		h.notFound(w, r, host)
		return
	}
	http.Redirect(w, r, ProfileBaseURL+did, http.StatusFound)
}

func (h *HandleHandler) notFound(w http.ResponseWriter, r *http.Request, host string) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "lookup for unbound host",
		"host", host,
		"request_id", requestcontext.RequestID(ctx),
	)
	writeText(w, http.StatusNotFound, fmt.Sprintf("User %q not found!", host))
}

type claimRequest struct {
	Domain string `json:"domain"`
	Handle string `json:"handle"`
}

type claimResponse struct {
	Domain string `json:"domain"`
	DID    string `json:"did"`
}

// HandleClaim handles POST /claim.
func (h *HandleHandler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[claimRequest](w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	privileged := requestcontext.Actor(ctx) == requestcontext.ActorAdmin
	did, err := h.registry.Claim(ctx, req.Domain, req.Handle, privileged)
	if err != nil {
		h.logger.WarnContext(ctx, "claim rejected",
			"domain", req.Domain,
			"privileged", privileged,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, claimResponse{
		Domain: domainauth.Normalize(req.Domain),
		DID:    did,
	})
}

func writeText(w http.ResponseWriter, status int, body string) {
	httputil.WriteText(w, status, body)
}
