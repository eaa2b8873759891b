package httptransport

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"atproto-handle/internal/claims/models"
	dErrors "atproto-handle/pkg/domain-errors"
	"atproto-handle/pkg/platform/httputil"
	"atproto-handle/pkg/platform/middleware/admin"
	"atproto-handle/pkg/requestcontext"
)

// AdminHandler serves operator endpoints behind the admin credential.
type AdminHandler struct {
	registry Registry
	logger   *slog.Logger
}

func NewAdminHandler(registry Registry, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{registry: registry, logger: logger}
}

// Register mounts admin endpoints. A public deployment opens the group
// guarded by RequireAdmin; releasing a binding always needs the credential.
func (h *AdminHandler) Register(r chi.Router, cred admin.Credential, logger *slog.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdmin(cred, logger))
		r.Post("/add", h.HandleAdd)
		r.Get("/reload", h.HandleReload)
		r.Get("/domains", h.HandleList)
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireVerified(cred, logger))
		r.Delete("/domains/{domain}", h.HandleRelease)
	})
}

type addRequest struct {
	Domain string `json:"domain"`
	DID    string `json:"did"`
}

// HandleAdd handles POST /add. The claim is privileged only for a verified
// admin; on a public deployment anonymous callers get the public claim rules.
func (h *AdminHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[addRequest](w, r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(req.Domain) == "" || strings.TrimSpace(req.DID) == "" {
		writeText(w, http.StatusBadRequest, "Missing domain or did")
		return
	}

	privileged := requestcontext.Actor(ctx) == requestcontext.ActorAdmin
	if _, err := h.registry.Claim(ctx, req.Domain, req.DID, privileged); err != nil {
		h.logger.ErrorContext(ctx, "failed to add did",
			"domain", req.Domain,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	writeText(w, http.StatusOK, "Added did")
}

// HandleReload handles GET /reload.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.registry.Reload(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to reload db",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		writeText(w, http.StatusInternalServerError, "Failed to reload db")
		return
	}
	writeText(w, http.StatusOK, "Reloaded db")
}

type listResponse struct {
	Bindings []models.Binding `json:"bindings"`
	Count    int              `json:"count"`
}

// HandleList handles GET /domains.
func (h *AdminHandler) HandleList(w http.ResponseWriter, _ *http.Request) {
	bindings := h.registry.List()
	if bindings == nil {
		bindings = []models.Binding{}
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Bindings: bindings, Count: len(bindings)})
}

// HandleRelease handles DELETE /domains/{domain}. Releasing an unbound
// domain succeeds.
func (h *AdminHandler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	domain := chi.URLParam(r, "domain")
	if strings.TrimSpace(domain) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeMissingInput, "domain is required"))
		return
	}
	if err := h.registry.Release(ctx, domain); err != nil {
		h.logger.ErrorContext(ctx, "failed to release domain",
			"domain", domain,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
