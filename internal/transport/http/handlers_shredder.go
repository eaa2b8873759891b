package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"atproto-handle/internal/shredder"
	dErrors "atproto-handle/pkg/domain-errors"
	"atproto-handle/pkg/platform/httputil"
	"atproto-handle/pkg/requestcontext"
)

// SuccessMessage is the body of the shredder confirmation page.
const SuccessMessage = "Login confirmed. Every domain bound to your account is being released."

//go:generate mockgen -source=handlers_shredder.go -destination=mocks/shredder_mocks.go -package=mocks Shredder,ClientMetadataProvider

// Shredder drives the OAuth self-service release flow.
type Shredder interface {
	BeginLogin(ctx context.Context, handle string) (string, error)
	CompleteLogin(ctx context.Context, params url.Values) (string, error)
}

// ClientMetadataProvider returns the OAuth client metadata document.
type ClientMetadataProvider interface {
	Metadata() any
}

type ShredderHandler struct {
	shredder Shredder
	meta     ClientMetadataProvider
	logger   *slog.Logger
}

func NewShredderHandler(s Shredder, meta ClientMetadataProvider, logger *slog.Logger) *ShredderHandler {
	return &ShredderHandler{shredder: s, meta: meta, logger: logger}
}

// Register mounts the shredder flow and the client metadata document.
func (h *ShredderHandler) Register(r chi.Router) {
	r.Get("/client-metadata.json", h.HandleClientMetadata)
	r.Get("/shredder/login", h.HandleLogin)
	r.Get("/shredder/callback", h.HandleCallback)
	r.Get(shredder.SuccessPath, h.HandleSuccess)
}

// HandleClientMetadata handles GET /client-metadata.json.
func (h *ShredderHandler) HandleClientMetadata(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.meta.Metadata())
}

// HandleLogin handles GET /shredder/login?handle=.
func (h *ShredderHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	redirect, err := h.shredder.BeginLogin(ctx, r.URL.Query().Get("handle"))
	if err != nil {
		h.logger.WarnContext(ctx, "shredder login not started",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

// HandleCallback handles GET /shredder/callback. Failures render a plain
// error page rather than JSON since a browser lands here.
func (h *ShredderHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	redirect, err := h.shredder.CompleteLogin(ctx, r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "shredder callback failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		msg := "Login failed"
		if de, ok := dErrors.As(err); ok {
			msg += ": " + de.Message
		}
		writeText(w, dErrors.ToHTTPStatus(dErrors.CodeOf(err)), msg)
		return
	}
	http.Redirect(w, r, redirect, http.StatusFound)
}

// HandleSuccess handles GET /shredder/success.
func (h *ShredderHandler) HandleSuccess(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, SuccessMessage)
}
