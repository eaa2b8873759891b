// Package admin authenticates the operator credential sent as
// "Authorization: Bearer <key>".
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"atproto-handle/pkg/platform/secrets"
	"atproto-handle/pkg/requestcontext"
)

// Credential is the configured admin secret. Exactly one of Key or KeyHash
// is expected; Public opens RequireAdmin routes to everyone.
type Credential struct {
	Key     string
	KeyHash string
	Public  bool
}

// Verify reports whether r carries the admin credential.
func (c Credential) Verify(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return false
	}
	if c.KeyHash != "" {
		return secrets.Verify(token, c.KeyHash) == nil
	}
	if c.Key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(c.Key)) == 1
}

// Detect marks the request actor as admin when the credential is valid and
// never rejects.
func Detect(cred Credential) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cred.Verify(r) {
				r = r.WithContext(requestcontext.WithActor(r.Context(), requestcontext.ActorAdmin))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests without the credential with 401
// "Unauthorized" unless the deployment is public. Public requests pass
// through as ActorPublic, so handlers can still tell them apart.
func RequireAdmin(cred Credential, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(cred, cred.Public, logger)
}

// RequireVerified is RequireAdmin without the public pass-through. It guards
// operations that must never run anonymously.
func RequireVerified(cred Credential, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(cred, false, logger)
}

func guard(cred Credential, allowPublic bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if cred.Verify(r) {
				next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, requestcontext.ActorAdmin)))
				return
			}
			if allowPublic {
				next.ServeHTTP(w, r)
				return
			}
			logger.WarnContext(ctx, "admin credential mismatch",
				"path", r.URL.Path,
				"request_id", requestcontext.RequestID(ctx),
			)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
		})
	}
}
