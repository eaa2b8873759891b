package admin

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atproto-handle/pkg/platform/secrets"
	"atproto-handle/pkg/requestcontext"
)

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/reload", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestCredentialVerify(t *testing.T) {
	hash, err := secrets.Hash("hashed-key")
	require.NoError(t, err)

	tests := []struct {
		name  string
		cred  Credential
		token string
		want  bool
	}{
		{name: "plain key matches", cred: Credential{Key: "k"}, token: "k", want: true},
		{name: "plain key mismatch", cred: Credential{Key: "k"}, token: "x", want: false},
		{name: "missing header", cred: Credential{Key: "k"}, token: "", want: false},
		{name: "hash matches", cred: Credential{KeyHash: hash}, token: "hashed-key", want: true},
		{name: "hash mismatch", cred: Credential{KeyHash: hash}, token: "nope", want: false},
		{name: "nothing configured", cred: Credential{}, token: "anything", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cred.Verify(request(tt.token)))
		})
	}

	t.Run("non bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic k")
		assert.False(t, Credential{Key: "k"}.Verify(req))
	})
}

func TestRequireAdmin(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var actor string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = requestcontext.Actor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("rejects without credential", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(Credential{Key: "k"}, logger)(next).ServeHTTP(rec, request(""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Unauthorized", rec.Body.String())
	})

	t.Run("admits admin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(Credential{Key: "k"}, logger)(next).ServeHTTP(rec, request("k"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, requestcontext.ActorAdmin, actor)
	})

	t.Run("public deployment admits anyone as public actor", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdmin(Credential{Key: "k", Public: true}, logger)(next).ServeHTTP(rec, request(""))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, requestcontext.ActorPublic, actor)
	})
}

func TestRequireVerified(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	cred := Credential{Key: "k", Public: true}

	t.Run("public deployment still rejects anonymous requests", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		RequireVerified(cred, logger)(next).ServeHTTP(rec, request(""))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("admits the credential", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		RequireVerified(cred, logger)(next).ServeHTTP(rec, request("k"))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, called)
	})
}

func TestDetect(t *testing.T) {
	var actor string
	h := Detect(Credential{Key: "k"})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		actor = requestcontext.Actor(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), request("k"))
	assert.Equal(t, requestcontext.ActorAdmin, actor)

	h.ServeHTTP(httptest.NewRecorder(), request("wrong"))
	assert.Equal(t, requestcontext.ActorPublic, actor)
}
