package atproto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/bluesky-social/indigo/atproto/auth/oauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atproto-handle/internal/ttlstore"
)

func newTestStore() *AuthStore {
	return NewAuthStore(
		ttlstore.NewMemory[oauth.AuthRequestData](time.Hour),
		ttlstore.NewMemory[oauth.ClientSessionData](time.Hour),
	)
}

func TestPublicClientUsesMetadataURL(t *testing.T) {
	client := NewClient(Config{PublicURL: "https://handles.example.com/"}, newTestStore())

	assert.Equal(t, "https://handles.example.com/client-metadata.json", client.ClientID())

	raw, err := json.Marshal(client.Metadata())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, ClientName, doc["client_name"])
	assert.Equal(t, "https://handles.example.com", doc["client_uri"])
	assert.Equal(t, "https://handles.example.com/client-metadata.json", doc["client_id"])
	assert.Contains(t, doc["redirect_uris"], "https://handles.example.com/shredder/callback")
}

func TestLoopbackClientWithoutPublicURL(t *testing.T) {
	client := NewClient(Config{}, newTestStore())

	assert.True(t, strings.HasPrefix(client.ClientID(), "http://localhost"), client.ClientID())
}

func TestConfigBaseURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:3000", Config{}.BaseURL())
	assert.Equal(t, "https://h.example", Config{PublicURL: "https://h.example/"}.BaseURL())
}
