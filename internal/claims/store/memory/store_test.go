package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atproto-handle/internal/claims/models"
)

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := New(models.Binding{Domain: "a.example.com", DID: "did:plc:a"})

	got, err := store.Read(ctx)
	require.NoError(t, err)
	got[0].DID = "did:plc:mutated"

	again, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "did:plc:a", again[0].DID)
}

func TestWriteReplacesSet(t *testing.T) {
	ctx := context.Background()
	store := New(models.Binding{Domain: "a.example.com", DID: "did:plc:a"})

	require.NoError(t, store.Write(ctx, []models.Binding{{Domain: "b.example.com", DID: "did:plc:b"}}))
	require.NoError(t, store.Reload(ctx))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Binding{{Domain: "b.example.com", DID: "did:plc:b"}}, got)
}
