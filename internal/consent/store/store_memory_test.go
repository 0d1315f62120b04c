package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

func TestInMemoryBackendOperations(t *testing.T) {
	backend := NewMemory()
	ctx := context.Background()

	require.NoError(t, backend.Probe(ctx))

	// Absent key
	_, err := backend.Read(ctx, "cookie-consent")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	// Write and read back
	require.NoError(t, backend.Write(ctx, "cookie-consent", `{"ads":1}`))
	blob, err := backend.Read(ctx, "cookie-consent")
	require.NoError(t, err)
	assert.Equal(t, `{"ads":1}`, blob)

	// Overwrite
	require.NoError(t, backend.Write(ctx, "cookie-consent", `{"ads":0}`))
	blob, err = backend.Read(ctx, "cookie-consent")
	require.NoError(t, err)
	assert.Equal(t, `{"ads":0}`, blob)

	// Remove, including removing an absent key
	require.NoError(t, backend.Remove(ctx, "cookie-consent"))
	_, err = backend.Read(ctx, "cookie-consent")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.NoError(t, backend.Remove(ctx, "cookie-consent"))
}
