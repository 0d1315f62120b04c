package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

func TestFileBackendOperations(t *testing.T) {
	backend := NewFile(t.TempDir())
	ctx := context.Background()

	require.NoError(t, backend.Probe(ctx))

	_, err := backend.Read(ctx, "cookie-consent")
	require.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, backend.Write(ctx, "cookie-consent", `{"analytics":1}`))
	blob, err := backend.Read(ctx, "cookie-consent")
	require.NoError(t, err)
	assert.Equal(t, `{"analytics":1}`, blob)

	require.NoError(t, backend.Remove(ctx, "cookie-consent"))
	_, err = backend.Read(ctx, "cookie-consent")
	require.ErrorIs(t, err, sentinel.ErrNotFound)
	require.NoError(t, backend.Remove(ctx, "cookie-consent"))
}

func TestFileBackendCreatesDirOnWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "consent")
	backend := NewFile(dir)
	ctx := context.Background()

	require.NoError(t, backend.Write(ctx, "cookie-consent", "{}"))

	_, err := os.Stat(filepath.Join(dir, "cookie-consent"))
	require.NoError(t, err)
}

func TestFileBackendProbeFailsOnUnwritablePath(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o500))
	t.Cleanup(func() { _ = os.Chmod(parent, 0o700) })

	backend := NewFile(filepath.Join(parent, "consent"))
	assert.Error(t, backend.Probe(context.Background()))
}

func TestFileBackendLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	backend := NewFile(dir)
	require.NoError(t, backend.Write(context.Background(), "cookie-consent", "{}"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "cookie-consent", entries[0].Name())
}
