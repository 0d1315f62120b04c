package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

// FileBackend persists each key as a file inside a single directory, the
// process-local analog of an origin-scoped web storage area.
type FileBackend struct {
	dir string
}

// NewFile constructs a file backend rooted at dir. The directory is created
// on first write, not here: construction never touches the filesystem so the
// probe is the single availability check.
func NewFile(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

// Probe verifies the directory can exist and be written to.
func (b *FileBackend) Probe(_ context.Context) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return fmt.Errorf("probe consent dir: %w", err)
	}
	probe := filepath.Join(b.dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o600); err != nil {
		return fmt.Errorf("probe consent dir: %w", err)
	}
	_ = os.Remove(probe)
	return nil
}

func (b *FileBackend) Read(_ context.Context, key string) (string, error) {
	raw, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("read %q: %w", key, err)
	}
	return string(raw), nil
}

func (b *FileBackend) Write(_ context.Context, key, value string) error {
	if err := os.MkdirAll(b.dir, 0o700); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	// Write-then-rename so a crash mid-write never leaves a torn blob behind.
	tmp := b.path(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o600); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := os.Rename(tmp, b.path(key)); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (b *FileBackend) Remove(_ context.Context, key string) error {
	if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key)
}
