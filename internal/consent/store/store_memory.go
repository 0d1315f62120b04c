package store

import (
	"context"
	"sync"

	"github.com/aid-lo/cookie-consent/internal/sentinel"
)

// InMemoryBackend keeps blobs in a process-local map. It backs tests and
// serves as the reference Backend implementation.
type InMemoryBackend struct {
	mu    sync.RWMutex
	blobs map[string]string
}

// NewMemory constructs an empty in-memory backend.
func NewMemory() *InMemoryBackend {
	return &InMemoryBackend{blobs: make(map[string]string)}
}

func (b *InMemoryBackend) Probe(_ context.Context) error {
	return nil
}

func (b *InMemoryBackend) Read(_ context.Context, key string) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	blob, ok := b.blobs[key]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	return blob, nil
}

func (b *InMemoryBackend) Write(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = value
	return nil
}

func (b *InMemoryBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.blobs, key)
	return nil
}
